// internal/runner/runner_test.go
package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/content"
	"blogforge/internal/research"
	"blogforge/internal/storage"
)

// ==========================
// Stubs
// ==========================

type stubResearcher struct {
	scores map[string]int
	panics bool
}

func (s *stubResearcher) Research(_ context.Context, product *research.Product) *research.Record {
	if s.panics {
		panic("researcher blew up")
	}
	score := s.scores[product.Name]
	return &research.Record{
		ProductName:    product.Name,
		TrustScore:     score,
		Approved:       score >= 60,
		Recommendation: research.Recommend(score),
	}
}

type stubGenerator struct {
	err      error
	calls    int
	seenUsed map[string]bool
}

func (s *stubGenerator) Generate(_ context.Context, product *research.Product, _ *research.Record, usedSources map[string]bool) (*content.Post, error) {
	s.calls++
	s.seenUsed = usedSources
	if s.err != nil {
		return nil, s.err
	}
	return &content.Post{
		Slug:      "2026-08-23-" + content.Slugify(product.Name),
		Content:   "<html></html>",
		WordCount: 1500,
		Backlinks: []string{"https://nih.gov/study"},
	}, nil
}

type memStore struct {
	research    []*research.Record
	blacklist   []*research.Record
	saved       []*content.Post
	summaries   [][]storage.ProductResult
	errorLog    []string
	usedSources []string
	sitemapURL  string
}

func (m *memStore) SaveResearch(r *research.Record) error { m.research = append(m.research, r); return nil }
func (m *memStore) AppendBlacklist(r *research.Record) error {
	m.blacklist = append(m.blacklist, r)
	return nil
}
func (m *memStore) SaveContent(p *content.Post) (string, error) {
	m.saved = append(m.saved, p)
	return "output/blog/" + p.Slug + ".html", nil
}
func (m *memStore) SaveRunSummary(results []storage.ProductResult) error {
	m.summaries = append(m.summaries, results)
	return nil
}
func (m *memStore) AppendErrorLog(product string, err error) error {
	m.errorLog = append(m.errorLog, product+": "+err.Error())
	return nil
}
func (m *memStore) UsedSources() (map[string]bool, error) {
	used := make(map[string]bool)
	for _, u := range m.usedSources {
		used[u] = true
	}
	return used, nil
}
func (m *memStore) AppendUsedSources(urls []string) error {
	m.usedSources = append(m.usedSources, urls...)
	return nil
}
func (m *memStore) WriteSitemap(baseURL string) error { m.sitemapURL = baseURL; return nil }

func testRunnerConfig(products ...config.ProductConfig) *config.Config {
	return &config.Config{
		Content:  config.ContentConfig{SitemapBaseURL: "https://blog.example.com"},
		Products: products,
	}
}

func enabledProduct(name string) config.ProductConfig {
	return config.ProductConfig{Name: name, LandingPage: "https://" + content.Slugify(name) + ".example.com"}
}

// ==========================
// Run
// ==========================

func TestRun_CompletedProduct(t *testing.T) {
	store := &memStore{}
	r := New(
		testRunnerConfig(enabledProduct("Acme Cream")),
		&stubResearcher{scores: map[string]int{"Acme Cream": 85}},
		&stubGenerator{},
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	require.Len(t, store.summaries, 1)
	require.Len(t, store.summaries[0], 1)
	result := store.summaries[0][0]

	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, 85, result.TrustScore)
	require.NotNil(t, result.ContentGenerated)
	assert.True(t, *result.ContentGenerated)
	assert.Equal(t, 1500, result.WordCount)
	assert.Contains(t, result.OutputPath, "acme-cream")

	assert.Len(t, store.research, 1)
	assert.Len(t, store.saved, 1)
	assert.Empty(t, store.blacklist)
	assert.Equal(t, "https://blog.example.com", store.sitemapURL)
}

func TestRun_UsedSourcesFlowThroughGeneration(t *testing.T) {
	store := &memStore{usedSources: []string{"https://nih.gov/earlier"}}
	gen := &stubGenerator{}
	r := New(
		testRunnerConfig(enabledProduct("Acme Cream")),
		&stubResearcher{scores: map[string]int{"Acme Cream": 85}},
		gen,
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	// Previously consumed sources reach the generator, and the citations it
	// inserted are marked used for the next run.
	assert.True(t, gen.seenUsed["https://nih.gov/earlier"])
	assert.Contains(t, store.usedSources, "https://nih.gov/study")
}

func TestRun_RejectedProductGoesToBlacklist(t *testing.T) {
	store := &memStore{}
	gen := &stubGenerator{}
	r := New(
		testRunnerConfig(enabledProduct("Sketchy Pills")),
		&stubResearcher{scores: map[string]int{"Sketchy Pills": 20}},
		gen,
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	result := store.summaries[0][0]
	assert.Equal(t, "rejected", result.Status)
	assert.Equal(t, 20, result.TrustScore)
	assert.Equal(t, research.Recommend(20), result.Reason)

	assert.Len(t, store.blacklist, 1)
	assert.Zero(t, gen.calls)
	// Research record is persisted even for rejections.
	assert.Len(t, store.research, 1)
	// No completions, no sitemap.
	assert.Empty(t, store.sitemapURL)
}

func TestRun_DryRunSkipsGenerationAndSitemap(t *testing.T) {
	store := &memStore{}
	gen := &stubGenerator{}
	r := New(
		testRunnerConfig(enabledProduct("Acme Cream")),
		&stubResearcher{scores: map[string]int{"Acme Cream": 85}},
		gen,
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", true))

	result := store.summaries[0][0]
	assert.Equal(t, "approved", result.Status)
	require.NotNil(t, result.ContentGenerated)
	assert.False(t, *result.ContentGenerated)

	assert.Zero(t, gen.calls)
	assert.Empty(t, store.saved)
	assert.Empty(t, store.sitemapURL)
	// Research is still persisted on dry runs.
	assert.Len(t, store.research, 1)
}

func TestRun_ProductFilterIsCaseInsensitive(t *testing.T) {
	store := &memStore{}
	r := New(
		testRunnerConfig(enabledProduct("Acme Cream"), enabledProduct("Other Thing")),
		&stubResearcher{scores: map[string]int{"Acme Cream": 85, "Other Thing": 85}},
		&stubGenerator{},
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "ACME cream", false))

	require.Len(t, store.summaries, 1)
	require.Len(t, store.summaries[0], 1)
	assert.Equal(t, "Acme Cream", store.summaries[0][0].Product)
}

func TestRun_FilterMatchesDisabledProduct(t *testing.T) {
	disabled := false
	product := enabledProduct("Acme Cream")
	product.Enabled = &disabled

	store := &memStore{}
	r := New(
		testRunnerConfig(product),
		&stubResearcher{scores: map[string]int{"Acme Cream": 85}},
		&stubGenerator{},
		store,
		logger.NewTestLogger(t),
	)

	// Explicit filter overrides the enabled flag.
	require.NoError(t, r.Run(context.Background(), "acme cream", false))
	require.Len(t, store.summaries, 1)

	// Without a filter, the disabled product is skipped entirely.
	store2 := &memStore{}
	r2 := New(testRunnerConfig(product), &stubResearcher{}, &stubGenerator{}, store2, logger.NewTestLogger(t))
	require.NoError(t, r2.Run(context.Background(), "", false))
	assert.Empty(t, store2.summaries)
}

func TestRun_NoProductsWritesNoSummary(t *testing.T) {
	store := &memStore{}
	r := New(testRunnerConfig(), &stubResearcher{}, &stubGenerator{}, store, logger.NewTestLogger(t))

	require.NoError(t, r.Run(context.Background(), "", false))
	assert.Empty(t, store.summaries)
}

func TestRun_GenerationFailureMarksErroredAndContinues(t *testing.T) {
	store := &memStore{}
	r := New(
		testRunnerConfig(enabledProduct("Broken"), enabledProduct("Fine")),
		&stubResearcher{scores: map[string]int{"Broken": 85, "Fine": 20}},
		&stubGenerator{err: errors.New("CONTENT_GENERATION_FAILED")},
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	require.Len(t, store.summaries[0], 2)
	assert.Equal(t, "errored", store.summaries[0][0].Status)
	assert.Equal(t, "rejected", store.summaries[0][1].Status)

	require.Len(t, store.errorLog, 1)
	assert.Contains(t, store.errorLog[0], "Broken")
	assert.Contains(t, store.errorLog[0], "CONTENT_GENERATION_FAILED")
}

func TestRun_PanicIsContainedPerProduct(t *testing.T) {
	store := &memStore{}
	r := New(
		testRunnerConfig(enabledProduct("Explosive")),
		&stubResearcher{panics: true},
		&stubGenerator{},
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	require.Len(t, store.summaries[0], 1)
	assert.Equal(t, "errored", store.summaries[0][0].Status)
	assert.Contains(t, store.summaries[0][0].Reason, "panic")
	require.Len(t, store.errorLog, 1)
	assert.Contains(t, store.errorLog[0], "Explosive")
}

func TestRun_InvalidProductConfigIsErrored(t *testing.T) {
	store := &memStore{}
	r := New(
		testRunnerConfig(config.ProductConfig{Name: "No Landing Page"}),
		&stubResearcher{},
		&stubGenerator{},
		store,
		logger.NewTestLogger(t),
	)

	require.NoError(t, r.Run(context.Background(), "", false))

	require.Len(t, store.summaries[0], 1)
	assert.Equal(t, "errored", store.summaries[0][0].Status)
	assert.Len(t, store.errorLog, 1)
}
