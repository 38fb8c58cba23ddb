// internal/research/collector_test.go
package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/search"
)

// ==========================
// Stub collaborators
// ==========================

type stubSearcher struct {
	results map[string][]search.Result
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, limit int) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	results := s.results[query]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type stubFetcher struct {
	texts map[string]string
	err   error
}

func (f *stubFetcher) ExtractText(_ context.Context, rawURL string, maxChars int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text := f.texts[rawURL]
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

type stubAnalyst struct {
	claims  *ScrapedClaims
	reviews *ReviewAnalysis
	err     error
}

func (a *stubAnalyst) ExtractClaims(_ context.Context, _ string) (*ScrapedClaims, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.claims, nil
}

func (a *stubAnalyst) AnalyzeReviews(_ context.Context, _ string, _ []string) (*ReviewAnalysis, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.reviews, nil
}

func testResearchConfig() config.ResearchConfig {
	return config.ResearchConfig{
		TrustScoreThreshold: 60,
		EvidenceSources:     []string{"nih.gov", "pubmed.ncbi.nlm.nih.gov", "mayoclinic.org"},
		ScamKeywords:        []string{"scam", "fraud", "fake", "ripoff"},
		MaxClaims:           3,
		MaxSources:          3,
		MaxEvidenceResults:  2,
		MaxReviewTexts:      10,
	}
}

func newTestCollector(t *testing.T, s search.Searcher, f TextFetcher, a Analyst) *Collector {
	return NewCollector(s, f, a, testResearchConfig(), config.ScrapeConfig{
		MaxLandingChars: 5000,
		MaxReviewChars:  2000,
	}, logger.NewTestLogger(t))
}

// ==========================
// CollectClaims
// ==========================

func TestCollectClaims_Success(t *testing.T) {
	fetcher := &stubFetcher{texts: map[string]string{
		"https://product.example.com": "Reduces wrinkles. All natural.",
	}}
	analyst := &stubAnalyst{claims: &ScrapedClaims{
		Claims:   []string{"Reduces wrinkles"},
		Benefits: []string{"All natural"},
		RedFlags: []string{},
	}}

	c := newTestCollector(t, &stubSearcher{}, fetcher, analyst)

	claims := c.CollectClaims(context.Background(), "https://product.example.com")
	require.NotNil(t, claims)
	assert.Equal(t, []string{"Reduces wrinkles"}, claims.Claims)
	assert.Empty(t, claims.RedFlags)
}

func TestCollectClaims_FetchFailureDegradesToRedFlag(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}

	c := newTestCollector(t, &stubSearcher{}, fetcher, &stubAnalyst{})

	claims := c.CollectClaims(context.Background(), "https://product.example.com")
	require.NotNil(t, claims)
	assert.Empty(t, claims.Claims)
	assert.Equal(t, []string{"Unable to scrape landing page"}, claims.RedFlags)
}

func TestCollectClaims_AnalysisFailureDegradesToRedFlag(t *testing.T) {
	fetcher := &stubFetcher{texts: map[string]string{
		"https://product.example.com": "some page text",
	}}
	analyst := &stubAnalyst{err: errors.New("LLM_PARSE_FAILED")}

	c := newTestCollector(t, &stubSearcher{}, fetcher, analyst)

	claims := c.CollectClaims(context.Background(), "https://product.example.com")
	assert.Equal(t, []string{"Unable to scrape landing page"}, claims.RedFlags)
}

// ==========================
// CollectReviews
// ==========================

func TestCollectReviews_QueriesAllPlatforms(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})
	c.CollectReviews(context.Background(), "Acme Cream")

	assert.Equal(t, []string{
		`"Acme Cream" review`,
		`"Acme Cream" scam`,
		`"Acme Cream" complaints`,
		`"Acme Cream" reddit`,
		`"Acme Cream" trustpilot`,
	}, searcher.queries)
}

func TestCollectReviews_NoResultsYieldsNeutralDefault(t *testing.T) {
	c := newTestCollector(t, &stubSearcher{}, &stubFetcher{}, &stubAnalyst{})

	reviews := c.CollectReviews(context.Background(), "Acme Cream")
	require.NotNil(t, reviews)
	assert.Equal(t, 0.0, reviews.SentimentScore)
	assert.False(t, reviews.FakeDetected)
}

func TestCollectReviews_SearchErrorYieldsNeutralDefault(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("SEARCH_TIMEOUT")}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	reviews := c.CollectReviews(context.Background(), "Acme Cream")
	assert.Equal(t, 0.0, reviews.SentimentScore)
	assert.False(t, reviews.FakeDetected)
}

func TestCollectReviews_AnalyzesRetrievedTexts(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{
		`"Acme Cream" review`: {{URL: "https://reviews.example.com", Title: "Review"}},
	}}
	fetcher := &stubFetcher{texts: map[string]string{
		"https://reviews.example.com": "Works great, saw results in two weeks.",
	}}
	analyst := &stubAnalyst{reviews: &ReviewAnalysis{
		SentimentScore: 0.7,
		PositiveThemes: []string{"visible results"},
	}}

	c := newTestCollector(t, searcher, fetcher, analyst)

	reviews := c.CollectReviews(context.Background(), "Acme Cream")
	assert.Equal(t, 0.7, reviews.SentimentScore)
	assert.Equal(t, []string{"visible results"}, reviews.PositiveThemes)
}

// ==========================
// CollectScamReports
// ==========================

func TestCollectScamReports_LexiconMatch(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{
		`"Acme Cream" scam`: {
			{URL: "https://warn.example.com", Title: "Acme Cream SCAM exposed", Snippet: "avoid"},
			{URL: "https://ok.example.com", Title: "Honest look at Acme Cream", Snippet: "balanced take"},
		},
	}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	check := c.CollectScamReports(context.Background(), "Acme Cream")
	assert.True(t, check.ScamReportsFound)
	require.Len(t, check.Sources, 1)
	assert.Equal(t, "https://warn.example.com", check.Sources[0].URL)
}

func TestCollectScamReports_SnippetMatchCounts(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{
		`"Acme Cream" fraud`: {
			{URL: "https://board.example.com", Title: "Acme Cream discussion", Snippet: "total ripoff, stay away"},
		},
	}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	check := c.CollectScamReports(context.Background(), "Acme Cream")
	assert.True(t, check.ScamReportsFound)
}

func TestCollectScamReports_NoMatchesNotFlagged(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{
		`"Acme Cream" scam`: {
			{URL: "https://ok.example.com", Title: "Acme Cream ingredients list", Snippet: "what is in it"},
		},
	}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	check := c.CollectScamReports(context.Background(), "Acme Cream")
	assert.False(t, check.ScamReportsFound)
	assert.Empty(t, check.Sources)
}

func TestCollectScamReports_SearchErrorNotFlagged(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("network down")}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	check := c.CollectScamReports(context.Background(), "Acme Cream")
	assert.False(t, check.ScamReportsFound)
	assert.Empty(t, check.Sources)
}

// ==========================
// CollectEvidence
// ==========================

func TestCollectEvidence_DomainScopedQueries(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})
	c.CollectEvidence(context.Background(),
		[]string{"Reduces wrinkles by 40%"},
		[]string{"anti-aging", "skincare", "extra"})

	require.Len(t, searcher.queries, 3)
	assert.Equal(t, "site:nih.gov anti-aging skincare Reduces wrinkles by 40%", searcher.queries[0])
	// Only the first two keywords are used.
	for _, q := range searcher.queries {
		assert.NotContains(t, q, "extra")
	}
}

func TestCollectEvidence_CapsClaimsAndSources(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})
	c.CollectEvidence(context.Background(),
		[]string{"c1", "c2", "c3", "c4", "c5"},
		nil)

	// 3 claims x 3 sources.
	assert.Len(t, searcher.queries, 9)
}

func TestCollectEvidence_TruncatesLongClaims(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]search.Result{}}
	longClaim := strings.Repeat("x", 80)

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})
	c.CollectEvidence(context.Background(), []string{longClaim}, nil)

	require.NotEmpty(t, searcher.queries)
	assert.Contains(t, searcher.queries[0], strings.Repeat("x", 50))
	assert.NotContains(t, searcher.queries[0], strings.Repeat("x", 51))
}

func TestCollectEvidence_RecordsMatches(t *testing.T) {
	query := "site:nih.gov  collagen boost"
	searcher := &stubSearcher{results: map[string][]search.Result{
		query: {
			{URL: "https://nih.gov/study", Title: "Collagen study", Snippet: "randomized trial"},
		},
	}}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	evidence := c.CollectEvidence(context.Background(), []string{"collagen boost"}, nil)
	require.Len(t, evidence, 1)
	assert.Equal(t, "collagen boost", evidence[0].Claim)
	assert.Equal(t, "nih.gov", evidence[0].Source)
	assert.Equal(t, "https://nih.gov/study", evidence[0].URL)
}

func TestCollectEvidence_SearchErrorYieldsEmpty(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("quota exceeded")}

	c := newTestCollector(t, searcher, &stubFetcher{}, &stubAnalyst{})

	evidence := c.CollectEvidence(context.Background(), []string{"claim"}, nil)
	assert.Empty(t, evidence)
}
