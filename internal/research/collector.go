// internal/research/collector.go
package research

import (
	"context"
	"fmt"
	"strings"

	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/search"
)

// TextFetcher is the page-scraping collaborator.
type TextFetcher interface {
	ExtractText(ctx context.Context, rawURL string, maxChars int) (string, error)
}

// Collector gathers the four independent evidence channels for a product.
// Every channel degrades to its empty or neutral default on failure; none of
// the Collect methods ever returns an error.
type Collector struct {
	searcher search.Searcher
	fetcher  TextFetcher
	analyst  Analyst
	research config.ResearchConfig
	scrape   config.ScrapeConfig
	logger   logger.Logger
}

func NewCollector(
	searcher search.Searcher,
	fetcher TextFetcher,
	analyst Analyst,
	research config.ResearchConfig,
	scrape config.ScrapeConfig,
	log logger.Logger,
) *Collector {
	return &Collector{
		searcher: searcher,
		fetcher:  fetcher,
		analyst:  analyst,
		research: research,
		scrape:   scrape,
		logger:   log.WithFields(map[string]interface{}{"component": "collector"}),
	}
}

// CollectClaims scrapes the landing page and asks the analyst for structured
// claims. Fetch or analysis failure degrades into a single red flag instead
// of aborting the pipeline.
func (c *Collector) CollectClaims(ctx context.Context, landingPageURL string) *ScrapedClaims {
	failed := &ScrapedClaims{
		Claims:      []string{},
		Benefits:    []string{},
		Ingredients: []string{},
		RedFlags:    []string{"Unable to scrape landing page"},
	}

	text, err := c.fetcher.ExtractText(ctx, landingPageURL, c.scrape.MaxLandingChars)
	if err != nil || strings.TrimSpace(text) == "" {
		c.logger.Warn("landing page scrape failed", map[string]interface{}{
			"url":   landingPageURL,
			"error": errString(err),
		})
		return failed
	}

	claims, err := c.analyst.ExtractClaims(ctx, text)
	if err != nil {
		c.logger.Warn("claim extraction failed", map[string]interface{}{
			"url":   landingPageURL,
			"error": err.Error(),
		})
		return failed
	}
	return claims
}

// CollectReviews searches review platforms, extracts text from each hit, and
// asks the analyst for one aggregate sentiment verdict. No retrievable review
// text yields the neutral default.
func (c *Collector) CollectReviews(ctx context.Context, productName string) *ReviewAnalysis {
	neutral := &ReviewAnalysis{
		PositiveThemes: []string{},
		NegativeThemes: []string{},
	}

	queries := []string{
		fmt.Sprintf(`"%s" review`, productName),
		fmt.Sprintf(`"%s" scam`, productName),
		fmt.Sprintf(`"%s" complaints`, productName),
		fmt.Sprintf(`"%s" reddit`, productName),
		fmt.Sprintf(`"%s" trustpilot`, productName),
	}

	var reviewTexts []string
	for _, query := range queries {
		results, err := c.searcher.Search(ctx, query, 5)
		if err != nil {
			c.logger.Warn("review search failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
			continue
		}

		for _, result := range results {
			if len(reviewTexts) >= c.research.MaxReviewTexts {
				break
			}
			text, err := c.fetcher.ExtractText(ctx, result.URL, c.scrape.MaxReviewChars)
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
			reviewTexts = append(reviewTexts, text)
		}
	}

	if len(reviewTexts) == 0 {
		return neutral
	}

	analysis, err := c.analyst.AnalyzeReviews(ctx, productName, reviewTexts)
	if err != nil {
		c.logger.Warn("review analysis failed", map[string]interface{}{
			"product": productName,
			"error":   err.Error(),
		})
		return neutral
	}
	return analysis
}

// CollectScamReports queries scam and complaint channels and flags any hit
// whose title or snippet contains a lexicon keyword. Search failure yields an
// empty, non-flagged result.
func (c *Collector) CollectScamReports(ctx context.Context, productName string) *ScamCheck {
	check := &ScamCheck{Sources: []ScamSource{}}

	queries := []string{
		fmt.Sprintf(`"%s" scam`, productName),
		fmt.Sprintf(`"%s" fraud`, productName),
		fmt.Sprintf(`"%s" BBB`, productName),
		fmt.Sprintf(`"%s" FTC complaint`, productName),
	}

	for _, query := range queries {
		results, err := c.searcher.Search(ctx, query, 3)
		if err != nil {
			c.logger.Warn("scam search failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
			continue
		}

		for _, result := range results {
			if c.matchesScamLexicon(result.Title) || c.matchesScamLexicon(result.Snippet) {
				check.ScamReportsFound = true
				check.Sources = append(check.Sources, ScamSource{
					URL:   result.URL,
					Title: result.Title,
				})
			}
		}
	}

	return check
}

func (c *Collector) matchesScamLexicon(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range c.research.ScamKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// CollectEvidence searches each trusted domain for each top claim. All caps
// come from configuration.
func (c *Collector) CollectEvidence(ctx context.Context, claims, keywords []string) []Evidence {
	evidence := []Evidence{}

	topClaims := claims
	if len(topClaims) > c.research.MaxClaims {
		topClaims = topClaims[:c.research.MaxClaims]
	}
	sources := c.research.EvidenceSources
	if len(sources) > c.research.MaxSources {
		sources = sources[:c.research.MaxSources]
	}

	keywordPart := strings.Join(firstN(keywords, 2), " ")

	for _, claim := range topClaims {
		for _, source := range sources {
			query := fmt.Sprintf("site:%s %s %s", source, keywordPart, truncateClaim(claim, 50))
			results, err := c.searcher.Search(ctx, query, c.research.MaxEvidenceResults)
			if err != nil {
				c.logger.Warn("evidence search failed", map[string]interface{}{
					"query": query,
					"error": err.Error(),
				})
				continue
			}

			for _, result := range results {
				evidence = append(evidence, Evidence{
					Claim:   claim,
					Source:  source,
					Title:   result.Title,
					URL:     result.URL,
					Snippet: result.Snippet,
				})
			}
		}
	}

	return evidence
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncateClaim(claim string, maxChars int) string {
	runes := []rune(claim)
	if len(runes) > maxChars {
		return string(runes[:maxChars])
	}
	return claim
}

func errString(err error) string {
	if err == nil {
		return "empty page text"
	}
	return err.Error()
}
