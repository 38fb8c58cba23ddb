// internal/research/models.go
package research

import (
	"fmt"
	"strings"
	"time"

	"blogforge/internal/common/config"
)

// Product is the validated research subject built from a config entry.
type Product struct {
	Name          string   `json:"name"`
	LandingPage   string   `json:"landing_page"`
	Platform      string   `json:"platform"`
	ProductID     string   `json:"product_id"`
	Category      string   `json:"category"`
	Keywords      []string `json:"keywords"`
	AffiliateLink string   `json:"affiliate_link,omitempty"`
	Hoplink       string   `json:"hoplink,omitempty"`
}

// NewProduct validates a configured product entry. Name and landing page are
// required; everything else is optional.
func NewProduct(cfg config.ProductConfig) (*Product, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if strings.TrimSpace(cfg.LandingPage) == "" {
		return nil, fmt.Errorf("product %q: landing_page is required", cfg.Name)
	}

	return &Product{
		Name:          cfg.Name,
		LandingPage:   cfg.LandingPage,
		Platform:      cfg.Platform,
		ProductID:     cfg.ProductID,
		Category:      cfg.Category,
		Keywords:      cfg.Keywords,
		AffiliateLink: cfg.AffiliateLink,
		Hoplink:       cfg.Hoplink,
	}, nil
}

// ScrapedClaims is what the landing page says about the product, as extracted
// by the analyst. A failed scrape yields an empty set with a single red flag.
type ScrapedClaims struct {
	Claims      []string `json:"claims"`
	Benefits    []string `json:"benefits"`
	Ingredients []string `json:"ingredients"`
	RedFlags    []string `json:"red_flags"`
}

// ReviewAnalysis is the aggregated sentiment verdict over all retrieved
// review texts. The zero value is the neutral default.
type ReviewAnalysis struct {
	SentimentScore float64  `json:"sentiment_score"`
	FakeDetected   bool     `json:"fake_detected"`
	PositiveThemes []string `json:"positive_themes"`
	NegativeThemes []string `json:"negative_themes"`
}

// ScamSource is a search hit whose title or snippet matched the scam lexicon.
type ScamSource struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ScamCheck aggregates scam-report hits. The zero value means no reports.
type ScamCheck struct {
	ScamReportsFound bool         `json:"scam_reports_found"`
	Sources          []ScamSource `json:"sources"`
}

// Evidence links one product claim to one trusted-source search result.
type Evidence struct {
	Claim   string `json:"claim"`
	Source  string `json:"source"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Record is the immutable unit of record for a single product research run.
type Record struct {
	ProductName    string         `json:"product_name"`
	TrustScore     int            `json:"trust_score"`
	Approved       bool           `json:"approved"`
	Claims         []string       `json:"claims"`
	Benefits       []string       `json:"benefits"`
	Ingredients    []string       `json:"ingredients"`
	RedFlags       []string       `json:"red_flags"`
	Evidence       []Evidence     `json:"evidence"`
	Reviews        ReviewAnalysis `json:"reviews"`
	ScamCheck      ScamCheck      `json:"scam_check"`
	Recommendation string         `json:"recommendation"`
	ResearchedAt   time.Time      `json:"researched_at"`
}
