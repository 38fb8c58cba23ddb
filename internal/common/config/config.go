// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	System    SystemConfig    `mapstructure:"system"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Research  ResearchConfig  `mapstructure:"research"`
	Content   ContentConfig   `mapstructure:"content"`
	Backlinks BacklinkConfig  `mapstructure:"backlinks"`
	Safety    SafetyConfig    `mapstructure:"safety"`
	Platforms PlatformConfig  `mapstructure:"platforms"`
	Output    OutputConfig    `mapstructure:"output"`
	Products  []ProductConfig `mapstructure:"products"`
}

type SystemConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds settings for the language-model completion API.
type LLMConfig struct {
	APIKeyEnv      string  `mapstructure:"api_key_env"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Timeout        int     `mapstructure:"timeout"`         // milliseconds
	StreamWatchdog int     `mapstructure:"stream_watchdog"` // milliseconds
	MaxRetries     int     `mapstructure:"max_retries"`
}

// SearchConfig holds settings for the web-search collaborator. An empty
// APIKey selects the no-op searcher that returns no results.
type SearchConfig struct {
	APIKey          string `mapstructure:"api_key"`
	EngineID        string `mapstructure:"engine_id"`
	BaseURL         string `mapstructure:"base_url"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	ResultsPerQuery int    `mapstructure:"results_per_query"`
}

// ScrapeConfig holds settings for landing-page and review-page fetching.
type ScrapeConfig struct {
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	MaxLandingChars int    `mapstructure:"max_landing_chars"`
	MaxReviewChars  int    `mapstructure:"max_review_chars"`
	UserAgent       string `mapstructure:"user_agent"`
}

// CacheConfig holds settings for the optional Redis page-text cache.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // milliseconds
}

// ResearchConfig holds the trust-scoring pipeline settings.
type ResearchConfig struct {
	TrustScoreThreshold int      `mapstructure:"trust_score_threshold"`
	EvidenceSources     []string `mapstructure:"evidence_sources"`
	ScamKeywords        []string `mapstructure:"scam_keywords"`
	MaxClaims           int      `mapstructure:"max_claims"`
	MaxSources          int      `mapstructure:"max_sources"`
	MaxEvidenceResults  int      `mapstructure:"max_evidence_results"`
	MaxReviewTexts      int      `mapstructure:"max_review_texts"`
}

// ContentConfig holds settings for the content generator.
type ContentConfig struct {
	MinWords        int    `mapstructure:"min_words"`
	MaxWords        int    `mapstructure:"max_words"`
	Tone            string `mapstructure:"tone"`
	IncludeFAQ      bool   `mapstructure:"include_faq"`
	IncludeProsCons bool   `mapstructure:"include_pros_cons"`
	SitemapBaseURL  string `mapstructure:"sitemap_base_url"`
}

type BacklinkConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	MaxBacklinks int  `mapstructure:"max_backlinks"`
}

type SafetyConfig struct {
	DisclaimerText string `mapstructure:"disclaimer_text"`
	ComplaintEmail string `mapstructure:"complaint_email"`
}

type PlatformConfig struct {
	Clickbank ClickbankConfig `mapstructure:"clickbank"`
}

type ClickbankConfig struct {
	Nickname string `mapstructure:"nickname"`
}

type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// ProductConfig describes one product to research. Enabled defaults to true
// when omitted.
type ProductConfig struct {
	Name          string   `mapstructure:"name"`
	LandingPage   string   `mapstructure:"landing_page"`
	Platform      string   `mapstructure:"platform"`
	ProductID     string   `mapstructure:"product_id"`
	Category      string   `mapstructure:"category"`
	Keywords      []string `mapstructure:"keywords"`
	AffiliateLink string   `mapstructure:"affiliate_link"`
	Hoplink       string   `mapstructure:"hoplink"`
	Enabled       *bool    `mapstructure:"enabled"`
}

// IsEnabled reports whether the product should be processed.
func (p ProductConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
