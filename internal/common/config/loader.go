// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "blogforge/internal/common/errors"
)

// Load reads configuration from the default search paths.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like LLM_API_KEY_ENV
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// credentials can live outside the YAML file.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values. An
// unset variable expands to the empty string, so a key set to a bare
// placeholder ends up genuinely empty instead of carrying the literal
// "${VAR}" text into the client configs.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 120000
	}
	if cfg.LLM.StreamWatchdog == 0 {
		cfg.LLM.StreamWatchdog = 60000
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 2
	}

	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 10000
	}
	if cfg.Search.ResultsPerQuery == 0 {
		cfg.Search.ResultsPerQuery = 5
	}

	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 15000
	}
	if cfg.Scrape.MaxLandingChars == 0 {
		cfg.Scrape.MaxLandingChars = 5000
	}
	if cfg.Scrape.MaxReviewChars == 0 {
		cfg.Scrape.MaxReviewChars = 2000
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = "Mozilla/5.0 (compatible; BlogForge/1.0)"
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = int((6 * 60 * 60) * 1000) // 6h
	}

	if cfg.Research.TrustScoreThreshold == 0 {
		cfg.Research.TrustScoreThreshold = 60
	}
	// Non-empty config lists fully replace the built-in defaults.
	if len(cfg.Research.EvidenceSources) == 0 {
		cfg.Research.EvidenceSources = []string{"nih.gov", "pubmed.ncbi.nlm.nih.gov", "mayoclinic.org"}
	}
	if len(cfg.Research.ScamKeywords) == 0 {
		cfg.Research.ScamKeywords = []string{"scam", "fraud", "fake", "ripoff"}
	}
	if cfg.Research.MaxClaims == 0 {
		cfg.Research.MaxClaims = 3
	}
	if cfg.Research.MaxSources == 0 {
		cfg.Research.MaxSources = 3
	}
	if cfg.Research.MaxEvidenceResults == 0 {
		cfg.Research.MaxEvidenceResults = 2
	}
	if cfg.Research.MaxReviewTexts == 0 {
		cfg.Research.MaxReviewTexts = 10
	}

	if cfg.Content.MinWords == 0 {
		cfg.Content.MinWords = 1200
	}
	if cfg.Content.MaxWords == 0 {
		cfg.Content.MaxWords = 2000
	}
	if cfg.Content.Tone == "" {
		cfg.Content.Tone = "friendly, informative"
	}

	if cfg.Backlinks.MaxBacklinks == 0 {
		cfg.Backlinks.MaxBacklinks = 5
	}

	if cfg.Safety.ComplaintEmail == "" {
		cfg.Safety.ComplaintEmail = "affiliate-complaints@example.com"
	}

	if cfg.Output.BaseDir == "" {
		cfg.Output.BaseDir = "blogforge"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.LLM.APIKeyEnv == "" {
		return apperrors.NewConfigInvalidError("llm.api_key_env is required")
	}

	if cfg.Search.APIKey != "" && cfg.Search.EngineID == "" {
		return apperrors.NewConfigInvalidError("search.engine_id is required when search.api_key is set")
	}

	if cfg.Research.TrustScoreThreshold < 0 || cfg.Research.TrustScoreThreshold > 100 {
		return apperrors.NewConfigInvalidError("research.trust_score_threshold must be in [0,100]")
	}

	for i, p := range cfg.Products {
		if p.Name == "" {
			return apperrors.NewConfigInvalidError(fmt.Sprintf("products[%d].name is required", i))
		}
		if p.LandingPage == "" {
			return apperrors.NewConfigInvalidError(fmt.Sprintf("products[%d].landing_page is required", i))
		}
	}

	return nil
}
