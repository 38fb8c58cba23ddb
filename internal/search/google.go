// internal/search/google.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"blogforge/internal/common/config"
	apperrors "blogforge/internal/common/errors"
	"blogforge/internal/common/logger"
	"blogforge/internal/common/observability"
)

var (
	ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")
)

// GoogleCSE queries a Google Custom Search style JSON API.
type GoogleCSE struct {
	cfg    config.SearchConfig
	client *http.Client
	logger logger.Logger
}

func NewGoogleCSE(cfg config.SearchConfig, log logger.Logger) *GoogleCSE {
	return &GoogleCSE{
		cfg: cfg,
		client: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "search"}),
	}
}

// FromConfig returns the configured searcher: a CSE client when an API key
// is set, otherwise the no-op stub.
func FromConfig(cfg config.SearchConfig, log logger.Logger) Searcher {
	if cfg.APIKey == "" {
		log.Warn("no search API key configured, search returns no results", nil)
		return Noop{}
	}
	return NewGoogleCSE(cfg, log)
}

func (g *GoogleCSE) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = g.cfg.ResultsPerQuery
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.buildSearchURL(query, limit), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		observability.RecordSearch("error")
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, ErrSearchTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.RecordSearch("error")
		return nil, apperrors.NewSearchFailedError(query, fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		observability.RecordSearch("error")
		return nil, err
	}

	seen := make(map[string]bool)
	var results []Result

	for _, item := range apiResponse.Items {
		// Skip non-HTML
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}

		// Dedupe by URL
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		results = append(results, Result{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})

		if len(results) >= limit {
			break
		}
	}

	if len(results) == 0 {
		observability.RecordSearch("empty")
	} else {
		observability.RecordSearch("ok")
	}

	g.logger.Debug("search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})

	return results, nil
}

func (g *GoogleCSE) buildSearchURL(query string, limit int) string {
	baseURL, _ := url.Parse(g.cfg.BaseURL)
	params := url.Values{}
	params.Add("key", g.cfg.APIKey)
	params.Add("cx", g.cfg.EngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", limit))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
