// internal/scrape/scraper.go
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"blogforge/internal/common/cache"
	"blogforge/internal/common/config"
	apperrors "blogforge/internal/common/errors"
	"blogforge/internal/common/logger"
	"blogforge/internal/common/observability"
)

// Fetcher downloads pages and extracts their visible text. Extracted text is
// optionally cached by URL so repeated runs skip the network.
type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     *cache.PageCache
	logger    logger.Logger
}

func NewFetcher(cfg config.ScrapeConfig, pc *cache.PageCache, log logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		userAgent: cfg.UserAgent,
		cache:     pc,
		logger:    log.WithFields(map[string]interface{}{"component": "scrape"}),
	}
}

// ExtractText fetches a URL and returns its visible text, truncated to
// maxChars. Script and style contents are dropped.
func (f *Fetcher) ExtractText(ctx context.Context, rawURL string, maxChars int) (string, error) {
	if text, ok := f.cache.Get(ctx, rawURL); ok {
		return truncate(text, maxChars), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		observability.RecordScrapeFailure()
		return "", apperrors.NewScrapeFailedError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		observability.RecordScrapeFailure()
		return "", apperrors.NewScrapeFailedError(rawURL, fmt.Errorf("status %d", resp.StatusCode))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		observability.RecordScrapeFailure()
		return "", apperrors.NewScrapeFailedError(rawURL, err)
	}

	text := extractText(doc)
	f.cache.Set(ctx, rawURL, text)

	f.logger.Debug("page fetched", map[string]interface{}{
		"url":   rawURL,
		"chars": len(text),
	})

	return truncate(text, maxChars), nil
}

// extractText extracts all visible text content from the HTML, skipping
// script and style subtrees.
func extractText(n *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(buf.String())
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
