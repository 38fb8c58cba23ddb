// internal/search/search.go
package search

import "context"

// Result is a single web-search hit.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Searcher is the pluggable web-search collaborator. Implementations must
// treat "no results" as a normal outcome, not an error.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Noop is a searcher that always returns no results. It is the default when
// no search API credentials are configured; the research pipeline degrades
// to its empty/neutral defaults on every search-derived channel.
type Noop struct{}

func (Noop) Search(_ context.Context, _ string, _ int) ([]Result, error) {
	return nil, nil
}
