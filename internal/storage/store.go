// internal/storage/store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "blogforge/internal/common/errors"
	"blogforge/internal/common/logger"
	"blogforge/internal/content"
	"blogforge/internal/research"
)

// BlacklistEntry is one rejected product in the append-on-write blacklist.
type BlacklistEntry struct {
	Product    string    `json:"product"`
	TrustScore int       `json:"trust_score"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
}

// ProductResult is one per-product line in the run summary.
type ProductResult struct {
	Product          string `json:"product"`
	Status           string `json:"status"`
	TrustScore       int    `json:"trust_score"`
	Reason           string `json:"reason,omitempty"`
	ContentGenerated *bool  `json:"content_generated,omitempty"`
	OutputPath       string `json:"output_path,omitempty"`
	WordCount        int    `json:"word_count,omitempty"`
}

// Store owns all file artifacts under the configured base directory:
// research records and the blacklist in data/, rendered posts and the
// sitemap in output/blog/, run summaries and the error log in logs/.
//
// Single-writer by design; concurrent invocations of the whole tool are not
// supported.
type Store struct {
	baseDir string
	logger  logger.Logger
}

func New(baseDir string, log logger.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		logger:  log.WithFields(map[string]interface{}{"component": "storage"}),
	}
}

// Setup creates the directory tree.
func (s *Store) Setup() error {
	for _, dir := range []string{
		filepath.Join(s.baseDir, "data"),
		filepath.Join(s.baseDir, "output", "blog"),
		filepath.Join(s.baseDir, "logs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SaveResearch writes the pretty-printed research record for one product.
func (s *Store) SaveResearch(record *research.Record) error {
	path := filepath.Join(s.baseDir, "data",
		fmt.Sprintf("research_%s.json", content.Slugify(record.ProductName)))
	return s.writeJSON(path, record)
}

// AppendBlacklist adds a rejected product to the blacklist array,
// read-modify-write.
func (s *Store) AppendBlacklist(record *research.Record) error {
	path := filepath.Join(s.baseDir, "data", "blacklist.json")

	var blacklist []BlacklistEntry
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &blacklist); err != nil {
			return fmt.Errorf("parse blacklist: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read blacklist: %w", err)
	}

	blacklist = append(blacklist, BlacklistEntry{
		Product:    record.ProductName,
		TrustScore: record.TrustScore,
		Reason:     record.Recommendation,
		RejectedAt: time.Now().UTC(),
	})

	return s.writeJSON(path, blacklist)
}

// SaveContent writes the rendered post and returns its path.
func (s *Store) SaveContent(post *content.Post) (string, error) {
	path := filepath.Join(s.baseDir, "output", "blog", post.Slug+".html")
	if err := os.WriteFile(path, []byte(post.Content), 0o644); err != nil {
		return "", apperrors.NewPersistenceFailedError(path, err)
	}

	s.logger.Info("content saved", map[string]interface{}{
		"path":      path,
		"wordCount": post.WordCount,
	})
	return path, nil
}

// SaveRunSummary writes the per-invocation run summary, one entry per
// product processed.
func (s *Store) SaveRunSummary(results []ProductResult) error {
	path := filepath.Join(s.baseDir, "logs",
		fmt.Sprintf("run_%s.json", time.Now().UTC().Format("20060102_150405")))
	return s.writeJSON(path, results)
}

// UsedSources returns the set of citation URLs consumed by earlier runs,
// one URL per line in data/used_sources.txt. A missing file is an empty set.
func (s *Store) UsedSources() (map[string]bool, error) {
	path := filepath.Join(s.baseDir, "data", "used_sources.txt")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read used sources: %w", err)
	}

	used := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			used[line] = true
		}
	}
	return used, nil
}

// AppendUsedSources marks citation URLs as consumed so later runs pick
// fresh ones.
func (s *Store) AppendUsedSources(urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	path := filepath.Join(s.baseDir, "data", "used_sources.txt")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open used sources: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(urls, "\n") + "\n"); err != nil {
		return fmt.Errorf("write used sources: %w", err)
	}
	return nil
}

// AppendErrorLog appends one line to the error log:
// [<ISO-8601 UTC>] <product>: <error>
func (s *Store) AppendErrorLog(productName string, procErr error) error {
	path := filepath.Join(s.baseDir, "logs", "errors.log")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().UTC().Format(time.RFC3339), productName, procErr.Error())
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write error log: %w", err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewPersistenceFailedError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewPersistenceFailedError(path, err)
	}
	return nil
}
