// internal/storage/sitemap.go
package storage

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// WriteSitemap scans the published posts and writes output/blog/sitemap.xml
// with one <url> per .html file, sorted for stable output.
func (s *Store) WriteSitemap(baseURL string) error {
	blogDir := filepath.Join(s.baseDir, "output", "blog")

	entries, err := os.ReadDir(blogDir)
	if err != nil {
		return fmt.Errorf("read blog dir: %w", err)
	}

	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".html"))
	}
	sort.Strings(slugs)

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, slug := range slugs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc: strings.TrimRight(baseURL, "/") + "/" + slug + ".html",
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}

	path := filepath.Join(blogDir, "sitemap.xml")
	out := []byte(xml.Header + string(data) + "\n")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}

	s.logger.Info("sitemap written", map[string]interface{}{
		"path": path,
		"urls": len(set.URLs),
	})
	return nil
}
