// internal/content/markdown.go
package content

import (
	"regexp"
	"strings"
)

var (
	mdH3     = regexp.MustCompile(`(?m)^### (.+)$`)
	mdH2     = regexp.MustCompile(`(?m)^## (.+)$`)
	mdH1     = regexp.MustCompile(`(?m)^# (.+)$`)
	mdLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic = regexp.MustCompile(`\*(.+?)\*`)
	mdItem   = regexp.MustCompile(`(?m)^- (.+)$`)
)

// MarkdownToHTML converts the bounded markdown grammar the writer model
// emits: ATX headings to level 3, inline links, bold, italic, dash lists and
// blank-line paragraphs. It is not a general markdown parser.
func MarkdownToHTML(markdown string) string {
	html := markdown

	html = mdH3.ReplaceAllString(html, "<h3>$1</h3>")
	html = mdH2.ReplaceAllString(html, "<h2>$1</h2>")
	html = mdH1.ReplaceAllString(html, "<h1>$1</h1>")

	html = mdLink.ReplaceAllString(html, `<a href="$2" target="_blank">$1</a>`)
	html = mdBold.ReplaceAllString(html, "<strong>$1</strong>")
	html = mdItalic.ReplaceAllString(html, "<em>$1</em>")

	html = mdItem.ReplaceAllString(html, "<li>$1</li>")
	html = wrapLists(html)

	return wrapParagraphs(html)
}

// wrapLists wraps each run of consecutive <li> lines in a single <ul>.
func wrapLists(html string) string {
	lines := strings.Split(html, "\n")
	var out []string
	inList := false

	for _, line := range lines {
		isItem := strings.HasPrefix(strings.TrimSpace(line), "<li>")
		if isItem && !inList {
			out = append(out, "<ul>")
			inList = true
		}
		if !isItem && inList {
			out = append(out, "</ul>")
			inList = false
		}
		out = append(out, line)
	}
	if inList {
		out = append(out, "</ul>")
	}

	return strings.Join(out, "\n")
}

// wrapParagraphs wraps each blank-line-separated block in <p>, skipping
// blocks that already start with a tag.
func wrapParagraphs(html string) string {
	blocks := strings.Split(html, "\n\n")
	var out []string

	for _, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "<") {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+block+"</p>")
	}

	return strings.Join(out, "\n")
}
