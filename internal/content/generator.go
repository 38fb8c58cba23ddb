// internal/content/generator.go
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogforge/internal/common/config"
	"blogforge/internal/common/logger"
	"blogforge/internal/research"
)

const writerSystemPrompt = "You are an expert content writer specializing in health and wellness. Write engaging, accurate, SEO-optimized content."

// Completer is the plain-text LLM surface the generator depends on.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Post is the generated content contract handed to persistence.
type Post struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	WordCount       int       `json:"word_count"`
	Backlinks       []string  `json:"backlinks"`
	Keywords        []string  `json:"keywords"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Generator assembles an approved research record into a complete blog post.
// Unlike the research channels, generation failures are errors: there is no
// sensible degraded default for a missing article.
type Generator struct {
	llm       Completer
	content   config.ContentConfig
	backlinks config.BacklinkConfig
	platforms config.PlatformConfig
	safety    config.SafetyConfig
	logger    logger.Logger
	now       func() time.Time
}

func NewGenerator(llm Completer, cfg *config.Config, log logger.Logger) *Generator {
	return &Generator{
		llm:       llm,
		content:   cfg.Content,
		backlinks: cfg.Backlinks,
		platforms: cfg.Platforms,
		safety:    cfg.Safety,
		logger:    log.WithFields(map[string]interface{}{"component": "generator"}),
		now:       time.Now,
	}
}

// Generate assembles the post. usedSources holds citation URLs consumed by
// earlier runs; evidence pointing at them is skipped during backlink
// insertion so successive posts don't all cite the same pages.
func (g *Generator) Generate(ctx context.Context, product *research.Product, record *research.Record, usedSources map[string]bool) (*Post, error) {
	g.logger.Info("generating content", map[string]interface{}{
		"product": product.Name,
	})

	outline, err := g.createOutline(ctx, product, record)
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}

	markdown, err := g.writeArticle(ctx, product, record, outline)
	if err != nil {
		return nil, fmt.Errorf("article: %w", err)
	}

	// Word count reflects the article as written, before citations are
	// spliced in.
	wordCount := len(strings.Fields(markdown))

	markdown, citations := g.addBacklinks(markdown, record.Evidence, usedSources)

	title, err := g.writeTitle(ctx, product, record)
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	meta, err := g.writeMetaDescription(ctx, product, record)
	if err != nil {
		return nil, fmt.Errorf("meta description: %w", err)
	}

	bodyHTML := MarkdownToHTML(markdown)
	page := BuildHTML(title, meta, bodyHTML, product, record, g.platforms, g.safety)

	post := &Post{
		Title:           title,
		MetaDescription: meta,
		Slug:            PostSlug(g.now(), title),
		Content:         page,
		WordCount:       wordCount,
		Backlinks:       citations,
		Keywords:        product.Keywords,
		GeneratedAt:     g.now().UTC(),
	}

	g.logger.Info("content generated", map[string]interface{}{
		"product":   product.Name,
		"slug":      post.Slug,
		"wordCount": post.WordCount,
		"backlinks": len(post.Backlinks),
	})

	return post, nil
}

func (g *Generator) createOutline(ctx context.Context, product *research.Product, record *research.Record) (string, error) {
	prompt := fmt.Sprintf(`Create a detailed outline for a blog post about "%s".

Product Information:
- Claims: %s
- Benefits: %s
- Trust Score: %d/100

Requirements:
- %d-%d words
- Tone: %s
- Include: Introduction, Benefits, Evidence, How It Works, Who It's For, FAQ, Conclusion
- Pre-sell approach (build value before affiliate link)
- Include sections for backlinks to authority sites

Create an outline with H2 and H3 headings.`,
		product.Name,
		strings.Join(firstN(record.Claims, 3), ", "),
		strings.Join(firstN(record.Benefits, 3), ", "),
		record.TrustScore,
		g.content.MinWords, g.content.MaxWords,
		g.content.Tone)

	return g.llm.Complete(ctx, writerSystemPrompt, prompt)
}

func (g *Generator) writeArticle(ctx context.Context, product *research.Product, record *research.Record, outline string) (string, error) {
	var evidenceSummary []string
	for _, e := range record.Evidence {
		if len(evidenceSummary) >= 5 {
			break
		}
		evidenceSummary = append(evidenceSummary, fmt.Sprintf("- %s (%s)", e.Title, e.Source))
	}

	prompt := fmt.Sprintf(`Write a comprehensive, engaging blog post about "%s" based on this outline.

Outline:
%s

Product Details:
- Claims: %s
- Benefits: %s
- Supporting Evidence: %s

Requirements:
- %d-%d words
- Tone: %s
- Use short paragraphs (2-3 sentences)
- Include subheadings (H2, H3)
- Pre-sell approach: Build value and trust before mentioning the product
- Include evidence from research
- Natural, conversational style
- SEO-optimized but not keyword-stuffed
- Include FAQ section if enabled: %t
- Include pros/cons if enabled: %t

Important:
- DO NOT make medical claims
- Encourage consulting healthcare professionals
- Be honest about limitations
- Include disclaimer about affiliate relationship

Write the complete article in markdown format.`,
		product.Name,
		outline,
		strings.Join(record.Claims, ", "),
		strings.Join(record.Benefits, ", "),
		strings.Join(evidenceSummary, "\n"),
		g.content.MinWords, g.content.MaxWords,
		g.content.Tone,
		g.content.IncludeFAQ,
		g.content.IncludeProsCons)

	return g.llm.Complete(ctx, writerSystemPrompt, prompt)
}

// addBacklinks appends an evidence citation after the first occurrence of
// each claim that appears verbatim in the article, up to the configured cap.
// Sources already consumed by earlier runs are skipped. Returns the rewritten
// markdown and the citation URLs it inserted.
func (g *Generator) addBacklinks(markdown string, evidence []research.Evidence, usedSources map[string]bool) (string, []string) {
	if !g.backlinks.Enabled {
		return markdown, nil
	}

	var inserted []string
	for _, ev := range evidence {
		if len(inserted) >= g.backlinks.MaxBacklinks {
			break
		}
		if usedSources[ev.URL] {
			continue
		}
		if !strings.Contains(markdown, ev.Claim) {
			continue
		}
		citation := fmt.Sprintf("%s [according to research](%s)", ev.Claim, ev.URL)
		markdown = strings.Replace(markdown, ev.Claim, citation, 1)
		inserted = append(inserted, ev.URL)
	}

	return markdown, inserted
}

func (g *Generator) writeTitle(ctx context.Context, product *research.Product, record *research.Record) (string, error) {
	prompt := fmt.Sprintf(`Create an SEO-optimized title (max 60 characters) for a blog post about "%s".

Product benefits: %s
Keywords: %s

Requirements:
- Compelling and click-worthy
- Include main keyword
- Under 60 characters
- No clickbait

Return only the title, nothing else.`,
		product.Name,
		strings.Join(firstN(record.Benefits, 2), ", "),
		strings.Join(firstN(product.Keywords, 2), ", "))

	title, err := g.llm.Complete(ctx, writerSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return clip(strings.TrimSpace(strings.Trim(title, `"`)), 60), nil
}

func (g *Generator) writeMetaDescription(ctx context.Context, product *research.Product, record *research.Record) (string, error) {
	prompt := fmt.Sprintf(`Create a compelling meta description (max 155 characters) for a blog post about "%s".

Product benefits: %s

Requirements:
- Compelling and informative
- Include call-to-action
- Under 155 characters

Return only the description, nothing else.`,
		product.Name,
		strings.Join(firstN(record.Benefits, 2), ", "))

	desc, err := g.llm.Complete(ctx, writerSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return clip(strings.TrimSpace(strings.Trim(desc, `"`)), 155), nil
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func clip(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) > maxChars {
		return string(runes[:maxChars])
	}
	return s
}
