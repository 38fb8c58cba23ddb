// internal/content/slug_test.go
package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Acme Cream Review", "acme-cream-review"},
		{"punctuation stripped", "Is Acme Cream Worth It? (2026)", "is-acme-cream-worth-it-2026"},
		{"accents transliterated", "Crème Fraîche Für Alle", "creme-fraiche-fur-alle"},
		{"collapses whitespace", "too   many    spaces", "too-many-spaces"},
		{"trims hyphens", "  - edges - ", "edges"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_PreservesLongNames(t *testing.T) {
	// The slug doubles as the research-record identity key, so two long
	// names sharing a prefix must not collapse to the same slug.
	a := Slugify(strings.Repeat("word ", 20) + "alpha")
	b := Slugify(strings.Repeat("word ", 20) + "omega")

	assert.NotEqual(t, a, b)
	assert.Greater(t, len(a), 70)
}

func TestPostSlug_CapsTitleAt70Chars(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	slug := PostSlug(now, strings.Repeat("word ", 30))

	assert.LessOrEqual(t, len(slug), len("2026-08-23-")+70)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestPostSlug_DatePrefix(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "2026-08-23-acme-cream-review", PostSlug(now, "Acme Cream Review"))
}

func TestPostSlug_UsesUTCDate(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 8, 23, 23, 30, 0, 0, loc)

	assert.True(t, strings.HasPrefix(PostSlug(now, "x"), "2026-08-24-"))
}
