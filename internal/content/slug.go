// internal/content/slug.go
package content

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
)

// Slugify converts a title to its ASCII lowercase hyphenated form. Accented
// characters are transliterated before stripping, so "Crème Fraîche" becomes
// "creme-fraiche" rather than "crme-frache". Never truncated: the slug is
// also the identity key for research records, and a cap would let two long
// names collide.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = title
	}

	slug := strings.ToLower(ascii)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// PostSlug prefixes the slugified title with the post date:
// <YYYY-MM-DD>-<slug>. The title part is capped at 70 chars to keep
// URLs sane.
func PostSlug(now time.Time, title string) string {
	slug := Slugify(title)
	if len(slug) > 70 {
		slug = strings.Trim(slug[:70], "-")
	}
	return now.UTC().Format("2006-01-02") + "-" + slug
}
