// Package slug builds URL-safe identifiers from titles and names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps generated slugs so a suffix still fits the slug columns.
const MaxLength = 200

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	separators      = regexp.MustCompile(`[\s_-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make converts s to a lowercase, hyphen separated slug.
// Accents are stripped ("Café Déjà" → "cafe-deja"); any other non-ASCII text is dropped.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(strings.TrimSpace(result))
	result = nonSlugChars.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// WithFallback is Make, returning fallback when s has no usable characters.
func WithFallback(s, fallback string) string {
	if result := Make(s); result != "" {
		return result
	}
	return fallback
}

// Candidate returns the n-th candidate for base: base itself for n <= 1, then base-2, base-3, ...
func Candidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
