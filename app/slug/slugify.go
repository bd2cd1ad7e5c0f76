// Package slug normalizes arbitrary titles into stable URL-safe identifiers.
// Topic keys and post slugs are both derived through Make, so two titles that
// fold to the same ASCII form always map to the same key.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFallback is returned when a value contains no sluggable characters,
// e.g. a title written entirely in CJK.
const DefaultFallback = "ai-topic"

var (
	foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	nonWordRegex   = regexp.MustCompile(`[^\w\s-]`)
	separatorRegex = regexp.MustCompile(`[\s_-]+`)
	edgeDashRegex  = regexp.MustCompile(`^-+|-+$`)
)

// Make slugifies value, returning DefaultFallback when nothing survives.
func Make(value string) string {
	return MakeWithFallback(value, DefaultFallback)
}

// MakeWithFallback slugifies value with a caller-supplied fallback.
func MakeWithFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}

	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}

	s := nonWordRegex.ReplaceAllString(folded, "")
	s = separatorRegex.ReplaceAllString(s, "-")
	s = edgeDashRegex.ReplaceAllString(s, "")
	s = strings.ToLower(s)

	if s == "" {
		return fallback
	}
	return s
}
