package usecase

import (
	"regexp"
	"strings"
)

// whitespaceRegex collapses runs of whitespace to a single space
var whitespaceRegex = regexp.MustCompile(`\s+`)

// tokenReplacement substitutes a spoken unit or currency word with its symbol.
// Patterns are whole-word and case-insensitive so "rs" never matches inside
// "rupees" or "colors".
type tokenReplacement struct {
	pattern *regexp.Regexp
	with    string
}

var tokenReplacements = []tokenReplacement{
	{regexp.MustCompile(`(?i)\brupees\b`), "₹"},
	{regexp.MustCompile(`(?i)\brupee\b`), "₹"},
	{regexp.MustCompile(`(?i)\brs\b`), "₹"},
	{regexp.MustCompile(`(?i)\bkilo\b`), "kg"},
	{regexp.MustCompile(`(?i)\bkilogram\b`), "kg"},
	{regexp.MustCompile(`(?i)\bgram\b`), "g"},
	{regexp.MustCompile(`(?i)\bliter\b`), "l"},
	{regexp.MustCompile(`(?i)\blitre\b`), "l"},
	{regexp.MustCompile(`(?i)\bpiece\b`), "pc"},
	{regexp.MustCompile(`(?i)\bpieces\b`), "pcs"},
}

// TextNormalizer cleans raw command text before intent and entity processing.
type TextNormalizer struct{}

// NewTextNormalizer creates a new text normalizer
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize collapses whitespace and rewrites common speech-to-text spellings
// of currency and unit tokens. It is total: any input yields a string.
func (n *TextNormalizer) Normalize(text string) string {
	cleaned := whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")

	for _, r := range tokenReplacements {
		cleaned = r.pattern.ReplaceAllString(cleaned, r.with)
	}

	return cleaned
}
