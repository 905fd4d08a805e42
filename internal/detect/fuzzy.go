package detect

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"hushcut/internal/terms"
)

// CleanText prepares transcript text for fuzzy matching: NFKC normalization
// (transcripts mix full-width and half-width forms), lowercasing, and removal
// of punctuation and symbols.
func CleanText(text string) string {
	normalized := norm.NFKC.String(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// MatchFuzzy returns every catalog term whose fuzzy patterns match the
// cleaned text. Patterns are tried in catalog order; the first match wins and
// the term is reported once, remaining patterns for that term are skipped.
func MatchFuzzy(text string, catalog *terms.Catalog) []string {
	if text == "" || catalog == nil {
		return nil
	}
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}

	var found []string
	for _, term := range catalog.PatternTerms() {
		for _, pattern := range catalog.Patterns(term) {
			if pattern.MatchString(cleaned) {
				found = append(found, term)
				break
			}
		}
	}
	return found
}
