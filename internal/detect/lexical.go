package detect

import (
	"strings"

	"hushcut/internal/terms"
)

// MatchLexical returns every catalog term that occurs as a substring of the
// case-normalized text. Exact occurrences are never missed; transcription
// errors are not tolerated here (that is the fuzzy matcher's job).
func MatchLexical(text string, catalog *terms.Catalog) []string {
	if text == "" || catalog == nil {
		return nil
	}
	lowered := strings.ToLower(text)

	var found []string
	for _, term := range catalog.Terms() {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	return found
}
