package detect_test

import (
	"testing"

	"hushcut/internal/detect"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Hello WORLD", "hello world"},
		{"drops punctuation", "靠北,喔!", "靠北喔"},
		{"keeps digits", "abc123", "abc123"},
		{"normalizes fullwidth", "ＡＢＣ", "abc"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detect.CleanText(tc.in); got != tc.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMatchFuzzyHitsHomophone(t *testing.T) {
	catalog := mustCatalog(t)

	// 考杯 is a common transcription of 靠北.
	found := detect.MatchFuzzy("考杯啦", catalog)
	if len(found) == 0 {
		t.Fatal("expected fuzzy match for 考杯")
	}
}

func TestMatchFuzzyReportsTermOnce(t *testing.T) {
	catalog := mustCatalog(t)

	// Both the character-class pattern and the loose pattern match here;
	// the term must still be reported a single time.
	found := detect.MatchFuzzy("靠北靠北", catalog)
	counts := make(map[string]int)
	for _, term := range found {
		counts[term]++
	}
	for term, n := range counts {
		if n > 1 {
			t.Fatalf("term %s reported %d times", term, n)
		}
	}
}

func TestMatchFuzzyEmptyText(t *testing.T) {
	catalog := mustCatalog(t)
	if found := detect.MatchFuzzy("", catalog); found != nil {
		t.Fatalf("expected nil, got %v", found)
	}
	if found := detect.MatchFuzzy("。。。", catalog); found != nil {
		t.Fatalf("expected nil for punctuation-only text, got %v", found)
	}
}
