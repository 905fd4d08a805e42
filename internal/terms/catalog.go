package terms

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed terms.yaml
var builtinCatalog []byte

type catalogFile struct {
	Terms    map[string]string   `yaml:"terms"`
	Patterns map[string][]string `yaml:"patterns"`
}

// Catalog is the read-only detector dictionary for one pipeline run.
type Catalog struct {
	terms    map[string]string
	patterns map[string][]*regexp.Regexp
	order    []string
}

// Default returns the embedded built-in catalog.
func Default() (*Catalog, error) {
	return parse(builtinCatalog)
}

// Load returns the built-in catalog merged with the user catalog at path.
// An empty path yields the built-in catalog unchanged.
func Load(path string) (*Catalog, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms file: %w", err)
	}
	user, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("terms file %s: %w", path, err)
	}
	return base.merge(user), nil
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse terms catalog: %w", err)
	}

	catalog := &Catalog{
		terms:    make(map[string]string, len(file.Terms)),
		patterns: make(map[string][]*regexp.Regexp, len(file.Patterns)),
	}
	for term, tag := range file.Terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		catalog.terms[term] = tag
	}
	for term, raw := range file.Patterns {
		term = strings.ToLower(strings.TrimSpace(term))
		compiled := make([]*regexp.Regexp, 0, len(raw))
		for _, pattern := range raw {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("pattern %q for term %q: %w", pattern, term, err)
			}
			compiled = append(compiled, re)
		}
		if len(compiled) > 0 {
			catalog.patterns[term] = compiled
		}
	}
	catalog.rebuildOrder()
	return catalog, nil
}

func (c *Catalog) merge(other *Catalog) *Catalog {
	merged := &Catalog{
		terms:    make(map[string]string, len(c.terms)+len(other.terms)),
		patterns: make(map[string][]*regexp.Regexp, len(c.patterns)+len(other.patterns)),
	}
	for term, tag := range c.terms {
		merged.terms[term] = tag
	}
	for term, tag := range other.terms {
		merged.terms[term] = tag
	}
	for term, patterns := range c.patterns {
		merged.patterns[term] = patterns
	}
	for term, patterns := range other.patterns {
		merged.patterns[term] = patterns
	}
	merged.rebuildOrder()
	return merged
}

func (c *Catalog) rebuildOrder() {
	c.order = c.order[:0]
	for term := range c.terms {
		c.order = append(c.order, term)
	}
	sort.Strings(c.order)
}

// Add registers custom terms with the given action tag.
func (c *Catalog) Add(tag string, words ...string) {
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		c.terms[word] = tag
	}
	c.rebuildOrder()
}

// Terms returns every canonical term in sorted order.
func (c *Catalog) Terms() []string {
	return append([]string(nil), c.order...)
}

// Tag returns the action tag for a term.
func (c *Catalog) Tag(term string) (string, bool) {
	tag, ok := c.terms[strings.ToLower(term)]
	return tag, ok
}

// Patterns returns the ordered fuzzy patterns for a term, or nil.
func (c *Catalog) Patterns(term string) []*regexp.Regexp {
	return c.patterns[strings.ToLower(term)]
}

// PatternTerms returns every term that carries fuzzy patterns, sorted.
func (c *Catalog) PatternTerms() []string {
	out := make([]string, 0, len(c.patterns))
	for term := range c.patterns {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of dictionary terms.
func (c *Catalog) Len() int {
	return len(c.terms)
}
