// Package classify assigns taxonomy categories to assembled records and
// derives run statistics. Keyword matching runs through a single-pass
// Aho-Corasick automaton built once per configuration; hits are verified
// against word boundaries so "surban" never matches "urban".
package classify

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/geocat/catalog-extractor/models"
)

// CategoryOther is the default bucket for records matching no taxonomy
// category.
const CategoryOther = "other"

type Classifier struct {
	taxonomy []models.Category
	matcher  *ahocorasick.Matcher
	// keywords[i] belongs to taxonomy[keywordCategory[i]]; both indexed by
	// automaton pattern id.
	keywords        []string
	keywordCategory []int
}

// New builds the keyword automaton for cfg's taxonomy. The taxonomy has
// already passed config validation, so every category has a name and at
// least one keyword.
func New(cfg *models.ExtractionConfig) *Classifier {
	c := &Classifier{taxonomy: cfg.Taxonomy}
	for catIdx, cat := range cfg.Taxonomy {
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			c.keywords = append(c.keywords, kw)
			c.keywordCategory = append(c.keywordCategory, catIdx)
		}
	}
	if len(c.keywords) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	}
	return c
}

// Categories returns every matching category in taxonomy priority order.
// Empty when nothing matches.
func (c *Classifier) Categories(rec *models.DatasetRecord) []string {
	if c.matcher == nil {
		return nil
	}
	text := rec.SearchText()
	if text == "" {
		return nil
	}

	matched := make(map[int]struct{})
	for _, hit := range c.matcher.Match([]byte(text)) {
		// The automaton reports substring hits; keep only whole words.
		if containsWord(text, c.keywords[hit]) {
			matched[c.keywordCategory[hit]] = struct{}{}
		}
	}
	if len(matched) == 0 {
		return nil
	}

	out := make([]string, 0, len(matched))
	for idx := 0; idx < len(c.taxonomy); idx++ {
		if _, ok := matched[idx]; ok {
			out = append(out, c.taxonomy[idx].Name)
		}
	}
	return out
}

// Primary returns the record's single-category label: the first match in
// taxonomy priority order, or "other".
func (c *Classifier) Primary(rec *models.DatasetRecord) string {
	if cats := c.Categories(rec); len(cats) > 0 {
		return cats[0]
	}
	return CategoryOther
}

// Index builds the classification index over the finalized record list: a
// record is listed under every category it matches. Records matching
// nothing are indexed under "other".
func (c *Classifier) Index(records []models.DatasetRecord) map[string][]string {
	index := make(map[string][]string)
	for i := range records {
		cats := c.Categories(&records[i])
		if len(cats) == 0 {
			cats = []string{CategoryOther}
		}
		for _, cat := range cats {
			index[cat] = append(index[cat], records[i].DatasetID)
		}
	}
	return index
}

// containsWord reports whether text contains phrase delimited by
// non-alphanumeric characters on both sides.
func containsWord(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		leftOK := idx == 0 || !isWordByte(text[idx-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
