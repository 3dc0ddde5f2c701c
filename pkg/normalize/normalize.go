// Package normalize turns markup fragments into clean plain text. Every
// extractor funnels text through here so the rest of the pipeline only ever
// sees trimmed, single-spaced, entity-decoded strings.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

// tagRun matches an angle-bracket run that looks like markup: an opening
// bracket followed by a letter, slash or bang. "<3" and "a < b" survive.
var tagRun = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// maxPasses bounds the strip/decode fixpoint loop. Real documents converge
// in one or two passes; the bound only guards against pathological nesting
// of escaped markup.
const maxPasses = 4

// Text strips markup tags, decodes HTML entities and collapses whitespace
// runs to a single space. It never fails: unparsable input degrades to the
// input stripped of angle-bracket runs.
//
// Text is idempotent: it iterates to a fixpoint, so Text(Text(x)) == Text(x).
func Text(raw string) string {
	s := raw
	for i := 0; i < maxPasses; i++ {
		next := collapse(tagRun.ReplaceAllString(html.UnescapeString(tagRun.ReplaceAllString(s, " ")), " "))
		if next == s {
			return s
		}
		s = next
	}
	return s
}

// collapse trims s and squeezes all whitespace runs, newlines included, to a
// single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
