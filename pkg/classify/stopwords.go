package classify

import "strings"

// stopwords are words ignored by the keyword-frequency statistics: common
// English function words plus catalog boilerplate that says nothing about a
// dataset's subject.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "also": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "down": {}, "during": {}, "each": {},
	"few": {}, "for": {}, "from": {}, "further": {}, "had": {}, "has": {},
	"have": {}, "having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "just": {}, "more": {}, "most": {},
	"much": {}, "must": {}, "my": {}, "no": {}, "nor": {}, "not": {},
	"now": {}, "of": {}, "off": {}, "on": {}, "once": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {},
	"per": {}, "same": {}, "she": {}, "should": {}, "so": {}, "some": {},
	"such": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"upon": {}, "use": {}, "used": {}, "using": {}, "very": {}, "via": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "within": {}, "without": {}, "would": {}, "you": {},
	"your": {},

	// Catalog boilerplate.
	"dataset": {}, "datasets": {}, "data": {}, "collection": {},
	"product": {}, "products": {}, "available": {}, "provided": {},
	"derived": {}, "based": {}, "contains": {}, "version": {},
	"catalog": {}, "view": {}, "see": {},
}

func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}
