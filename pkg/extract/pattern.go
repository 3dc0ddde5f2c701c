package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/normalize"
)

// Pattern extractors run regular expressions and fixed vocabularies over the
// container's normalized text. Lower raw confidence than structural
// extractors: text mentions are weaker evidence than markup conventions.

const (
	minDescriptionLen = 20
	// listSeparator joins multi-valued candidate fields (tags, bands) into a
	// single candidate value; the assembler splits them back out.
	listSeparator = "||"
)

var (
	resolutionRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(m|meter|meters|metre|metres|km|kilometer|kilometers|kilometre|kilometres)\b`)
	yearRangeRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*(?:-|–|to)\s*((?:19|20)\d{2}|present|ongoing|now)\b`)
	singleYearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	isoDateRe    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	bandTokenRe  = regexp.MustCompile(`\bB\d{1,2}[A-Z]?\b`)
	bandWordRe   = regexp.MustCompile(`(?i)\b(bands?|spectral|wavelength)\b`)
)

func containerText(sel *goquery.Selection) string {
	return normalize.Text(sel.Text())
}

func resolutionFromText(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	m := resolutionRe.FindStringSubmatch(containerText(sel))
	if m == nil {
		return nil
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "k"):
		unit = "km"
	default:
		unit = "m"
	}
	return &models.CandidateField{
		Field:      models.FieldResolution,
		Value:      m[1] + " " + unit,
		Source:     models.SourcePattern,
		Confidence: 0.7,
	}
}

// temporalFromText recovers a start/end pair from the container text. Year
// ranges win; a pair of ISO dates is next; a lone year becomes a degenerate
// range. Start and end travel joined by the list separator; the assembler
// splits them back into a TemporalCoverage.
func temporalFromText(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	text := containerText(sel)

	if m := yearRangeRe.FindStringSubmatch(text); m != nil {
		end := strings.ToLower(m[2])
		if end == "ongoing" || end == "now" {
			end = "present"
		}
		return temporalCandidate(m[1], end, 0.7)
	}

	if dates := isoDateRe.FindAllString(text, 2); len(dates) > 0 {
		// dateparse validates the matches; a calendar-impossible string like
		// 2020-13-45 is dropped.
		var valid []string
		for _, d := range dates {
			if _, err := dateparse.ParseStrict(d); err == nil {
				valid = append(valid, d)
			}
		}
		switch len(valid) {
		case 2:
			return temporalCandidate(valid[0], valid[1], 0.6)
		case 1:
			return temporalCandidate(valid[0], valid[0], 0.4)
		}
	}

	if m := singleYearRe.FindStringSubmatch(text); m != nil {
		return temporalCandidate(m[1], m[1], 0.3)
	}
	return nil
}

func temporalCandidate(start, end string, confidence float64) *models.CandidateField {
	return &models.CandidateField{
		Field:      models.FieldTemporal,
		Value:      start + listSeparator + end,
		Source:     models.SourcePattern,
		Confidence: confidence,
	}
}

// providerFromVocabulary matches the configured agency/mission vocabulary
// case-insensitively. Longer tokens are tried first so "european space
// agency" beats "esa" when both appear.
func providerFromVocabulary(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	text := strings.ToLower(containerText(sel))
	if text == "" || len(cfg.ProviderVocabulary) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(cfg.ProviderVocabulary))
	for token := range cfg.ProviderVocabulary {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	for _, token := range tokens {
		if containsWord(text, token) {
			return &models.CandidateField{
				Field:      models.FieldProvider,
				Value:      cfg.ProviderVocabulary[token],
				Source:     models.SourcePattern,
				Confidence: 0.8,
			}
		}
	}
	return nil
}

func bandsFromText(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	text := containerText(sel)
	tokens := bandTokenRe.FindAllString(text, -1)
	if len(tokens) == 0 {
		return nil
	}
	// A lone B-token with no band vocabulary nearby is likely noise
	// ("B2B marketplace"); require either corroborating words or plurality.
	if len(tokens) == 1 && !bandWordRe.MatchString(text) {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens))
	var bands []string
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		bands = append(bands, tok)
	}
	return &models.CandidateField{
		Field:      models.FieldBands,
		Value:      strings.Join(bands, listSeparator),
		Source:     models.SourcePattern,
		Confidence: 0.6,
	}
}

// spatialVocabulary is the small fixed set of coverage phrases the catalog
// uses in entry blurbs.
var spatialVocabulary = []string{
	"global", "worldwide", "near-global",
	"conterminous united states", "continental united states", "conus",
	"united states", "north america", "south america", "europe", "africa",
	"asia", "australia", "antarctica", "arctic",
}

func spatialFromText(sel *goquery.Selection, _ *models.ExtractionConfig) *models.CandidateField {
	text := strings.ToLower(containerText(sel))
	for _, phrase := range spatialVocabulary {
		if containsWord(text, phrase) {
			return &models.CandidateField{
				Field:      models.FieldSpatial,
				Value:      phrase,
				Source:     models.SourcePattern,
				Confidence: 0.5,
			}
		}
	}
	return nil
}

// descriptionFromResidualText is the last-resort description source: the
// container text minus its own title, when long enough to be a blurb.
func descriptionFromResidualText(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField {
	text := containerText(sel)
	if heading := titleFromHeading(sel, cfg); heading != nil {
		text = strings.TrimSpace(strings.Replace(text, heading.Value, "", 1))
	}
	if len(text) < 2*minDescriptionLen {
		return nil
	}
	return &models.CandidateField{
		Field:      models.FieldDescription,
		Value:      text,
		Source:     models.SourcePattern,
		Confidence: 0.4,
	}
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
