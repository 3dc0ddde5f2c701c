// Package extract implements the per-field extraction heuristics. Each
// extractor is a pure function over one parsed container that proposes a
// CandidateField, or nil when it finds no signal. The nil/empty distinction
// is load-bearing: completeness scoring counts only fields that produced a
// candidate.
package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocat/catalog-extractor/models"
)

// Func inspects a parsed markup container and proposes a value for one
// record field, or returns nil when it finds no signal.
type Func func(sel *goquery.Selection, cfg *models.ExtractionConfig) *models.CandidateField

// Extractor pairs a Func with the field it targets, so the runner can report
// which heuristic misbehaved.
type Extractor struct {
	Name string
	Fn   Func
}

// All returns the fixed extractor list in invocation order: structural
// extractors first, pattern extractors second. Later candidates for the same
// field only win on the assembler's tie-break rules, so order doubles as
// priority.
func All() []Extractor {
	return []Extractor{
		{Name: "title/heading", Fn: titleFromHeading},
		{Name: "url/anchor", Fn: urlFromAnchor},
		{Name: "dataset_id/url", Fn: datasetIDFromURL},
		{Name: "thumbnail/img", Fn: thumbnailFromImage},
		{Name: "code/pre", Fn: codeFromPre},
		{Name: "description/paragraph", Fn: descriptionFromParagraph},
		{Name: "tags/chips", Fn: tagsFromChips},
		{Name: "title/anchor-text", Fn: titleFromAnchorText},
		{Name: "description/residual-text", Fn: descriptionFromResidualText},
		{Name: "resolution/regex", Fn: resolutionFromText},
		{Name: "temporal/regex", Fn: temporalFromText},
		{Name: "provider/vocabulary", Fn: providerFromVocabulary},
		{Name: "bands/regex", Fn: bandsFromText},
		{Name: "spatial/vocabulary", Fn: spatialFromText},
	}
}

// Fields runs every extractor over one container. A panicking extractor is
// recovered, logged and treated as having found nothing; a single bad
// fragment must never sink the run.
func Fields(logger *slog.Logger, sel *goquery.Selection, cfg *models.ExtractionConfig) []models.CandidateField {
	var out []models.CandidateField
	for _, ex := range All() {
		if cand := runOne(logger, ex, sel, cfg); cand != nil && cand.Value != "" {
			out = append(out, *cand)
		}
	}
	return out
}

// SplitList splits a multi-valued candidate value (tags, bands, temporal
// start/end) back into its items.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, listSeparator)
}

func runOne(logger *slog.Logger, ex Extractor, sel *goquery.Selection, cfg *models.ExtractionConfig) (cand *models.CandidateField) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Warn("extractor panicked, treating field as absent", "extractor", ex.Name, "panic", r)
			}
			cand = nil
		}
	}()
	return ex.Fn(sel, cfg)
}
