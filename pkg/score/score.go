// Package score computes the two derived quality numbers on every record:
// a 0-100 confidence score and a 0-100 completeness percentage. Both are
// pure functions of the current field values; the assembler recomputes them
// whenever fields change.
package score

import (
	"strings"

	"github.com/geocat/catalog-extractor/models"
)

// Quality tier boundaries. A record scoring exactly 70 is high, exactly 50
// is medium.
const (
	TierHighMin   = 70.0
	TierMediumMin = 50.0
)

// Tier labels used in run statistics.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// genericTitles are placeholder titles that earn no title-quality bonus.
var genericTitles = map[string]struct{}{
	"unnamed":  {},
	"untitled": {},
	"unknown":  {},
}

// Record computes and sets both derived scores on rec. candidates is the
// full candidate list the assembler collected for the record; it feeds the
// corroboration component of confidence.
func Record(rec *models.DatasetRecord, candidates []models.CandidateField, cfg *models.ExtractionConfig) {
	rec.DataCompleteness = Completeness(rec, cfg.Weights)
	rec.ConfidenceScore = Confidence(rec, candidates, cfg)
}

// Completeness is the weighted share of defined fields that are present,
// as a percentage. Required fields (title, url) weigh RequiredFieldWeight;
// the optional fields weigh OptionalFieldWeight. Filling a field never
// lowers the result.
func Completeness(rec *models.DatasetRecord, w models.ScoringWeights) float64 {
	required := []bool{
		rec.Title != "",
		rec.URL != "",
	}
	optional := []bool{
		rec.Description != "",
		len(rec.Tags) > 0,
		rec.Provider != "",
		rec.Resolution != "",
		rec.TemporalCoverage != nil,
		rec.SpatialCoverage != "",
		len(rec.Bands) > 0,
		rec.ThumbnailURL != "",
		rec.CodeSnippet != "",
	}

	total := float64(len(required))*w.RequiredFieldWeight + float64(len(optional))*w.OptionalFieldWeight
	var present float64
	for _, ok := range required {
		if ok {
			present += w.RequiredFieldWeight
		}
	}
	for _, ok := range optional {
		if ok {
			present += w.OptionalFieldWeight
		}
	}
	return clamp(present / total * 100)
}

// Confidence starts from a base driven by how many fields are populated and
// how many of them were corroborated by independent extractors proposing the
// same value, then applies the fixed adjustments: title quality, canonical
// catalog URL, missing description. Result clamped to [0,100].
func Confidence(rec *models.DatasetRecord, candidates []models.CandidateField, cfg *models.ExtractionConfig) float64 {
	w := cfg.Weights

	base := float64(populatedFields(rec)) * w.PopulatedFieldBase
	base += float64(corroboratedFields(candidates)) * w.CorroborationBonus

	if titleHasQuality(rec.Title) {
		base += w.TitleQualityBonus
	}
	if rec.URL != "" && strings.Contains(rec.URL, cfg.CatalogPathMarker) {
		base += w.CanonicalURLBonus
	}
	if rec.Description == "" {
		base -= w.EmptyDescriptionPenalty
	}
	return clamp(base)
}

// Tier buckets a confidence score for reporting.
func Tier(confidence float64) string {
	switch {
	case confidence >= TierHighMin:
		return TierHigh
	case confidence >= TierMediumMin:
		return TierMedium
	default:
		return TierLow
	}
}

func titleHasQuality(title string) bool {
	if len(title) <= 3 {
		return false
	}
	_, generic := genericTitles[strings.ToLower(strings.TrimSpace(title))]
	return !generic
}

func populatedFields(rec *models.DatasetRecord) int {
	n := 0
	for _, ok := range []bool{
		rec.Title != "",
		rec.URL != "",
		rec.Description != "",
		len(rec.Tags) > 0,
		rec.Provider != "",
		rec.Resolution != "",
		rec.TemporalCoverage != nil,
		rec.SpatialCoverage != "",
		len(rec.Bands) > 0,
		rec.ThumbnailURL != "",
		rec.CodeSnippet != "",
	} {
		if ok {
			n++
		}
	}
	return n
}

// corroboratedFields counts fields where at least two candidates agreed on
// the same value. Independent heuristics landing on one answer is the
// strongest signal the extraction is right.
func corroboratedFields(candidates []models.CandidateField) int {
	byField := make(map[string]map[string]int)
	for _, c := range candidates {
		if c.Value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(c.Value))
		if byField[c.Field] == nil {
			byField[c.Field] = make(map[string]int)
		}
		byField[c.Field][key]++
	}

	n := 0
	for _, values := range byField {
		for _, count := range values {
			if count >= 2 {
				n++
				break
			}
		}
	}
	return n
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
