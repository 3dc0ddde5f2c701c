package score

import (
	"testing"

	"github.com/geocat/catalog-extractor/models"
)

func TestCompletenessMonotonic(t *testing.T) {
	w := models.DefaultConfig().Weights

	rec := &models.DatasetRecord{}
	prev := Completeness(rec, w)
	if prev != 0 {
		t.Fatalf("empty record completeness = %v, want 0", prev)
	}

	// Fill fields one at a time; completeness must never drop.
	steps := []func(){
		func() { rec.Title = "Landsat 8 Collection 2" },
		func() { rec.URL = "https://developers.google.com/earth-engine/datasets/catalog/LANDSAT_LC08" },
		func() { rec.Description = "Atmospherically corrected surface reflectance." },
		func() { rec.Tags = []string{"landsat", "sr"} },
		func() { rec.Provider = "USGS" },
		func() { rec.Resolution = "30 m" },
		func() { rec.TemporalCoverage = &models.TemporalCoverage{Start: "2013", End: "present"} },
		func() { rec.SpatialCoverage = "global" },
		func() { rec.Bands = []string{"B1", "B2"} },
		func() { rec.ThumbnailURL = "https://example.com/t.png" },
		func() { rec.CodeSnippet = "ee.ImageCollection('LANDSAT/LC08')" },
	}
	for i, fill := range steps {
		fill()
		got := Completeness(rec, w)
		if got < prev {
			t.Errorf("step %d: completeness dropped from %v to %v", i, prev, got)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("fully populated record completeness = %v, want 100", prev)
	}
}

func TestCompletenessWeighting(t *testing.T) {
	w := models.DefaultConfig().Weights

	withTitle := Completeness(&models.DatasetRecord{Title: "x"}, w)
	withDescription := Completeness(&models.DatasetRecord{Description: "x"}, w)
	if withTitle <= withDescription {
		t.Errorf("required field weight not applied: title %v <= description %v", withTitle, withDescription)
	}
}

func TestConfidenceRange(t *testing.T) {
	cfg := models.DefaultConfig()

	tests := []struct {
		name string
		rec  models.DatasetRecord
	}{
		{name: "empty record", rec: models.DatasetRecord{}},
		{name: "title only", rec: models.DatasetRecord{Title: "MODIS"}},
		{
			name: "everything populated",
			rec: models.DatasetRecord{
				Title: "Sentinel-2 MSI", URL: "https://developers.google.com/earth-engine/datasets/catalog/S2",
				Description: "d", Tags: []string{"a"}, Provider: "ESA", Resolution: "10 m",
				TemporalCoverage: &models.TemporalCoverage{Start: "2015", End: "present"},
				SpatialCoverage:  "global", Bands: []string{"B2"}, ThumbnailURL: "t", CodeSnippet: "c",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(&tt.rec, nil, cfg)
			if got < 0 || got > 100 {
				t.Errorf("Confidence = %v, outside [0,100]", got)
			}
		})
	}
}

func TestConfidenceMinimalValidRecord(t *testing.T) {
	cfg := models.DefaultConfig()
	rec := &models.DatasetRecord{
		Title: "Landsat 8 Collection 2",
		URL:   "https://developers.google.com/earth-engine/datasets/catalog/LANDSAT_LC08_C02_T1_L2",
	}
	got := Confidence(rec, nil, cfg)
	if got < 10 {
		t.Errorf("minimal valid record confidence = %v, want >= 10", got)
	}
}

func TestConfidenceAdjustments(t *testing.T) {
	cfg := models.DefaultConfig()

	generic := &models.DatasetRecord{Title: "Untitled", Description: "x"}
	named := &models.DatasetRecord{Title: "GOES-16 ABI", Description: "x"}
	if Confidence(named, nil, cfg) <= Confidence(generic, nil, cfg) {
		t.Error("title-quality bonus not applied for non-generic title")
	}

	plain := &models.DatasetRecord{Title: "GOES-16 ABI", URL: "https://example.com/elsewhere", Description: "x"}
	canonical := &models.DatasetRecord{Title: "GOES-16 ABI", URL: "https://developers.google.com/earth-engine/datasets/catalog/GOES16", Description: "x"}
	if Confidence(canonical, nil, cfg) <= Confidence(plain, nil, cfg) {
		t.Error("canonical-URL bonus not applied")
	}

	described := &models.DatasetRecord{Title: "GOES-16 ABI", Description: "Full disk imagery."}
	bare := &models.DatasetRecord{Title: "GOES-16 ABI"}
	if Confidence(bare, nil, cfg) >= Confidence(described, nil, cfg) {
		t.Error("empty-description penalty not applied")
	}
}

func TestConfidenceCorroboration(t *testing.T) {
	cfg := models.DefaultConfig()
	rec := &models.DatasetRecord{Title: "Sentinel-2 MSI", Description: "x"}

	solo := []models.CandidateField{
		{Field: models.FieldTitle, Value: "Sentinel-2 MSI", Source: models.SourceStructural, Confidence: 0.9},
	}
	agreed := append(solo, models.CandidateField{
		Field: models.FieldTitle, Value: "sentinel-2 msi", Source: models.SourcePattern, Confidence: 0.5,
	})

	if Confidence(rec, agreed, cfg) <= Confidence(rec, solo, cfg) {
		t.Error("corroboration bonus not applied when two extractors agree")
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: TierHigh},
		{score: 70, want: TierHigh}, // boundary is inclusive
		{score: 69.9, want: TierMedium},
		{score: 50, want: TierMedium}, // boundary is inclusive
		{score: 49.9, want: TierLow},
		{score: 0, want: TierLow},
	}
	for _, tt := range tests {
		if got := Tier(tt.score); got != tt.want {
			t.Errorf("Tier(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
