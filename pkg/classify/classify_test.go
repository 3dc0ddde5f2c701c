package classify

import (
	"reflect"
	"testing"

	"github.com/geocat/catalog-extractor/models"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	return New(models.DefaultConfig())
}

func TestPrimaryFirstMatchWins(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name string
		rec  models.DatasetRecord
		want string
	}{
		{
			name: "mission family beats thematic area",
			rec:  models.DatasetRecord{Title: "Landsat 8 Cropland Mapping", Description: "agriculture over crop areas"},
			want: "landsat",
		},
		{
			name: "thematic match",
			rec:  models.DatasetRecord{Title: "Global Forest Change", Description: "annual deforestation and tree cover"},
			want: "forestry",
		},
		{
			name: "no match falls back to other",
			rec:  models.DatasetRecord{Title: "Miscellaneous Grid", Description: "unrelated content"},
			want: CategoryOther,
		},
		{
			name: "case insensitive",
			rec:  models.DatasetRecord{Title: "SENTINEL-2 Surface Reflectance"},
			want: "sentinel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Primary(&tt.rec); got != tt.want {
				t.Errorf("Primary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoriesWordBoundaries(t *testing.T) {
	c := newClassifier(t)

	// "suburban" must not match "urban".
	rec := models.DatasetRecord{Title: "Suburban sprawl study"}
	for _, cat := range c.Categories(&rec) {
		if cat == "urban" {
			t.Error("substring hit matched across a word boundary")
		}
	}

	rec = models.DatasetRecord{Title: "Urban built-up extent"}
	if got := c.Primary(&rec); got != "urban" {
		t.Errorf("Primary() = %q, want urban", got)
	}
}

func TestCategoriesMultiLabel(t *testing.T) {
	c := newClassifier(t)
	rec := models.DatasetRecord{
		Title:       "Landsat 8 Collection 2",
		Description: "Surface reflectance for vegetation and water monitoring.",
	}
	cats := c.Categories(&rec)
	if len(cats) < 3 {
		t.Fatalf("Categories() = %v, want landsat + water + vegetation", cats)
	}
	// Priority order: taxonomy order, so landsat first.
	if cats[0] != "landsat" {
		t.Errorf("Categories()[0] = %q, want landsat", cats[0])
	}
}

func TestIndexListsRecordUnderEveryMatch(t *testing.T) {
	c := newClassifier(t)
	records := []models.DatasetRecord{
		{DatasetID: "a", Title: "Landsat cropland", Description: "crop agriculture"},
		{DatasetID: "b", Title: "Unmatched entry"},
	}
	index := c.Index(records)

	if !reflect.DeepEqual(index["landsat"], []string{"a"}) {
		t.Errorf("index[landsat] = %v", index["landsat"])
	}
	if !reflect.DeepEqual(index["agriculture"], []string{"a"}) {
		t.Errorf("index[agriculture] = %v", index["agriculture"])
	}
	if !reflect.DeepEqual(index[CategoryOther], []string{"b"}) {
		t.Errorf("index[other] = %v", index[CategoryOther])
	}
}

func TestClassificationDeterministic(t *testing.T) {
	c := newClassifier(t)
	rec := models.DatasetRecord{
		Title:       "Sentinel-5P NO2",
		Description: "Atmospheric nitrogen dioxide from the Copernicus programme over the ocean and land.",
	}
	first := c.Categories(&rec)
	for i := 0; i < 10; i++ {
		if got := c.Categories(&rec); !reflect.DeepEqual(got, first) {
			t.Fatalf("Categories() unstable: %v vs %v", got, first)
		}
	}
}

func TestStats(t *testing.T) {
	c := newClassifier(t)
	records := []models.DatasetRecord{
		{
			DatasetID: "a", Title: "Landsat burned area", Description: "fire mapping",
			URL: "u", Tags: []string{"fire"}, ThumbnailURL: "t", ConfidenceScore: 85,
		},
		{
			DatasetID: "b", Title: "Sentinel water mask",
			ConfidenceScore: 50, // boundary: exactly 50 is medium
		},
		{
			DatasetID: "c", Title: "Plain grid",
			ConfidenceScore: 20,
		},
	}
	index := c.Index(records)
	stats := Stats(records, index, 10)

	if stats.Quality.HighQuality != 1 || stats.Quality.MediumQuality != 1 || stats.Quality.LowQuality != 1 {
		t.Errorf("quality distribution = %+v", stats.Quality)
	}
	if stats.Completeness.WithTitles != 3 {
		t.Errorf("WithTitles = %d, want 3", stats.Completeness.WithTitles)
	}
	if stats.Completeness.WithDescriptions != 1 || stats.Completeness.WithTags != 1 ||
		stats.Completeness.WithURLs != 1 || stats.Completeness.WithThumbnails != 1 {
		t.Errorf("completeness counts = %+v", stats.Completeness)
	}
	if stats.ByCategory["landsat"] != 1 {
		t.Errorf("ByCategory[landsat] = %d, want 1", stats.ByCategory["landsat"])
	}
	if len(stats.TopKeywords) == 0 {
		t.Error("TopKeywords empty")
	}
}

func TestStatsEmptyRun(t *testing.T) {
	stats := Stats(nil, map[string][]string{}, 10)
	if stats.Quality.HighQuality != 0 || stats.Quality.MediumQuality != 0 || stats.Quality.LowQuality != 0 {
		t.Errorf("quality distribution not zero: %+v", stats.Quality)
	}
	if len(stats.ByCategory) != 0 || len(stats.TopKeywords) != 0 {
		t.Errorf("statistics not empty: %+v", stats)
	}
}
