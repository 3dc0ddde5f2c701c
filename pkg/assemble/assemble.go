// Package assemble drives extraction over a parsed document: it discovers
// the containers that look like catalog entries, collects candidate fields
// for each, picks winners, scores the resulting records and deduplicates
// them. Assembly performs no I/O; it only builds the in-memory record list.
package assemble

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/extract"
	"github.com/geocat/catalog-extractor/pkg/score"
)

// containerSelector is the first-pass discovery heuristic: elements whose
// class or id hints that they hold one dataset entry.
const containerSelector = `[class*="dataset"], [class*="card"], [class*="item"], [class*="entry"], [id*="dataset"]`

// Item is one assembled record together with the candidates that produced
// it. Candidates are kept through deduplication so merged records can be
// rescored with the union of their evidence.
type Item struct {
	Record     models.DatasetRecord
	Candidates []models.CandidateField
}

type Assembler struct {
	cfg    *models.ExtractionConfig
	logger *slog.Logger
}

func New(cfg *models.ExtractionConfig, logger *slog.Logger) *Assembler {
	return &Assembler{cfg: cfg, logger: logger}
}

// Containers finds the markup fragments hypothesized to be catalog entries.
// Two-pass: class/id hints plus listing table rows first; when that yields
// nothing, every anchor pointing into the catalog becomes its own
// single-element container so unexpected markup degrades instead of
// producing zero results. The second return value reports whether the
// fallback engaged.
func (a *Assembler) Containers(doc *goquery.Document) ([]*goquery.Selection, bool) {
	var containers []*goquery.Selection

	doc.Find(containerSelector).Each(func(_ int, s *goquery.Selection) {
		if !looksLikeEntry(s) {
			return
		}
		// Keep the innermost match: a wrapper that holds other matching
		// containers is a listing, not an entry.
		if s.Find(containerSelector).Length() > 0 {
			return
		}
		containers = append(containers, s)
	})

	// Listing tables: one row per dataset.
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("a[href]").Length() == 0 {
			return
		}
		if tr.Find(containerSelector).Length() > 0 {
			return // already represented by an inner container
		}
		containers = append(containers, tr)
	})

	if len(containers) > 0 {
		return containers, false
	}

	// Degraded mode: catalog-path anchors stand in for containers.
	var anchors []*goquery.Selection
	doc.Find(`a[href*="` + a.cfg.CatalogPathMarker + `"]`).Each(func(_ int, s *goquery.Selection) {
		anchors = append(anchors, s)
	})
	return anchors, len(anchors) > 0
}

// looksLikeEntry requires a hypothesized container to hold a link or a
// heading plus some text at all.
func looksLikeEntry(s *goquery.Selection) bool {
	if strings.TrimSpace(s.Text()) == "" {
		return false
	}
	return s.Find("a[href]").Length() > 0 || s.Find("h1,h2,h3,h4,h5,h6").Length() > 0
}

// Build extracts one record from a container. Returns false when the
// fragment yields no valid record (a record needs a non-empty title).
func (a *Assembler) Build(sel *goquery.Selection) (Item, bool) {
	candidates := extract.Fields(a.logger, sel, a.cfg)
	if len(candidates) == 0 {
		return Item{}, false
	}

	rec := models.DatasetRecord{}
	for field, winner := range pickWinners(candidates) {
		applyField(&rec, field, winner.Value)
	}
	if rec.Title == "" {
		return Item{}, false
	}
	rec.DatasetID = rec.DeriveID()

	score.Record(&rec, candidates, a.cfg)
	return Item{Record: rec, Candidates: candidates}, true
}

// pickWinners selects one candidate per field: non-empty over empty, higher
// raw confidence, then longer (more specific) value when confidence ties.
func pickWinners(candidates []models.CandidateField) map[string]models.CandidateField {
	winners := make(map[string]models.CandidateField)
	for _, c := range candidates {
		if c.Value == "" {
			continue
		}
		cur, ok := winners[c.Field]
		if !ok || c.Confidence > cur.Confidence ||
			(c.Confidence == cur.Confidence && len(c.Value) > len(cur.Value)) {
			winners[c.Field] = c
		}
	}
	return winners
}

func applyField(rec *models.DatasetRecord, field, value string) {
	switch field {
	case models.FieldTitle:
		rec.Title = value
	case models.FieldURL:
		rec.URL = value
	case models.FieldDatasetID:
		rec.DatasetID = value
	case models.FieldDescription:
		rec.Description = value
	case models.FieldTags:
		rec.Tags = extract.SplitList(value)
	case models.FieldProvider:
		rec.Provider = value
	case models.FieldResolution:
		rec.Resolution = value
	case models.FieldTemporal:
		parts := extract.SplitList(value)
		if len(parts) == 2 {
			rec.TemporalCoverage = &models.TemporalCoverage{Start: parts[0], End: parts[1]}
		}
	case models.FieldSpatial:
		rec.SpatialCoverage = value
	case models.FieldBands:
		rec.Bands = extract.SplitList(value)
	case models.FieldThumbnail:
		rec.ThumbnailURL = value
	case models.FieldCodeSnippet:
		rec.CodeSnippet = value
	}
}

// Finalize deduplicates assembled items by derived dataset id (normalized
// lowercase title when no id is derivable). On collision the higher-
// confidence record is kept as the base, its empty fields are filled from
// the loser, and the merged record is rescored over the union of both
// candidate sets. Output order is first-seen order, so two runs over the
// same document produce the same list.
func (a *Assembler) Finalize(items []Item) []models.DatasetRecord {
	merged := make(map[string]*Item)
	var order []string

	for i := range items {
		item := items[i]
		key := item.Record.DeriveID()
		if key == "" {
			continue
		}
		existing, ok := merged[key]
		if !ok {
			copied := item
			merged[key] = &copied
			order = append(order, key)
			continue
		}

		base, loser := existing, &item
		if item.Record.ConfidenceScore > existing.Record.ConfidenceScore {
			base, loser = &item, existing
		}
		fillGaps(&base.Record, &loser.Record)
		base.Candidates = append(base.Candidates, loser.Candidates...)
		score.Record(&base.Record, base.Candidates, a.cfg)
		merged[key] = base

		if a.logger != nil {
			a.logger.Debug("merged duplicate dataset", "dataset_id", key)
		}
	}

	out := make([]models.DatasetRecord, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key].Record)
	}
	return out
}

// fillGaps copies every field the base is missing from the other record.
func fillGaps(base, other *models.DatasetRecord) {
	if base.Title == "" {
		base.Title = other.Title
	}
	if base.URL == "" {
		base.URL = other.URL
	}
	if base.Description == "" {
		base.Description = other.Description
	}
	if len(base.Tags) == 0 {
		base.Tags = other.Tags
	}
	if base.Provider == "" {
		base.Provider = other.Provider
	}
	if base.Resolution == "" {
		base.Resolution = other.Resolution
	}
	if base.TemporalCoverage == nil {
		base.TemporalCoverage = other.TemporalCoverage
	}
	if base.SpatialCoverage == "" {
		base.SpatialCoverage = other.SpatialCoverage
	}
	if len(base.Bands) == 0 {
		base.Bands = other.Bands
	}
	if base.ThumbnailURL == "" {
		base.ThumbnailURL = other.ThumbnailURL
	}
	if base.CodeSnippet == "" {
		base.CodeSnippet = other.CodeSnippet
	}
}
