// Package models defines the data structures shared by the extraction
// pipeline: candidate fields, dataset records, run aggregates, configuration
// and the error taxonomy.
package models

import (
	"regexp"
	"strings"
)

// SourceKind identifies which family of extractor produced a candidate value.
type SourceKind string

const (
	// SourceStructural means the value came from tag/attribute conventions
	// (headings, anchor hrefs, image srcs).
	SourceStructural SourceKind = "structural"
	// SourcePattern means the value came from regex or vocabulary matching
	// over normalized text.
	SourcePattern SourceKind = "pattern"
)

// CandidateField is one extractor's proposed value for a record attribute,
// with provenance. Multiple candidates may compete for the same field; the
// assembler picks a winner per field.
type CandidateField struct {
	Field      string
	Value      string
	Source     SourceKind
	Confidence float64 // raw extractor confidence, 0.0-1.0
}

// Field names used by extractors, the scorer and the assembler.
const (
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldDatasetID   = "dataset_id"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldProvider    = "provider"
	FieldResolution  = "resolution"
	FieldTemporal    = "temporal_coverage"
	FieldSpatial     = "spatial_coverage"
	FieldBands       = "bands"
	FieldThumbnail   = "thumbnail_url"
	FieldCodeSnippet = "code_snippet"
)

// TemporalCoverage is a start/end pair; values are years or ISO dates, and
// End may be "present" for ongoing collections.
type TemporalCoverage struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// DatasetRecord is the canonical unit of output: one catalog entry with
// whatever fields extraction recovered, plus derived scores and category.
//
// ConfidenceScore and DataCompleteness are always recomputed from the current
// field values; they are never set independently of the fields they
// summarize.
type DatasetRecord struct {
	DatasetID        string            `json:"dataset_id" yaml:"dataset_id"`
	Title            string            `json:"title" yaml:"title"`
	URL              string            `json:"url,omitempty" yaml:"url,omitempty"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	Tags             []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Provider         string            `json:"provider,omitempty" yaml:"provider,omitempty"`
	Resolution       string            `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	TemporalCoverage *TemporalCoverage `json:"temporal_coverage,omitempty" yaml:"temporal_coverage,omitempty"`
	SpatialCoverage  string            `json:"spatial_coverage,omitempty" yaml:"spatial_coverage,omitempty"`
	Bands            []string          `json:"bands,omitempty" yaml:"bands,omitempty"`
	ThumbnailURL     string            `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	ThumbnailPath    string            `json:"thumbnail_path,omitempty" yaml:"thumbnail_path,omitempty"`
	CodeSnippet      string            `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`

	// Enrichment output, populated only when an enricher runs.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	ConfidenceScore  float64 `json:"confidence_score" yaml:"confidence_score"`
	DataCompleteness float64 `json:"data_completeness" yaml:"data_completeness"`
	Category         string  `json:"category" yaml:"category"`
}

// SearchText returns the lowercased text the classifier matches keywords
// against: title plus description.
func (r *DatasetRecord) SearchText() string {
	return strings.ToLower(strings.TrimSpace(r.Title + " " + r.Description))
}

var idCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveID produces the deduplication identity for a record: the dataset id
// when one was extracted, otherwise the normalized lowercase title.
func (r *DatasetRecord) DeriveID() string {
	if r.DatasetID != "" {
		return r.DatasetID
	}
	return NormalizeID(r.Title)
}

// NormalizeID lowercases s and collapses every non-alphanumeric run to a
// single underscore, producing a stable identifier token.
func NormalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = idCleaner.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
