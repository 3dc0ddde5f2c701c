package models

// ExtractionInfo is the run-level metadata block of the output document.
type ExtractionInfo struct {
	RunID            string `json:"run_id" yaml:"run_id"`
	Timestamp        string `json:"timestamp" yaml:"timestamp"` // RFC 3339
	SourceIdentifier string `json:"source_identifier" yaml:"source_identifier"`
	TotalDatasets    int    `json:"total_datasets" yaml:"total_datasets"`
	ExtractorVersion string `json:"extractor_version" yaml:"extractor_version"`

	// Document-level metadata recovered by the readability probe; empty when
	// the source page carries none.
	PageTitle   string `json:"page_title,omitempty" yaml:"page_title,omitempty"`
	PageExcerpt string `json:"page_excerpt,omitempty" yaml:"page_excerpt,omitempty"`
	SiteName    string `json:"site_name,omitempty" yaml:"site_name,omitempty"`

	// ZeroYield marks a run that parsed a non-empty document but produced no
	// records. Distinct from an empty document, which is a normal empty run.
	ZeroYield bool `json:"zero_yield,omitempty" yaml:"zero_yield,omitempty"`

	// Partial marks a run stopped early by cancellation. Records already
	// assembled are scored and classified; the rest were never visited.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`
}

// QualityDistribution buckets records by confidence tier.
// Tiers: high >= 70, medium 50-69, low < 50.
type QualityDistribution struct {
	HighQuality   int `json:"high_quality" yaml:"high_quality"`
	MediumQuality int `json:"medium_quality" yaml:"medium_quality"`
	LowQuality    int `json:"low_quality" yaml:"low_quality"`
}

// CompletenessCounts reports how many records carry each notable field.
type CompletenessCounts struct {
	WithTitles       int `json:"with_titles" yaml:"with_titles"`
	WithDescriptions int `json:"with_descriptions" yaml:"with_descriptions"`
	WithTags         int `json:"with_tags" yaml:"with_tags"`
	WithURLs         int `json:"with_urls" yaml:"with_urls"`
	WithThumbnails   int `json:"with_thumbnails" yaml:"with_thumbnails"`
}

// KeywordCount is one entry of the top-keyword table, ordered by count
// descending then word ascending so output is deterministic.
type KeywordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Statistics aggregates over the finalized record list. Recomputed fresh
// each run; never cached across runs.
type Statistics struct {
	ByCategory   map[string]int      `json:"by_category" yaml:"by_category"`
	Quality      QualityDistribution `json:"quality_distribution" yaml:"quality_distribution"`
	Completeness CompletenessCounts  `json:"completeness" yaml:"completeness"`
	TopKeywords  []KeywordCount      `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

// ExtractionRun is one complete invocation's result set plus metadata. It is
// fully materialized before persistence and never mutated after hand-off.
type ExtractionRun struct {
	Info            ExtractionInfo      `json:"extraction_info" yaml:"extraction_info"`
	Datasets        []DatasetRecord     `json:"datasets" yaml:"datasets"`
	Classifications map[string][]string `json:"classifications" yaml:"classifications"`
	Statistics      Statistics          `json:"statistics" yaml:"statistics"`
}

// RawDocument is the pipeline input: the full HTML text plus its source
// path or identifier. Immutable once loaded.
type RawDocument struct {
	Source string
	HTML   string
}
