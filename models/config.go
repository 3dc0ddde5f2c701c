package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is one taxonomy bucket: a name plus the keywords that put a
// record into it. Taxonomy order is priority order; the first matching
// category becomes a record's primary label.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// ScoringWeights holds the confidence/completeness constants. The exact
// values are tunable, not load-bearing; defaults are documented in DESIGN.md.
type ScoringWeights struct {
	// Confidence.
	PopulatedFieldBase      float64 `yaml:"populated_field_base" json:"populated_field_base"`
	CorroborationBonus      float64 `yaml:"corroboration_bonus" json:"corroboration_bonus"`
	TitleQualityBonus       float64 `yaml:"title_quality_bonus" json:"title_quality_bonus"`
	CanonicalURLBonus       float64 `yaml:"canonical_url_bonus" json:"canonical_url_bonus"`
	EmptyDescriptionPenalty float64 `yaml:"empty_description_penalty" json:"empty_description_penalty"`

	// Completeness.
	RequiredFieldWeight float64 `yaml:"required_field_weight" json:"required_field_weight"`
	OptionalFieldWeight float64 `yaml:"optional_field_weight" json:"optional_field_weight"`
}

// ExtractionConfig is the explicit configuration value passed into the
// pipeline entry point. No module-level state: two pipelines with different
// configs can run side by side.
type ExtractionConfig struct {
	// CatalogPathMarker identifies canonical catalog URLs; anchors whose
	// href contains it anchor the degraded-mode fallback discovery pass.
	CatalogPathMarker string `yaml:"catalog_path_marker" json:"catalog_path_marker"`

	// BaseURL resolves relative hrefs found in the saved page.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// ProviderVocabulary maps a lowercase token found in text to the
	// canonical provider name it stands for.
	ProviderVocabulary map[string]string `yaml:"provider_vocabulary" json:"provider_vocabulary"`

	// Taxonomy is the fixed, ordered category list.
	Taxonomy []Category `yaml:"taxonomy" json:"taxonomy"`

	Weights ScoringWeights `yaml:"weights" json:"weights"`

	// TopKeywordLimit caps the top-keyword table in run statistics.
	TopKeywordLimit int `yaml:"top_keyword_limit" json:"top_keyword_limit"`
}

// DefaultConfig returns the compiled-in configuration: the Earth Engine
// catalog conventions, the default taxonomy and the documented scoring
// constants.
func DefaultConfig() *ExtractionConfig {
	return &ExtractionConfig{
		CatalogPathMarker: "datasets/catalog",
		BaseURL:           "https://developers.google.com",
		ProviderVocabulary: map[string]string{
			"nasa":                  "NASA",
			"usgs":                  "USGS",
			"esa":                   "ESA",
			"european space agency": "ESA",
			"noaa":                  "NOAA",
			"jaxa":                  "JAXA",
			"copernicus":            "Copernicus",
			"usda":                  "USDA",
			"ecmwf":                 "ECMWF",
			"jrc":                   "JRC",
			"google":                "Google",
		},
		Taxonomy: []Category{
			// Mission families first: a Landsat agriculture product files
			// under landsat, not agriculture.
			{Name: "landsat", Keywords: []string{"landsat"}},
			{Name: "sentinel", Keywords: []string{"sentinel"}},
			{Name: "modis", Keywords: []string{"modis", "mod09", "mod11", "mod13"}},
			{Name: "goes", Keywords: []string{"goes"}},
			{Name: "viirs", Keywords: []string{"viirs", "suomi npp"}},
			{Name: "agriculture", Keywords: []string{"agriculture", "crop", "cropland", "farm", "irrigation", "harvest"}},
			{Name: "forestry", Keywords: []string{"forest", "deforestation", "canopy", "tree cover", "logging"}},
			{Name: "urban", Keywords: []string{"urban", "built-up", "city", "settlement", "nighttime lights", "impervious"}},
			{Name: "water", Keywords: []string{"water", "hydrology", "river", "lake", "precipitation", "rainfall", "snow"}},
			{Name: "climate", Keywords: []string{"climate", "temperature", "era5", "weather", "reanalysis"}},
			{Name: "disaster", Keywords: []string{"fire", "burned", "burn", "flood", "earthquake", "hazard", "drought"}},
			{Name: "marine", Keywords: []string{"ocean", "sea surface", "marine", "coastal", "chlorophyll"}},
			{Name: "atmospheric", Keywords: []string{"atmosphere", "atmospheric", "aerosol", "ozone", "methane", "no2", "air quality", "co2"}},
			{Name: "vegetation", Keywords: []string{"vegetation", "ndvi", "evi", "leaf area", "biomass", "phenology"}},
			{Name: "soil", Keywords: []string{"soil", "soil moisture", "lithology"}},
			{Name: "elevation", Keywords: []string{"elevation", "dem", "terrain", "srtm", "bathymetry", "topography"}},
		},
		Weights: ScoringWeights{
			PopulatedFieldBase:      5,
			CorroborationBonus:      10,
			TitleQualityBonus:       10,
			CanonicalURLBonus:       10,
			EmptyDescriptionPenalty: 20,
			RequiredFieldWeight:     2,
			OptionalFieldWeight:     1,
		},
		TopKeywordLimit: 25,
	}
}

// LoadConfig reads a YAML ExtractionConfig from path, filling unset sections
// from the defaults, and validates it.
func LoadConfig(path string) (*ExtractionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("reading %s: %v", path, err)}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. Returns a
// ConfigurationError so callers fail before any document is processed.
func (c *ExtractionConfig) Validate() error {
	if c.CatalogPathMarker == "" {
		return &ConfigurationError{Reason: "catalog_path_marker must not be empty"}
	}
	if len(c.Taxonomy) == 0 {
		return &ConfigurationError{Reason: "taxonomy must list at least one category"}
	}
	seen := make(map[string]struct{}, len(c.Taxonomy))
	for i, cat := range c.Taxonomy {
		if cat.Name == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("taxonomy[%d] has an empty name", i)}
		}
		if _, dup := seen[cat.Name]; dup {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate taxonomy category %q", cat.Name)}
		}
		seen[cat.Name] = struct{}{}
		if len(cat.Keywords) == 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("taxonomy category %q has no keywords", cat.Name)}
		}
	}
	w := c.Weights
	for name, v := range map[string]float64{
		"populated_field_base":      w.PopulatedFieldBase,
		"corroboration_bonus":       w.CorroborationBonus,
		"title_quality_bonus":       w.TitleQualityBonus,
		"canonical_url_bonus":       w.CanonicalURLBonus,
		"empty_description_penalty": w.EmptyDescriptionPenalty,
		"required_field_weight":     w.RequiredFieldWeight,
		"optional_field_weight":     w.OptionalFieldWeight,
	} {
		if v < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("weight %s must not be negative", name)}
		}
	}
	if w.RequiredFieldWeight == 0 || w.OptionalFieldWeight == 0 {
		return &ConfigurationError{Reason: "field weights must be positive"}
	}
	if c.TopKeywordLimit < 0 {
		return &ConfigurationError{Reason: "top_keyword_limit must not be negative"}
	}
	return nil
}
