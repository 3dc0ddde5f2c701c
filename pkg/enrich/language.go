package enrich

import (
	"github.com/geocat/catalog-extractor/models"
	"github.com/pemistahl/lingua-go"
)

// minDetectableLen is the shortest description worth running language
// detection on; shorter strings produce junk guesses.
const minDetectableLen = 20

// LanguageDetector fills DatasetRecord.Language from the description text.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over the languages the catalog
// plausibly ships blurbs in.
func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Portuguese,
			lingua.Chinese,
			lingua.Japanese,
		).
		Build()
	return &LanguageDetector{detector: detector}
}

func (l *LanguageDetector) Name() string { return "language-detector" }

func (l *LanguageDetector) Enrich(rec *models.DatasetRecord) error {
	if rec.Language != "" || len(rec.Description) < minDetectableLen {
		return nil
	}
	lang, ok := l.detector.DetectLanguageOf(rec.Description)
	if !ok {
		return nil // no confident guess is not an error
	}
	rec.Language = lang.IsoCode639_1().String()
	return nil
}
