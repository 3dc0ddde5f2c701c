// Package enrich holds the strictly optional post-processing stage. An
// enricher operates on finalized records and only adds supplementary fields;
// the pipeline's correctness never depends on any enricher being present or
// succeeding. Enricher failures are logged and skipped, record by record.
package enrich

import (
	"fmt"
	"log/slog"

	"github.com/geocat/catalog-extractor/models"
)

// Enricher adds supplementary fields to one finalized record. An error (or
// panic) only skips that record for that enricher.
type Enricher interface {
	Name() string
	Enrich(rec *models.DatasetRecord) error
}

// Apply runs every enricher over every record, recovering failures locally.
// Derived scores are not recomputed here: enrichment output is supplementary
// and must not move confidence or completeness.
func Apply(logger *slog.Logger, records []models.DatasetRecord, enrichers []Enricher) {
	for _, e := range enrichers {
		for i := range records {
			if err := enrichOne(e, &records[i]); err != nil && logger != nil {
				logger.Warn("enricher failed, record left as-is",
					"enricher", e.Name(), "dataset_id", records[i].DatasetID, "error", err)
			}
		}
	}
}

func enrichOne(e Enricher, rec *models.DatasetRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enricher panicked: %v", r)
		}
	}()
	return e.Enrich(rec)
}
