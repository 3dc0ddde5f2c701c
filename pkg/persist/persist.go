// Package persist writes finalized extraction runs to durable form. The
// core hands over a fully materialized ExtractionRun; writers must not lose
// fields (round-trip fidelity) and must surface failures instead of
// swallowing them. A failed write never invalidates the in-memory run.
package persist

import "github.com/geocat/catalog-extractor/models"

// Writer persists one extraction run and returns a handle to where it
// landed (file path, database path).
type Writer interface {
	Save(run *models.ExtractionRun) (string, error)
}
