package pipeline

import (
	"fmt"
	"os"

	"github.com/geocat/catalog-extractor/models"
)

// LoadDocument reads a saved catalog page from disk into a RawDocument.
// The path doubles as the run's source identifier.
func LoadDocument(path string) (models.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("reading document %s: %w", path, err)
	}
	return models.RawDocument{Source: path, HTML: string(data)}, nil
}
