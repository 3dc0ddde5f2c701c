package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geocat/catalog-extractor/models"
	"gopkg.in/yaml.v3"
)

// JSONWriter serializes the run document as indented JSON.
type JSONWriter struct {
	Path string
}

func (w *JSONWriter) Save(run *models.ExtractionRun) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", &models.PersistenceError{Location: w.Path, Err: err}
	}
	if err := writeFile(w.Path, data); err != nil {
		return "", &models.PersistenceError{Location: w.Path, Err: err}
	}
	return w.Path, nil
}

// YAMLWriter serializes the run document as YAML.
type YAMLWriter struct {
	Path string
}

func (w *YAMLWriter) Save(run *models.ExtractionRun) (string, error) {
	data, err := yaml.Marshal(run)
	if err != nil {
		return "", &models.PersistenceError{Location: w.Path, Err: err}
	}
	if err := writeFile(w.Path, data); err != nil {
		return "", &models.PersistenceError{Location: w.Path, Err: err}
	}
	return w.Path, nil
}

// LoadJSON reads back a run persisted by JSONWriter.
func LoadJSON(path string) (*models.ExtractionRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run document: %w", err)
	}
	var run models.ExtractionRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding run document: %w", err)
	}
	return &run, nil
}

// LoadYAML reads back a run persisted by YAMLWriter.
func LoadYAML(path string) (*models.ExtractionRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run document: %w", err)
	}
	var run models.ExtractionRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding run document: %w", err)
	}
	return &run, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
