package enrich

import "github.com/geocat/catalog-extractor/models"

// ThumbnailSink downloads or resolves a thumbnail URL to a local path. The
// caller supplies the implementation; the core only consumes the contract.
type ThumbnailSink func(url string) (string, error)

// ThumbnailResolver fills ThumbnailPath through an injected sink.
type ThumbnailResolver struct {
	Sink ThumbnailSink
}

func (t *ThumbnailResolver) Name() string { return "thumbnail-resolver" }

func (t *ThumbnailResolver) Enrich(rec *models.DatasetRecord) error {
	if t.Sink == nil || rec.ThumbnailURL == "" || rec.ThumbnailPath != "" {
		return nil
	}
	path, err := t.Sink(rec.ThumbnailURL)
	if err != nil {
		return err
	}
	rec.ThumbnailPath = path
	return nil
}

// GenerativeSink proposes supplementary field values for a record, keyed by
// field name. It is untrusted: output only ever fills fields extraction left
// empty, and a failing sink never fails the run.
type GenerativeSink interface {
	Enhance(rec models.DatasetRecord) (map[string]string, error)
}

// GenerativeEnhancer adapts a GenerativeSink to the Enricher contract.
type GenerativeEnhancer struct {
	Sink GenerativeSink
}

func (g *GenerativeEnhancer) Name() string { return "generative-enhancer" }

func (g *GenerativeEnhancer) Enrich(rec *models.DatasetRecord) error {
	if g.Sink == nil {
		return nil
	}
	fields, err := g.Sink.Enhance(*rec)
	if err != nil {
		return err
	}
	for field, value := range fields {
		if value == "" {
			continue
		}
		switch field {
		case models.FieldDescription:
			if rec.Description == "" {
				rec.Description = value
			}
		case models.FieldProvider:
			if rec.Provider == "" {
				rec.Provider = value
			}
		case models.FieldSpatial:
			if rec.SpatialCoverage == "" {
				rec.SpatialCoverage = value
			}
		}
	}
	return nil
}
