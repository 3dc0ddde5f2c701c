// Package pipeline wires the extraction stages together:
// Idle -> Loading -> Extracting -> Scoring -> Classifying -> Persisting -> Done,
// with Failed reachable from any stage on an unrecoverable error. The whole
// run is synchronous and single-threaded; callers wanting a responsive UI
// run it on their own goroutine and observe the progress callbacks.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"

	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/assemble"
	"github.com/geocat/catalog-extractor/pkg/classify"
	"github.com/geocat/catalog-extractor/pkg/enrich"
	"github.com/geocat/catalog-extractor/pkg/persist"
)

// Version is recorded on every run as extractor_version.
const Version = "1.0.0"

// Options carries the caller-supplied collaborators. Everything is optional:
// the zero value runs extraction in memory with no persistence, no progress
// reporting and no enrichment.
type Options struct {
	// OnProgress receives the percentage of containers processed during the
	// Extracting stage. Fire-and-forget: a panicking callback is caught and
	// ignored.
	OnProgress func(percent int)
	// OnMessage receives human-readable stage transitions. Same contract as
	// OnProgress.
	OnMessage func(message string)

	// MinConfidence drops assembled records scoring below the threshold
	// before classification. Zero keeps everything.
	MinConfidence float64

	// Enrichers run over finalized records; optional and failure-tolerant.
	Enrichers []enrich.Enricher

	// Writer persists the finished run. Nil skips the Persisting stage.
	Writer persist.Writer
}

type Pipeline struct {
	cfg    *models.ExtractionConfig
	logger *slog.Logger
	opts   Options
	state  models.State
}

// New validates cfg and builds a pipeline. A nil cfg means the compiled-in
// defaults; an invalid cfg fails here, before any document is touched.
func New(cfg *models.ExtractionConfig, logger *slog.Logger, opts Options) (*Pipeline, error) {
	if cfg == nil {
		cfg = models.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		opts:   opts,
		state:  models.StateIdle,
	}, nil
}

// State reports the stage the last Run reached.
func (p *Pipeline) State() models.State { return p.state }

// Run executes the whole pipeline over one document. On success the returned
// run is complete and internally consistent; on fatal failure the error is a
// *models.PipelineError naming the stage. A persistence failure returns both
// the valid in-memory run and the error, so the caller can retry persisting.
//
// Cancellation is cooperative: ctx is checked between containers, and a
// cancelled run is finished early as a partial but fully scored and
// classified result.
func (p *Pipeline) Run(ctx context.Context, doc models.RawDocument) (*models.ExtractionRun, error) {
	// Loading.
	p.setState(models.StateLoading)
	gdoc, err := p.load(doc)
	if err != nil {
		return nil, p.fail(models.StateLoading, err)
	}

	info := models.ExtractionInfo{
		RunID:            uuid.NewString(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		SourceIdentifier: doc.Source,
		ExtractorVersion: Version,
	}
	p.probeDocumentMeta(doc, &info)

	// Extracting.
	p.setState(models.StateExtracting)
	asm := assemble.New(p.cfg, p.logger)
	containers, fallback := asm.Containers(gdoc)
	if fallback {
		p.say("container heuristics found nothing, degraded to catalog-anchor discovery")
	}

	var items []assemble.Item
	for i, sel := range containers {
		if ctx.Err() != nil {
			p.say(fmt.Sprintf("cancelled after %d of %d containers", i, len(containers)))
			info.Partial = true
			break
		}
		if item, ok := asm.Build(sel); ok {
			items = append(items, item)
		}
		p.progress((i + 1) * 100 / len(containers))
	}

	// Scoring. Build already scored each record; deduplication re-scores
	// merged ones, so the invariant "scores always reflect current fields"
	// survives the merge.
	p.setState(models.StateScoring)
	records := asm.Finalize(items)
	if p.opts.MinConfidence > 0 {
		records = filterByConfidence(records, p.opts.MinConfidence)
	}

	// Classifying.
	p.setState(models.StateClassifying)
	classifier := classify.New(p.cfg)
	for i := range records {
		records[i].Category = classifier.Primary(&records[i])
	}
	index := classifier.Index(records)

	enrich.Apply(p.logger, records, p.opts.Enrichers)

	stats := classify.Stats(records, index, p.cfg.TopKeywordLimit)

	info.TotalDatasets = len(records)
	info.ZeroYield = len(records) == 0 && documentHasContent(gdoc)
	if info.ZeroYield {
		p.say("document parsed but yielded no datasets")
		if p.logger != nil {
			p.logger.Warn("zero-yield extraction", "source", doc.Source)
		}
	}

	run := &models.ExtractionRun{
		Info:            info,
		Datasets:        records,
		Classifications: index,
		Statistics:      stats,
	}
	if run.Datasets == nil {
		run.Datasets = []models.DatasetRecord{}
	}

	// Persisting.
	if p.opts.Writer != nil {
		p.setState(models.StatePersisting)
		location, err := p.opts.Writer.Save(run)
		if err != nil {
			// The in-memory run stays valid; hand both back.
			p.state = models.StateFailed
			return run, &models.PipelineError{Stage: models.StatePersisting, Err: err}
		}
		p.say("persisted to " + location)
	}

	p.setState(models.StateDone)
	return run, nil
}

// load parses the document, rejecting input that is not markup at all.
func (p *Pipeline) load(doc models.RawDocument) (*goquery.Document, error) {
	if !utf8.ValidString(doc.HTML) || strings.ContainsRune(doc.HTML, 0) {
		return nil, &models.MalformedInputError{Reason: "input is not valid UTF-8 text"}
	}
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, &models.MalformedInputError{Reason: "input document is blank"}
	}
	gdoc, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, &models.MalformedInputError{Reason: err.Error()}
	}
	return gdoc, nil
}

// probeDocumentMeta runs the readability pass for page-level metadata. Best
// effort only: a failed probe leaves the info fields empty.
func (p *Pipeline) probeDocumentMeta(doc models.RawDocument, info *models.ExtractionInfo) {
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.Debug("readability probe panicked", "panic", r)
		}
	}()

	pageURL, err := url.Parse(doc.Source)
	if err != nil || pageURL.Scheme == "" {
		pageURL, _ = url.Parse("file:///" + strings.TrimPrefix(doc.Source, "/"))
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(doc.HTML), pageURL)
	if err != nil {
		return
	}
	info.PageTitle = article.Title
	info.PageExcerpt = article.Excerpt
	info.SiteName = article.SiteName
}

func (p *Pipeline) fail(stage models.State, err error) *models.PipelineError {
	p.state = models.StateFailed
	perr := &models.PipelineError{Stage: stage, Err: err}
	if p.logger != nil {
		p.logger.Error("pipeline failed", "stage", stage.String(), "error", err)
	}
	p.say("failed during " + stage.String() + ": " + err.Error())
	return perr
}

func (p *Pipeline) setState(s models.State) {
	p.state = s
	switch s {
	case models.StateDone, models.StateFailed:
	default:
		p.say(s.String())
	}
	if p.logger != nil {
		p.logger.Debug("pipeline state", "state", s.String())
	}
}

// say and progress forward to the caller's observers. Both are optional and
// both are protected: a misbehaving observer must never fail extraction.
func (p *Pipeline) say(msg string) {
	if p.opts.OnMessage == nil {
		return
	}
	defer func() { _ = recover() }()
	p.opts.OnMessage(msg)
}

func (p *Pipeline) progress(percent int) {
	if p.opts.OnProgress == nil {
		return
	}
	defer func() { _ = recover() }()
	p.opts.OnProgress(percent)
}

// documentHasContent distinguishes "nothing to do" (an empty page) from a
// non-empty page where extraction simply found nothing.
func documentHasContent(gdoc *goquery.Document) bool {
	body := gdoc.Find("body")
	return body.Children().Length() > 0 || strings.TrimSpace(body.Text()) != ""
}

func filterByConfidence(records []models.DatasetRecord, min float64) []models.DatasetRecord {
	kept := records[:0]
	for _, rec := range records {
		if rec.ConfidenceScore >= min {
			kept = append(kept, rec)
		}
	}
	return kept
}
