package extract

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/enrich"
	"github.com/geocat/catalog-extractor/pkg/persist"
	"github.com/geocat/catalog-extractor/pkg/pipeline"
)

// Action runs the full extraction pipeline over one saved catalog page and
// persists the result in the chosen format.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg := models.DefaultConfig()
	if c.IsSet("config") {
		var err error
		cfg, err = models.LoadConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(2)
		}
	}

	doc, err := pipeline.LoadDocument(c.String("input"))
	if err != nil {
		logger.Error("failed to read input document", "error", err)
		os.Exit(2)
	}

	writer, closeWriter, err := buildWriter(c)
	if err != nil {
		logger.Error("failed to set up output", "error", err)
		os.Exit(2)
	}
	if closeWriter != nil {
		defer closeWriter()
	}

	opts := pipeline.Options{
		MinConfidence: c.Float64("min-confidence"),
		Writer:        writer,
	}
	if c.Bool("detect-language") {
		opts.Enrichers = append(opts.Enrichers, enrich.NewLanguageDetector())
	}
	if !c.Bool("quiet") {
		opts.OnMessage = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
	}

	p, err := pipeline.New(cfg, logger, opts)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	run, runErr := p.Run(c.Context, doc)
	if runErr != nil && run == nil {
		return fmt.Errorf("extraction failed: %w", runErr)
	}

	printSummary(run, time.Since(startTime))

	if runErr != nil {
		// The run is valid in memory; only persistence failed.
		return fmt.Errorf("extraction succeeded but persistence failed: %w", runErr)
	}
	return nil
}

// buildWriter picks the persistence backend from --format. The SQLite store
// needs closing; document writers do not.
func buildWriter(c *cli.Context) (persist.Writer, func() error, error) {
	format := strings.ToLower(c.String("format"))
	output := c.String("output")

	switch format {
	case "json":
		if output == "" {
			output = "extraction.json"
		}
		return &persist.JSONWriter{Path: output}, nil, nil
	case "yaml":
		if output == "" {
			output = "extraction.yaml"
		}
		return &persist.YAMLWriter{Path: output}, nil, nil
	case "sqlite":
		dbPath := c.String("db")
		if dbPath == "" {
			dbPath = persist.DefaultDBName
		}
		store, err := persist.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format: %s (use: json, yaml, or sqlite)", format)
	}
}

func printSummary(run *models.ExtractionRun, elapsed time.Duration) {
	fmt.Printf("Run %s\n", run.Info.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Source:      %s\n", run.Info.SourceIdentifier)
	if run.Info.PageTitle != "" {
		fmt.Printf("Page:        %s\n", run.Info.PageTitle)
	}
	fmt.Printf("Datasets:    %d\n", run.Info.TotalDatasets)
	fmt.Printf("Elapsed:     %s\n", elapsed.Round(time.Millisecond))
	if run.Info.Partial {
		fmt.Println("Partial:     run was cancelled before all entries were visited")
	}
	if run.Info.ZeroYield {
		fmt.Println("Warning:     document parsed but yielded no datasets")
	}

	q := run.Statistics.Quality
	fmt.Printf("\nQuality:     %d high / %d medium / %d low\n",
		q.HighQuality, q.MediumQuality, q.LowQuality)

	comp := run.Statistics.Completeness
	fmt.Printf("Fields:      %d titles, %d descriptions, %d tags, %d urls, %d thumbnails\n",
		comp.WithTitles, comp.WithDescriptions, comp.WithTags, comp.WithURLs, comp.WithThumbnails)

	if len(run.Statistics.ByCategory) > 0 {
		fmt.Printf("\nCategories (%d):\n", len(run.Statistics.ByCategory))
		fmt.Println(strings.Repeat("-", 40))
		for _, row := range sortedCategories(run.Statistics.ByCategory) {
			fmt.Printf("%-24s %d\n", row.name, row.count)
		}
	}

	if len(run.Statistics.TopKeywords) > 0 {
		limit := 10
		if len(run.Statistics.TopKeywords) < limit {
			limit = len(run.Statistics.TopKeywords)
		}
		fmt.Printf("\nTop %d keywords:\n", limit)
		fmt.Println(strings.Repeat("-", 40))
		for _, kw := range run.Statistics.TopKeywords[:limit] {
			fmt.Printf("%-24s %d\n", kw.Word, kw.Count)
		}
	}
}

type categoryRow struct {
	name  string
	count int
}

// sortedCategories orders the category table by count descending then name,
// so the summary prints deterministically.
func sortedCategories(byCategory map[string]int) []categoryRow {
	rows := make([]categoryRow, 0, len(byCategory))
	for name, count := range byCategory {
		rows = append(rows, categoryRow{name: name, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
	return rows
}
