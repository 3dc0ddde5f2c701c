package runs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/geocat/catalog-extractor/pkg/persist"
)

func openStore(c *cli.Context) (*persist.Store, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = persist.DefaultDBName
	}
	store, err := persist.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// ListAction prints the run history table, newest first.
func ListAction(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-38s %-22s %-10s %-8s %-30s\n",
		"Run ID", "Timestamp", "Datasets", "Flags", "Source")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		var flags []string
		if r.ZeroYield {
			flags = append(flags, "zero-yield")
		}
		if r.Partial {
			flags = append(flags, "partial")
		}
		flagText := strings.Join(flags, ",")
		if flagText == "" {
			flagText = "-"
		}
		fmt.Printf("%-38s %-22s %-10d %-8s %-30s\n",
			r.RunID, r.Timestamp, r.TotalDatasets, flagText, r.Source)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'catx runs show <run_id>' to see details\n")

	return nil
}

// ShowAction prints one run's datasets and classification index.
func ShowAction(c *cli.Context) error {
	runID := c.Args().First()
	if runID == "" {
		return fmt.Errorf("usage: catx runs show <run_id>")
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LoadRun(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	fmt.Printf("Run %s\n", run.Info.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Timestamp:   %s\n", run.Info.Timestamp)
	fmt.Printf("Source:      %s\n", run.Info.SourceIdentifier)
	fmt.Printf("Version:     %s\n", run.Info.ExtractorVersion)
	fmt.Printf("Datasets:    %d\n", run.Info.TotalDatasets)
	if run.Info.Partial {
		fmt.Println("Partial:     yes")
	}
	if run.Info.ZeroYield {
		fmt.Println("Zero yield:  yes")
	}

	if len(run.Datasets) > 0 {
		fmt.Printf("\nDatasets (%d):\n", len(run.Datasets))
		fmt.Println(strings.Repeat("-", 60))
		for i, rec := range run.Datasets {
			fmt.Printf("%2d. [%s] %s\n", i+1, rec.Category, rec.Title)
			fmt.Printf("    ID: %s | Confidence: %.0f | Completeness: %.0f%%\n",
				rec.DatasetID, rec.ConfidenceScore, rec.DataCompleteness)
			if rec.URL != "" {
				fmt.Printf("    URL: %s\n", rec.URL)
			}
		}
	}

	if len(run.Classifications) > 0 {
		categories := make([]string, 0, len(run.Classifications))
		for category := range run.Classifications {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		fmt.Printf("\nClassifications (%d categories):\n", len(categories))
		fmt.Println(strings.Repeat("-", 60))
		for _, category := range categories {
			fmt.Printf("%-24s %d datasets\n", category, len(run.Classifications[category]))
		}
	}

	return nil
}
