package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/geocat/catalog-extractor/internal/extract"
	"github.com/geocat/catalog-extractor/internal/runs"
	"github.com/geocat/catalog-extractor/internal/taxonomy"
	"github.com/geocat/catalog-extractor/pkg/help"
	"github.com/geocat/catalog-extractor/pkg/pipeline"
)

func main() {
	app := &cli.App{
		Name:    "catx",
		Usage:   "extract and classify dataset entries from saved catalog pages",
		Version: pipeline.Version,
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Run the extraction pipeline over a saved HTML page",
				Action: extract.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "path to the saved catalog HTML page",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output path for json/yaml formats",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "output format: json, yaml, or sqlite",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "SQLite database path for --format=sqlite",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config overriding the built-in defaults",
					},
					&cli.Float64Flag{
						Name:  "min-confidence",
						Usage: "drop records scoring below this threshold (0-100)",
					},
					&cli.BoolFlag{
						Name:  "detect-language",
						Usage: "detect each record's description language",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "suppress progress messages and non-error logs",
					},
				},
			},
			{
				Name:  "runs",
				Usage: "Inspect run history stored in SQLite",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent runs, newest first",
						Action: runs.ListAction,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "db",
								Usage: "SQLite database path",
							},
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "maximum number of runs to list",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show one run's datasets and classifications",
						ArgsUsage: "<run_id>",
						Action:    runs.ShowAction,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "db",
								Usage: "SQLite database path",
							},
						},
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML cheat sheet of common invocations",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:   "taxonomy",
				Usage:  "Print the active classification taxonomy",
				Action: taxonomy.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config overriding the built-in defaults",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
