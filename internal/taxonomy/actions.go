package taxonomy

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/geocat/catalog-extractor/models"
)

// Action prints the active taxonomy in priority order, so users can see
// which category wins when a record matches several.
func Action(c *cli.Context) error {
	cfg := models.DefaultConfig()
	if c.IsSet("config") {
		var err error
		cfg, err = models.LoadConfig(c.String("config"))
		if err != nil {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			logger.Error("failed to load config", "error", err)
			os.Exit(2)
		}
	}

	fmt.Printf("%-4s %-16s %s\n", "#", "Category", "Keywords")
	fmt.Println(strings.Repeat("-", 80))
	for i, cat := range cfg.Taxonomy {
		fmt.Printf("%-4d %-16s %s\n", i+1, cat.Name, strings.Join(cat.Keywords, ", "))
	}
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println("Records matching no category are filed under: other")

	return nil
}
