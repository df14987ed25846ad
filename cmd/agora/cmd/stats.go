package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/search"
	"github.com/mleroy/agora/internal/store"
	"github.com/mleroy/agora/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Long: `Load the corpus and report its size: categories, topics, search
index terms, and the totals recorded at export time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStats(cmd, cfg.Data.Path, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// statsOutput is the JSON output format for corpus stats.
type statsOutput struct {
	Categories int               `json:"categories"`
	Topics     int               `json:"topics"`
	IndexTerms int               `json:"index_terms"`
	ExportInfo loader.ExportInfo `json:"export_info"`
}

func runStats(cmd *cobra.Command, dataPath string, jsonOutput bool) error {
	ds, err := loader.New(dataPath).Load(cmd.Context())
	if err != nil {
		return err
	}

	s := store.New(ds)
	stats := statsOutput{
		Categories: len(ds.Categories),
		Topics:     len(ds.Topics),
		IndexTerms: search.Build(s.AllTopics()).TokenCount(),
		ExportInfo: ds.Info,
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	styles := ui.AutoStyles()
	fmt.Fprintln(out, styles.Header.Render("Corpus"))
	fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("categories:"), stats.Categories)
	fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("topics:"), stats.Topics)
	fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("index terms:"), stats.IndexTerms)

	if stats.ExportInfo != (loader.ExportInfo{}) {
		fmt.Fprintln(out, styles.Header.Render("Export"))
		fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("users:"), stats.ExportInfo.TotalUsers)
		fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("categories:"), stats.ExportInfo.TotalCategories)
		fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("topics:"), stats.ExportInfo.TotalTopics)
		fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("posts:"), stats.ExportInfo.TotalPosts)
	}
	return nil
}
