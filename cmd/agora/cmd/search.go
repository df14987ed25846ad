package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/search"
	"github.com/mleroy/agora/internal/store"
	"github.com/mleroy/agora/internal/ui"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search topic titles from the command line",
		Long: `Load the corpus and run a one-shot title search.

Every word of the query must appear in a topic's title for it to
match.

Examples:
  agora search "mission briefing"
  agora search tournament --limit 5 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return runSearch(cmd, cfg.Data.Path, query, limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

// searchResult is the JSON output shape for one hit.
type searchResult struct {
	TopicID  int64  `json:"topic_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Created  string `json:"created"`
}

func runSearch(cmd *cobra.Command, dataPath, query string, limit int, jsonOutput bool) error {
	ds, err := loader.New(dataPath).Load(cmd.Context())
	if err != nil {
		return err
	}

	s := store.New(ds)
	ids := search.Build(s.AllTopics()).Search(query)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]searchResult, 0, len(ids))
	for _, id := range ids {
		topic, ok := s.GetTopic(id)
		if !ok {
			continue
		}
		categoryName := ""
		if cat, found := s.GetCategory(topic.CategoryID); found {
			categoryName = cat.Name
		}
		results = append(results, searchResult{
			TopicID:  topic.ID,
			Title:    topic.Title,
			Category: categoryName,
			Created:  topic.Created.Format("2006-01-02"),
		})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	styles := ui.AutoStyles()
	if len(results) == 0 {
		fmt.Fprintln(out, styles.Dim.Render("no results"))
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(out, "%s %s %s\n",
			styles.Value.Render(r.Title),
			styles.Dim.Render(fmt.Sprintf("(#%d, %s)", r.TopicID, r.Created)),
			styles.Label.Render(r.Category))
	}
	return nil
}
