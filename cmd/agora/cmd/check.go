package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/ui"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the corpus without serving it",
		Long: `Run the full load and validation pass and report the result.

Exits non-zero on the first malformed file, duplicate id or dangling
reference, naming the offending file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg.Data.Path)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, dataPath string) error {
	styles := ui.AutoStyles()
	out := cmd.OutOrStdout()

	ds, err := loader.New(dataPath).Load(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, styles.Success.Render("corpus OK"))
	fmt.Fprintf(out, "  %s %s\n", styles.Label.Render("root:"), dataPath)
	fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("categories:"), len(ds.Categories))
	fmt.Fprintf(out, "  %s %d\n", styles.Label.Render("topics:"), len(ds.Topics))
	return nil
}

// formatError renders load and config errors for the terminal,
// including the offending file and suggestion when present.
func formatError(err error) string {
	return ui.AutoStyles().Error.Render(agoraerrors.FormatForCLI(err))
}
