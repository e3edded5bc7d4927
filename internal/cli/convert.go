package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templatize/templatize/internal/config"
	"github.com/templatize/templatize/internal/converter"
	"github.com/templatize/templatize/internal/report"
	"github.com/templatize/templatize/internal/tmplconfig"
)

var convertCmd = &cobra.Command{
	Use:     "convert",
	Aliases: []string{"run"},
	Short:   "Rewrite a project's variable content as placeholder tokens",
	Long: `Walk the source tree rooted at --dir, apply the .templatize.json
rule file's Patterns to every matching file, and rewrite each file in
place with its accepted candidates replaced by placeholder tokens.

Running 'templatize' with no subcommand is equivalent to running
'templatize convert'. Pass --dry-run to see what would change without
writing anything.`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := tmplconfig.Load(flagValues.Dir)
	if err != nil {
		return err
	}

	style, err := config.ResolvePlaceholderStyle(flagValues.PlaceholderStyle)
	if err != nil {
		return err
	}

	rpt, err := converter.Convert(cmd.Context(), flagValues.Dir, cfg, converter.Options{
		DryRun:           flagValues.DryRun,
		PlaceholderStyle: style,
		Concurrency:      flagValues.Concurrency,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Render(rpt, flagValues.Verbose))

	if len(rpt.FilesSkipped) == rpt.FilesVisited {
		return fmt.Errorf("no file could be processed (%d visited, %d skipped)", rpt.FilesVisited, len(rpt.FilesSkipped))
	}
	return nil
}
