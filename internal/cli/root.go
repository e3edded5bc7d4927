// Package cli implements the Cobra command hierarchy for the templatize
// CLI tool. The root command defined here is the entry point for all
// subcommands and handles cross-cutting concerns like logging
// initialization and error handling.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/templatize/templatize/internal/config"
	"github.com/templatize/templatize/internal/engine"
)

// flagValues holds the parsed global flag values, populated by
// config.BindFlags and validated in PersistentPreRunE.
var flagValues *config.FlagValues

var rootCmd = &cobra.Command{
	Use:   "templatize",
	Short: "Turn a project into a reusable template.",
	Long: `templatize scans a source project and rewrites its variable content
(names, identifiers, URLs, copy) into placeholder tokens, driven by a
.templatize.json rule file.

It walks the source tree, dispatches each file's rules to the structural
processor for its format (JSON, Markdown, HTML, JSX/TSX), resolves
conflicting candidates deterministically, and either rewrites files in
place or reports the would-be rewrites without touching disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFlags(flagValues); err != nil {
			return err
		}

		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	// When no subcommand is given, delegate to the convert command.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

func init() {
	flagValues = config.BindFlags(rootCmd)
	rootCmd.RegisterFlagCompletionFunc("style", completeStyle)
}

func completeStyle(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"unicode", "mustache", "dollar", "percent"}, cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command and returns an appropriate process exit
// code: engine.ExitError (1) for any failure, engine.ExitSuccess (0)
// otherwise.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return int(engine.ExitError)
	}
	return int(engine.ExitSuccess)
}

// RootCmd returns the root cobra.Command, for use in testing and
// subcommand registration.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the parsed global flag values. Available after
// PersistentPreRunE has run.
func GlobalFlags() *config.FlagValues {
	return flagValues
}
