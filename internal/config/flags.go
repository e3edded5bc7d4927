package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/templatize/templatize/internal/engine"
)

// FlagValues collects the parsed global flag values from the CLI. Populated
// by BindFlags and passed to the converter.
type FlagValues struct {
	Dir              string
	PlaceholderStyle string
	DryRun           bool
	Concurrency      int
	Verbose          bool
	Quiet            bool
}

// BindFlags registers the global persistent flags on cmd and returns a
// FlagValues pointer populated once Cobra parses them.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.Dir, "dir", "d", ".", "source root to templatize")
	pf.StringVar(&fv.PlaceholderStyle, "style", "unicode", "placeholder style: unicode, mustache, dollar, percent")
	pf.BoolVar(&fv.DryRun, "dry-run", false, "report the would-be rewrites without writing any file")
	pf.IntVar(&fv.Concurrency, "concurrency", 0, "maximum number of files processed in parallel (0 selects a default)")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging and per-file unified diffs in the report")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "log errors only (the report is still printed)")

	return fv
}

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion. Call this from PersistentPreRunE after Cobra has parsed flags.
func ValidateFlags(fv *FlagValues) error {
	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	info, err := os.Stat(fv.Dir)
	if err != nil {
		return fmt.Errorf("--dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--dir: %s is not a directory", fv.Dir)
	}

	if _, err := ResolvePlaceholderStyle(fv.PlaceholderStyle); err != nil {
		return fmt.Errorf("--style: %w", err)
	}

	return nil
}

// ResolvePlaceholderStyle maps a --style flag value to an engine.PlaceholderStyle.
func ResolvePlaceholderStyle(name string) (engine.PlaceholderStyle, error) {
	switch name {
	case "", "unicode":
		return engine.StyleUnicode, nil
	case "mustache":
		return engine.StyleMustache, nil
	case "dollar":
		return engine.StyleDollar, nil
	case "percent":
		return engine.StylePercent, nil
	default:
		return 0, fmt.Errorf("invalid value %q (allowed: unicode, mustache, dollar, percent)", name)
	}
}
