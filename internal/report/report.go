// Package report renders a converter Report as a deterministic,
// human-readable dry-run summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/templatize/templatize/internal/engine"
)

const previewWidth = 60

// Render produces the dry-run summary text for rpt. Ordering matches the
// converter's file visit order, which is already how Report.FileResults is
// populated.
//
// When verbose is true, Render additionally appends a unified diff of each
// changed file's original and rewritten content, via Diff.
func Render(rpt *engine.Report, verbose bool) string {
	var b strings.Builder

	for _, fr := range rpt.FileResults {
		fmt.Fprintf(&b, "%s\n", fr.Path)
		for _, c := range fr.Accepted {
			fmt.Fprintf(&b, "  %s <- %s\n", c.Placeholder, preview(c.OriginalText))
		}
		if verbose && fr.Changed {
			diff, err := Diff(fr.Path, fr.Original, fr.Rewritten)
			if err != nil {
				fmt.Fprintf(&b, "  (diff unavailable: %v)\n", err)
			} else if diff != "" {
				fmt.Fprint(&b, diff)
			}
		}
	}

	fmt.Fprintf(&b, "\n%d files visited, %d files changed, %d candidates accepted\n",
		rpt.FilesVisited, len(rpt.FileResults), rpt.TotalAccepted())

	if filtered := rpt.TotalFiltered(); len(filtered) > 0 {
		fmt.Fprintf(&b, "candidates filtered:\n")
		reasons := make([]string, 0, len(filtered))
		for reason := range filtered {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(&b, "  %s: %d\n", reason, filtered[engine.FilterReason(reason)])
		}
	}

	if len(rpt.FilesSkipped) > 0 {
		fmt.Fprintf(&b, "files skipped:\n")
		for _, skip := range rpt.FilesSkipped {
			fmt.Fprintf(&b, "  %s (%s): %s\n", skip.Path, skip.Reason, skip.Detail)
		}
	}

	return b.String()
}

// preview truncates s to previewWidth runes, appending an ellipsis when
// truncated.
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewWidth {
		return s
	}
	return string(runes[:previewWidth]) + "..."
}

// Diff renders a unified diff between the original and rewritten contents
// of a single file, for verbose dry-run output.
func Diff(path, original, rewritten string) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(rewritten),
		FromFile: path,
		ToFile:   path + " (templatized)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(d)
}
