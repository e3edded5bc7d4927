// Package converter implements the templatize pipeline: for each file under
// a source root, it dispatches the applicable Patterns to the appropriate
// structural processor, resolves conflicts between the resulting
// Candidates, and either rewrites the file in place or records the would-be
// rewrite in a dry-run Report.
package converter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/templatize/templatize/internal/discovery"
	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/htmlproc"
	"github.com/templatize/templatize/internal/jsonproc"
	"github.com/templatize/templatize/internal/jsxproc"
	"github.com/templatize/templatize/internal/markdownproc"
	"github.com/templatize/templatize/internal/placeholder"
	"github.com/templatize/templatize/internal/tmplconfig"
)

// Options configures a Convert run.
type Options struct {
	// DryRun, when true, computes and reports the would-be rewrites without
	// writing any file.
	DryRun bool

	// PlaceholderStyle selects the delimiter style for emitted placeholder
	// tokens. The zero value is engine.StyleUnicode.
	PlaceholderStyle engine.PlaceholderStyle

	// Concurrency bounds the number of files processed in parallel. Zero or
	// negative selects a reasonable default.
	Concurrency int
}

const defaultConcurrency = 8

// processorFunc is the uniform shape every structural processor satisfies:
// a pure function of (source text, applicable Patterns) to Candidates.
type processorFunc func(source string, patterns []tmplconfig.Pattern) []engine.Candidate

// processors lists the distinct structural processors, each invoked at most
// once per file. This closed, data-driven dispatch table avoids
// stringly-typed context branching: a processor receives the
// file's entire Pattern list and is responsible for filtering by Context
// itself, so every Candidate's PatternIndex stays aligned with the
// original config order regardless of how many Contexts route to it.
var processors = []struct {
	name    string
	fn      processorFunc
	applies func(engine.Context) bool
}{
	{"json", jsonproc.Process, func(c engine.Context) bool { return c == engine.ContextJSON }},
	{"markdown", markdownproc.Process, func(c engine.Context) bool {
		return c == engine.ContextMarkdown || c == engine.ContextMarkdownHeading || c == engine.ContextMarkdownParagraph
	}},
	{"html", htmlproc.Process, func(c engine.Context) bool {
		return c == engine.ContextHTML || c == engine.ContextHTMLAttribute
	}},
	{"jsx", jsxproc.Process, func(c engine.Context) bool {
		return c == engine.ContextJSX || c == engine.ContextJSXText || c == engine.ContextJSXAttribute
	}},
}

// Convert walks sourceRoot, applies cfg's rules to every matching file, and
// either rewrites files in place or records the would-be result, depending
// on opts.DryRun. Per-file failures are recorded on the returned Report and
// do not abort the run; the overall operation fails only if sourceRoot
// itself cannot be walked.
func Convert(ctx context.Context, sourceRoot string, cfg *tmplconfig.Config, opts Options) (*engine.Report, error) {
	paths, err := discovery.Walk(sourceRoot, func(relPath string) bool {
		return len(tmplconfig.PatternsForFile(relPath, cfg)) > 0
	})
	if err != nil {
		return nil, engine.NewFileError(engine.SkipReasonFileRead, sourceRoot, "walking source tree", err)
	}
	sort.Strings(paths)

	report := &engine.Report{FilesVisited: len(paths)}
	results := make([]*engine.FileResult, len(paths))
	skips := make([]*engine.FileSkip, len(paths))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, relPath := range paths {
		i, relPath := i, relPath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, skip := processFile(sourceRoot, relPath, cfg, opts)
			results[i] = result
			skips[i] = skip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range paths {
		if skips[i] != nil {
			report.FilesSkipped = append(report.FilesSkipped, *skips[i])
			continue
		}
		if results[i] != nil && len(results[i].Accepted) > 0 {
			report.FileResults = append(report.FileResults, *results[i])
		}
	}

	return report, nil
}

// processFile handles exactly one file: read, dispatch, resolve conflicts,
// and (unless DryRun) write the result.
func processFile(sourceRoot, relPath string, cfg *tmplconfig.Config, opts Options) (*engine.FileResult, *engine.FileSkip) {
	absPath := filepath.Join(sourceRoot, relPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &engine.FileSkip{Path: relPath, Reason: engine.SkipReasonFileRead, Detail: err.Error()}
	}
	source := string(data)

	patterns := tmplconfig.PatternsForFile(relPath, cfg)
	candidates := dispatch(source, patterns)

	accepted, filtered := resolveConflicts(candidates)

	result := &engine.FileResult{
		Path:     relPath,
		Accepted: accepted,
		Filtered: filtered,
	}

	if len(accepted) == 0 {
		return result, nil
	}

	rewritten := applyReplacements(source, accepted, opts.PlaceholderStyle)
	result.Changed = rewritten != source
	if result.Changed {
		result.Original = source
		result.Rewritten = rewritten
	}

	if opts.DryRun || !result.Changed {
		return result, nil
	}

	if err := atomicWrite(absPath, []byte(rewritten), []byte(source)); err != nil {
		return nil, &engine.FileSkip{Path: relPath, Reason: engine.SkipReasonFileWrite, Detail: err.Error()}
	}

	return result, nil
}

// dispatch calls every structural processor whose applies predicate matches
// at least one of the file's Patterns, passing the full Pattern list so each
// processor filters by Context itself.
func dispatch(source string, patterns []tmplconfig.Pattern) []engine.Candidate {
	var candidates []engine.Candidate
	for _, p := range processors {
		needed := false
		for _, pat := range patterns {
			if p.applies(pat.Context) {
				needed = true
				break
			}
		}
		if !needed {
			continue
		}
		candidates = append(candidates, p.fn(source, patterns)...)
	}
	return candidates
}

// resolveConflicts stable-sorts candidates, then applies accept-first
// overlap rejection, allowMultiple quota enforcement, and a belt-and-braces
// existing-placeholder re-check. Skip regions are not re-checked here: only
// the processors' own skip-region filtering applies.
func resolveConflicts(candidates []engine.Candidate) ([]engine.Candidate, map[engine.FilterReason]int) {
	filtered := make(map[engine.FilterReason]int)

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].StartIndex != candidates[j].StartIndex {
			return candidates[i].StartIndex < candidates[j].StartIndex
		}
		if candidates[i].EndIndex != candidates[j].EndIndex {
			return candidates[i].EndIndex > candidates[j].EndIndex
		}
		return candidates[i].PatternIndex < candidates[j].PatternIndex
	})

	var accepted []engine.Candidate
	quotaUsed := make(map[int]bool) // PatternIndex -> already contributed
	lastAcceptedEnd := -1

	for _, c := range candidates {
		if placeholder.HasAnyPlaceholder(c.OriginalText) {
			filtered[engine.FilterReasonExistingPlaceholder]++
			continue
		}
		if c.StartIndex < lastAcceptedEnd {
			filtered[engine.FilterReasonOverlap]++
			continue
		}
		if !c.AllowMultiple && quotaUsed[c.PatternIndex] {
			filtered[engine.FilterReasonAllowMultipleQuota]++
			continue
		}
		accepted = append(accepted, c)
		quotaUsed[c.PatternIndex] = true
		lastAcceptedEnd = c.EndIndex
	}

	return accepted, filtered
}

// applyReplacements splices every accepted Candidate's span with its
// formatted placeholder token, applying replacements in descending
// StartIndex order so earlier offsets remain valid throughout.
func applyReplacements(source string, accepted []engine.Candidate, style engine.PlaceholderStyle) string {
	ordered := make([]engine.Candidate, len(accepted))
	copy(ordered, accepted)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartIndex > ordered[j].StartIndex
	})

	result := []byte(source)
	for _, c := range ordered {
		token := placeholder.Format(c.Placeholder, style)
		result = append(result[:c.StartIndex], append([]byte(token), result[c.EndIndex:]...)...)
	}
	return string(result)
}

// atomicWrite writes data to a temporary sibling of path and renames it into
// place. original is
// unused for correctness but kept so the idempotency short-circuit (a
// no-op write when content is unchanged) stays obvious at the call site via
// a content hash comparison, skipping the write entirely when rewritten
// equals the on-disk content.
func atomicWrite(path string, data, original []byte) error {
	if xxh3.Hash(data) == xxh3.Hash(original) {
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".templatize-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(tmpPath, info.Mode()); err != nil {
			slog.Warn("preserving file mode failed", "path", path, "error", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
