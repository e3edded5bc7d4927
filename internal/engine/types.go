// Package engine defines the central data types shared across every stage of
// the templatize converter: the config layer, the structural processors, and
// the rewriter all operate on the same DTOs defined here.
//
// This package has zero external dependencies -- only stdlib types. It
// contains only data types and lightweight helpers; no parsing or rewriting
// logic lives here.
package engine

// Context is the MIME-like tag on a Pattern that selects which processor
// handles it and, via an optional "#suffix", narrows the structural class
// being matched. The authoritative enumeration below is the dispatch table:
// every Pattern's Context must be one of these values.
type Context string

const (
	// ContextJSON selects the JSON processor. JSONPath selectors resolve
	// against the parsed (comment-stripped) document tree.
	ContextJSON Context = "application/json"

	// ContextMarkdown selects the Markdown processor with no structural
	// refinement. Selectors are dispatched by shape (frontmatter.*, h1..h6,
	// code, inline-code, link, image, p) regardless of this being the bare
	// or "#paragraph" form -- the two are treated as aliases.
	ContextMarkdown Context = "text/markdown"

	// ContextMarkdownHeading selects heading-level selectors (h1..h6,
	// comma-separated) within the Markdown processor.
	ContextMarkdownHeading Context = "text/markdown#heading"

	// ContextMarkdownParagraph is an alias of ContextMarkdown reserved for
	// configs that want to be explicit about targeting paragraph blocks.
	ContextMarkdownParagraph Context = "text/markdown#paragraph"

	// ContextHTML selects the HTML processor; candidates are an element's
	// visible text content.
	ContextHTML Context = "text/html"

	// ContextHTMLAttribute selects the HTML processor in attribute mode;
	// the Pattern must also set Attribute.
	ContextHTMLAttribute Context = "text/html#attribute"

	// ContextJSX selects the JSX/TSX processor. Bare ContextJSX patterns
	// select JSX text children, exactly like ContextJSXText; plain
	// string-literal expressions outside JSX attributes or text are not
	// scanned.
	ContextJSX Context = "text/jsx"

	// ContextJSXText selects JSX text children (text nodes between tags).
	ContextJSXText Context = "text/jsx#text"

	// ContextJSXAttribute selects JSX attribute string-literal values.
	ContextJSXAttribute Context = "text/jsx#attribute"

	// ContextPlain is reserved for future plain-text matching; no processor
	// currently claims it, so Patterns with this Context never produce
	// candidates.
	ContextPlain Context = "text/plain"
)

// Processor identifies which structural processor produced a Candidate. Used
// for diagnostics and to group dry-run output.
type Processor string

const (
	ProcessorJSON     Processor = "json"
	ProcessorMarkdown Processor = "markdown"
	ProcessorHTML     Processor = "html"
	ProcessorJSX      Processor = "jsx"
)

// PlaceholderStyle selects the delimiter style used when emitting a
// placeholder token. The zero value is StyleUnicode, the default style.
type PlaceholderStyle int

const (
	// StyleUnicode emits ⦃NAME⦄. This is the default style.
	StyleUnicode PlaceholderStyle = iota
	// StyleMustache emits {{NAME}}.
	StyleMustache
	// StyleDollar emits $NAME$.
	StyleDollar
	// StylePercent emits %NAME%.
	StylePercent
)

// Candidate is a single proposed textual substitution emitted by a
// processor, prior to conflict resolution. StartIndex and EndIndex are
// half-open byte offsets into the unmodified source text; a processor never
// rebases these offsets.
type Candidate struct {
	// Placeholder is the identifier to substitute, e.g. "PROJECT_TITLE".
	Placeholder string

	// OriginalText is the exact source bytes this Candidate would replace.
	OriginalText string

	// StartIndex is the inclusive byte offset of the span in the source.
	StartIndex int

	// EndIndex is the exclusive byte offset of the span in the source.
	EndIndex int

	// Context echoes the Context of the Pattern that produced this
	// Candidate.
	Context Context

	// Processor identifies which structural processor produced this
	// Candidate.
	Processor Processor

	// Provenance carries processor-specific diagnostic information: the
	// selector or JSONPath expression used, the JSONPath node path, or the
	// attribute name, depending on Processor.
	Provenance string

	// PatternIndex is the index of the originating Pattern within its rule
	// list, used to break ties when two Patterns compete for the same span
	// (the earlier Pattern wins).
	PatternIndex int

	// AllowMultiple echoes the originating Pattern's AllowMultiple flag, so
	// the converter can enforce the single-candidate-per-Pattern quota
	// without re-consulting the config.
	AllowMultiple bool
}

// FilterReason names why a Candidate was not accepted. Used for the dry-run
// reporter's per-reason filter counts.
type FilterReason string

const (
	// FilterReasonOverlap means a higher-priority Candidate already claimed
	// an overlapping span.
	FilterReasonOverlap FilterReason = "overlap"

	// FilterReasonExistingPlaceholder means OriginalText already contains a
	// recognized placeholder token in any of the four delimiter styles.
	FilterReasonExistingPlaceholder FilterReason = "existing-placeholder"

	// FilterReasonSkipRegion means the candidate span lies inside an open
	// skip region.
	FilterReasonSkipRegion FilterReason = "skip-region"

	// FilterReasonAllowMultipleQuota means the originating Pattern has
	// AllowMultiple:false and has already contributed one accepted
	// Candidate for this file.
	FilterReasonAllowMultipleQuota FilterReason = "allow-multiple-quota"
)

// SkipReason names why an entire file was skipped by the converter.
type SkipReason string

const (
	SkipReasonFileRead        SkipReason = "file-read"
	SkipReasonFileWrite       SkipReason = "file-write"
	SkipReasonParseFailure    SkipReason = "parse-failure"
	SkipReasonSelectorInvalid SkipReason = "selector-invalid"
	SkipReasonEncodingError   SkipReason = "encoding-error"
)

// ExitCode is the process exit status returned by the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the run completed with no fatal error.
	ExitSuccess ExitCode = 0

	// ExitError indicates a fatal error (for example a missing or invalid
	// config), or a convert run in which no file could be processed.
	ExitError ExitCode = 1
)

// FileSkip records a single file that the converter skipped, along with a
// human-readable reason. Part of Report.FilesSkipped.
type FileSkip struct {
	// Path is the file path relative to sourceRoot.
	Path string

	// Reason is the taxonomy category for the skip.
	Reason SkipReason

	// Detail is a human-readable explanation (e.g. the underlying error
	// message), suitable for display in the dry-run summary.
	Detail string
}

// FileResult holds the accepted Candidates for a single processed file,
// sorted by StartIndex ascending, matching the order a reader scanning the
// file top-to-bottom would encounter them. (The rewriter applies them in the
// reverse, descending order.)
type FileResult struct {
	// Path is the file path relative to sourceRoot.
	Path string

	// Accepted is the list of Candidates that survived conflict resolution
	// and all filters, sorted by StartIndex ascending.
	Accepted []Candidate

	// Filtered counts, by reason, how many Candidates were proposed for
	// this file but rejected.
	Filtered map[FilterReason]int

	// Changed reports whether the file's bytes differ from the source after
	// applying Accepted. A file with zero Accepted candidates is never
	// Changed: files with no Pattern matches transform to themselves
	// unchanged.
	Changed bool

	// Original holds the file's pre-rewrite content. Set only when Changed,
	// so a verbose reporter can render a unified diff without re-reading the
	// file (which, outside DryRun, no longer holds the original bytes).
	Original string

	// Rewritten holds the file's post-rewrite content. Set only when
	// Changed, for the same reason as Original.
	Rewritten string
}

// Report is the aggregate output of one converter run, returned by
// Convert regardless of DryRun.
type Report struct {
	// FilesVisited is the number of files the converter read and attempted
	// to process (successfully or not).
	FilesVisited int

	// FilesSkipped lists every file that could not be processed, each with
	// its category and a human-readable detail string.
	FilesSkipped []FileSkip

	// FileResults lists, for every visited file that produced at least one
	// accepted Candidate, the result of processing it. Files with zero
	// accepted Candidates are omitted since they transform to themselves
	// unchanged. Ordering matches the converter's deterministic file visit
	// order (lexicographic by relative path), not completion order.
	FileResults []FileResult
}

// TotalAccepted sums the accepted Candidate count across every FileResult.
func (r *Report) TotalAccepted() int {
	n := 0
	for _, fr := range r.FileResults {
		n += len(fr.Accepted)
	}
	return n
}

// TotalFiltered sums the filtered Candidate count across every FileResult,
// broken down by reason.
func (r *Report) TotalFiltered() map[FilterReason]int {
	totals := make(map[FilterReason]int)
	for _, fr := range r.FileResults {
		for reason, count := range fr.Filtered {
			totals[reason] += count
		}
	}
	return totals
}
