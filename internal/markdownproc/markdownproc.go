// Package markdownproc implements the text/markdown structural processor
// and its #heading and #paragraph refinements: it parses a Markdown
// document's AST (via goldmark) and its optional YAML frontmatter (via
// yaml.v3), locating the original-source byte span backing each matched
// node.
package markdownproc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	meta "github.com/yuin/goldmark-meta"
	"gopkg.in/yaml.v3"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/placeholder"
	"github.com/templatize/templatize/internal/skipregion"
	"github.com/templatize/templatize/internal/tmplconfig"
)

// md is shared across calls: it is stateless once constructed. The meta.Meta
// extension keeps YAML frontmatter from being misparsed as a thematic break
// or heading by the block parser, so it is wired in even though frontmatter
// values are resolved independently below.
var md = goldmark.New(goldmark.WithExtensions(meta.Meta, extension.GFM))

var frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n`)

// Process evaluates every Pattern whose Context is one of the markdown
// contexts against source and returns every accepted Candidate.
func Process(source string, patterns []tmplconfig.Pattern) []engine.Candidate {
	var candidates []engine.Candidate

	doc := md.Parser().Parse(text.NewReader([]byte(source)))
	byteSource := []byte(source)

	for patternIndex, pat := range patterns {
		if !isMarkdownContext(pat.Context) {
			continue
		}

		switch {
		case strings.HasPrefix(pat.Selector, "frontmatter."):
			if c, ok := resolveFrontmatter(source, pat, patternIndex); ok {
				candidates = append(candidates, c)
			}
		case isHeadingSelector(pat.Selector):
			candidates = append(candidates, resolveHeadings(doc, byteSource, pat, patternIndex)...)
		case pat.Selector == "code":
			candidates = append(candidates, resolveFencedCode(doc, byteSource, pat, patternIndex)...)
		case pat.Selector == "inline-code":
			candidates = append(candidates, resolveInlineCode(doc, byteSource, pat, patternIndex)...)
		case pat.Selector == "link":
			candidates = append(candidates, resolveLink(doc, source, pat, patternIndex)...)
		case pat.Selector == "image":
			candidates = append(candidates, resolveImage(doc, source, pat, patternIndex)...)
		case pat.Selector == "p":
			candidates = append(candidates, resolveParagraphs(doc, byteSource, pat, patternIndex)...)
		}
	}

	return candidates
}

func isMarkdownContext(ctx engine.Context) bool {
	switch ctx {
	case engine.ContextMarkdown, engine.ContextMarkdownHeading, engine.ContextMarkdownParagraph:
		return true
	default:
		return false
	}
}

func isHeadingSelector(selector string) bool {
	if selector == "" {
		return false
	}
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if len(part) != 2 || part[0] != 'h' || part[1] < '1' || part[1] > '6' {
			return false
		}
	}
	return true
}

func headingLevels(selector string) map[int]bool {
	levels := make(map[int]bool)
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part[1:])
		if err != nil {
			continue
		}
		levels[n] = true
	}
	return levels
}

func buildCandidate(originalText string, start, end int, ctx engine.Context, provenance string, pat tmplconfig.Pattern, patternIndex int, source string) (engine.Candidate, bool) {
	if start < 0 || end > len(source) || start >= end {
		return engine.Candidate{}, false
	}
	if placeholder.HasAnyPlaceholder(originalText) {
		return engine.Candidate{}, false
	}
	if skipregion.IsInSkipRegion(source, start, end, skipregion.SyntaxHTMLComment) {
		return engine.Candidate{}, false
	}
	return engine.Candidate{
		Placeholder:   pat.Placeholder,
		OriginalText:  originalText,
		StartIndex:    start,
		EndIndex:      end,
		Context:       pat.Context,
		Processor:     engine.ProcessorMarkdown,
		Provenance:    provenance,
		PatternIndex:  patternIndex,
		AllowMultiple: pat.AllowsMultiple(),
	}, true
}

func resolveHeadings(doc ast.Node, source []byte, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	levels := headingLevels(pat.Selector)
	var out []engine.Candidate

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		h := n.(*ast.Heading)
		if !levels[h.Level] {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		headingText := string(source[first.Start:last.Stop])
		if c, ok := buildCandidate(headingText, first.Start, last.Stop, pat.Context, "heading#"+strconv.Itoa(h.Level), pat, patternIndex, string(source)); ok {
			out = append(out, c)
		}
		return ast.WalkContinue, nil
	})

	return out
}

func resolveFencedCode(doc ast.Node, source []byte, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	var out []engine.Candidate

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		// Exclude the last line's terminator so the closing fence stays on
		// its own line after replacement.
		end := last.Stop
		if end > first.Start && source[end-1] == '\n' {
			end--
		}
		if end > first.Start && source[end-1] == '\r' {
			end--
		}
		codeText := string(source[first.Start:end])
		if c, ok := buildCandidate(codeText, first.Start, end, pat.Context, "fenced-code", pat, patternIndex, string(source)); ok {
			out = append(out, c)
		}
		return ast.WalkContinue, nil
	})

	return out
}

func resolveInlineCode(doc ast.Node, source []byte, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	var out []engine.Candidate

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindCodeSpan {
			return ast.WalkContinue, nil
		}
		first := n.FirstChild()
		last := n.LastChild()
		if first == nil || last == nil {
			return ast.WalkContinue, nil
		}
		firstText, ok1 := first.(*ast.Text)
		lastText, ok2 := last.(*ast.Text)
		if !ok1 || !ok2 {
			return ast.WalkContinue, nil
		}
		start, end := firstText.Segment.Start, lastText.Segment.Stop
		codeText := string(source[start:end])
		if c, ok := buildCandidate(codeText, start, end, pat.Context, "inline-code", pat, patternIndex, string(source)); ok {
			out = append(out, c)
		}
		return ast.WalkContinue, nil
	})

	return out
}

func resolveLink(doc ast.Node, source string, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	return resolveURLNode(doc, source, pat, patternIndex, ast.KindLink, func(dest string) bool {
		return strings.HasPrefix(dest, "http")
	})
}

func resolveImage(doc ast.Node, source string, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	return resolveURLNode(doc, source, pat, patternIndex, ast.KindImage, func(dest string) bool {
		return strings.HasPrefix(dest, "http") || strings.HasPrefix(dest, "/") ||
			strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../")
	})
}

func resolveURLNode(doc ast.Node, source string, pat tmplconfig.Pattern, patternIndex int, kind ast.NodeKind, accept func(string) bool) []engine.Candidate {
	var out []engine.Candidate
	searchFrom := 0

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != kind {
			return ast.WalkContinue, nil
		}
		var dest []byte
		switch v := n.(type) {
		case *ast.Link:
			dest = v.Destination
		case *ast.Image:
			dest = v.Destination
		default:
			return ast.WalkContinue, nil
		}
		destStr := string(dest)
		if destStr == "" || !accept(destStr) {
			return ast.WalkContinue, nil
		}
		idx := strings.Index(source[searchFrom:], destStr)
		if idx == -1 {
			return ast.WalkContinue, nil
		}
		start := searchFrom + idx
		end := start + len(destStr)
		searchFrom = end
		if c, ok := buildCandidate(destStr, start, end, pat.Context, kind.String(), pat, patternIndex, source); ok {
			out = append(out, c)
		}
		return ast.WalkContinue, nil
	})

	return out
}

func resolveParagraphs(doc ast.Node, source []byte, pat tmplconfig.Pattern, patternIndex int) []engine.Candidate {
	var out []engine.Candidate

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindParagraph {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		raw := string(source[first.Start:last.Stop])
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return ast.WalkContinue, nil
		}
		leadTrim := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
		start := first.Start + leadTrim
		end := start + len(trimmed)
		if c, ok := buildCandidate(trimmed, start, end, pat.Context, "paragraph", pat, patternIndex, string(source)); ok {
			out = append(out, c)
		}
		return ast.WalkContinue, nil
	})

	return out
}

// resolveFrontmatter locates the dotted path within the leading YAML
// frontmatter block and reports the span of its value bytes in the
// original source.
func resolveFrontmatter(source string, pat tmplconfig.Pattern, patternIndex int) (engine.Candidate, bool) {
	match := frontmatterPattern.FindStringSubmatchIndex(source)
	if match == nil {
		return engine.Candidate{}, false
	}
	rawStart, rawEnd := match[2], match[3]
	raw := source[rawStart:rawEnd]

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return engine.Candidate{}, false
	}

	dottedPath := strings.TrimPrefix(pat.Selector, "frontmatter.")
	value, ok := resolveDottedPath(doc, strings.Split(dottedPath, "."))
	if !ok {
		return engine.Candidate{}, false
	}
	str, ok := value.(string)
	if !ok || str == "" {
		return engine.Candidate{}, false
	}

	key := dottedPath
	if idx := strings.LastIndex(dottedPath, "."); idx != -1 {
		key = dottedPath[idx+1:]
	}

	start, end, ok := locateYAMLValue(raw, key, str)
	if !ok {
		return engine.Candidate{}, false
	}

	return buildCandidate(str, rawStart+start, rawStart+end, pat.Context, "frontmatter."+dottedPath, pat, patternIndex, source)
}

func resolveDottedPath(doc map[string]any, segments []string) (any, bool) {
	var cur any = doc
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, present := m[seg]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// locateYAMLValue finds "key: \"value\"" first, then "key: value", within
// raw, returning the byte span of value's bytes alone.
func locateYAMLValue(raw, key, value string) (int, int, bool) {
	quoted := key + ": \"" + value + "\""
	if idx := strings.Index(raw, quoted); idx != -1 {
		start := idx + len(key) + 3
		return start, start + len(value), true
	}
	bare := key + ": " + value
	if idx := strings.Index(raw, bare); idx != -1 {
		start := idx + len(key) + 2
		return start, start + len(value), true
	}
	return 0, 0, false
}
