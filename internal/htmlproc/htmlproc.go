// Package htmlproc implements the text/html and text/html#attribute
// structural processors: it parses an HTML document into a DOM, evaluates
// CSS selectors via goquery, and locates each match's original-source byte
// span.
package htmlproc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/placeholder"
	"github.com/templatize/templatize/internal/skipregion"
	"github.com/templatize/templatize/internal/tmplconfig"
)

// Process evaluates every Pattern whose Context is text/html or
// text/html#attribute against source and returns every accepted Candidate.
//
// Parse failures yield zero candidates for the file, matching the
// degrade-rather-than-abort posture used by every structural processor.
func Process(source string, patterns []tmplconfig.Pattern) []engine.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil
	}

	var candidates []engine.Candidate
	searchCursor := make(map[string]int) // per-selector search offset, to avoid re-matching earlier occurrences

	for patternIndex, pat := range patterns {
		switch pat.Context {
		case engine.ContextHTML:
			candidates = append(candidates, resolveText(doc, source, pat, patternIndex, searchCursor)...)
		case engine.ContextHTMLAttribute:
			candidates = append(candidates, resolveAttribute(doc, source, pat, patternIndex, searchCursor)...)
		}
	}

	return candidates
}

func resolveText(doc *goquery.Document, source string, pat tmplconfig.Pattern, patternIndex int, cursor map[string]int) []engine.Candidate {
	var out []engine.Candidate

	doc.Find(pat.Selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		start, end, ok := nextOccurrence(source, text, cursor, "text:"+pat.Selector)
		if !ok {
			return
		}
		if c, ok := buildCandidate(text, start, end, pat, patternIndex, pat.Selector, source); ok {
			out = append(out, c)
		}
	})

	return out
}

func resolveAttribute(doc *goquery.Document, source string, pat tmplconfig.Pattern, patternIndex int, cursor map[string]int) []engine.Candidate {
	if pat.Attribute == "" {
		return nil
	}

	var out []engine.Candidate

	doc.Find(pat.Selector).Each(func(_ int, sel *goquery.Selection) {
		val, exists := sel.Attr(pat.Attribute)
		if !exists || val == "" {
			return
		}
		needle := pat.Attribute + `="` + val + `"`
		key := "attr:" + pat.Selector + ":" + pat.Attribute
		idx := strings.Index(source[cursorAt(cursor, key):], needle)
		if idx == -1 {
			return
		}
		absIdx := cursorAt(cursor, key) + idx
		start := absIdx + len(pat.Attribute) + 2
		end := start + len(val)
		cursor[key] = end

		if c, ok := buildCandidate(val, start, end, pat, patternIndex, pat.Selector+"["+pat.Attribute+"]", source); ok {
			out = append(out, c)
		}
	})

	return out
}

func cursorAt(cursor map[string]int, key string) int {
	return cursor[key]
}

func nextOccurrence(source, needle string, cursor map[string]int, key string) (int, int, bool) {
	from := cursorAt(cursor, key)
	idx := strings.Index(source[from:], needle)
	if idx == -1 {
		return 0, 0, false
	}
	start := from + idx
	end := start + len(needle)
	cursor[key] = end
	return start, end, true
}

func buildCandidate(originalText string, start, end int, pat tmplconfig.Pattern, patternIndex int, provenance, source string) (engine.Candidate, bool) {
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
		Processor:     engine.ProcessorHTML,
		Provenance:    provenance,
		PatternIndex:  patternIndex,
		AllowMultiple: pat.AllowsMultiple(),
	}, true
}
