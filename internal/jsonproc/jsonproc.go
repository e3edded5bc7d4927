// Package jsonproc implements the application/json structural processor:
// it evaluates JSONPath-subset expressions against a comment-stripped JSON
// document and reports the original-source byte span of each matched
// string value.
package jsonproc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/placeholder"
	"github.com/templatize/templatize/internal/skipregion"
	"github.com/templatize/templatize/internal/tmplconfig"
)

// Process evaluates every Pattern whose Context is engine.ContextJSON
// against source, a JSON or JSONC document, and returns every accepted
// Candidate.
//
// Malformed JSON yields zero candidates and no error: the converter
// degrades rather than aborting.
func Process(source string, patterns []tmplconfig.Pattern) []engine.Candidate {
	stripped := jsonc.ToJSON([]byte(source))

	var tree any
	if err := json.Unmarshal(stripped, &tree); err != nil {
		return nil
	}

	var candidates []engine.Candidate
	for patternIndex, pat := range patterns {
		if pat.Context != engine.ContextJSON {
			continue
		}
		nodes, err := resolvePath(tree, pat.Path)
		if err != nil {
			// Invalid JSONPath is silently skipped at the Pattern level.
			continue
		}

		for _, value := range nodes {
			str, ok := value.(string)
			if !ok || str == "" {
				continue
			}
			cand, ok := locateCandidate(source, str, pat, patternIndex)
			if !ok {
				continue
			}
			candidates = append(candidates, cand)
		}
	}

	return candidates
}

// locateCandidate finds str's first JSON-quoted occurrence in the original
// (un-stripped) source and builds the Candidate for it, applying the
// existing-placeholder and skip-region filters.
func locateCandidate(source, str string, pat tmplconfig.Pattern, patternIndex int) (engine.Candidate, bool) {
	quoted, err := json.Marshal(str)
	if err != nil {
		return engine.Candidate{}, false
	}

	idx := strings.Index(source, string(quoted))
	if idx == -1 {
		return engine.Candidate{}, false
	}

	// The replacement span is the interior of the quotes.
	start := idx + 1
	end := idx + len(quoted) - 1

	if placeholder.HasAnyPlaceholder(str) {
		return engine.Candidate{}, false
	}
	if skipregion.IsInSkipRegion(source, start, end, skipregion.SyntaxCComment) {
		return engine.Candidate{}, false
	}

	return engine.Candidate{
		Placeholder:   pat.Placeholder,
		OriginalText:  source[start:end],
		StartIndex:    start,
		EndIndex:      end,
		Context:       engine.ContextJSON,
		Processor:     engine.ProcessorJSON,
		Provenance:    pat.Path,
		PatternIndex:  patternIndex,
		AllowMultiple: pat.AllowsMultiple(),
	}, true
}

// resolvePath evaluates a JSONPath-subset expression ("$.x.y", "[n]", "[*]")
// against a generically-decoded JSON tree and returns every matched leaf
// value. Supported grammar:
//
//	$                root
//	.name            object member access
//	[n]              array index
//	[*]              array wildcard, flattening matches from every element
//	.*               object wildcard, flattening matches from every member
func resolvePath(tree any, path string) ([]any, error) {
	tokens, err := tokenizePath(path)
	if err != nil {
		return nil, err
	}
	return walk([]any{tree}, tokens)
}

type pathToken struct {
	field      string // set for ".name" tokens
	index      int    // set for "[n]" tokens
	isIndex    bool
	isWildcard bool // set for "[*]" and ".*" tokens
}

func tokenizePath(path string) ([]pathToken, error) {
	if !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("jsonpath must start with $: %q", path)
	}
	rest := path[1:]

	var tokens []pathToken
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end == -1 {
				end = len(rest)
			}
			name := rest[:end]
			if name == "" {
				return nil, fmt.Errorf("empty field name in jsonpath: %q", path)
			}
			if name == "*" {
				tokens = append(tokens, pathToken{isWildcard: true})
			} else {
				tokens = append(tokens, pathToken{field: name})
			}
			rest = rest[end:]
		case '[':
			close := strings.IndexByte(rest, ']')
			if close == -1 {
				return nil, fmt.Errorf("unterminated [ in jsonpath: %q", path)
			}
			inner := rest[1:close]
			if inner == "*" {
				tokens = append(tokens, pathToken{isWildcard: true})
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil {
					return nil, fmt.Errorf("invalid array index %q in jsonpath: %q", inner, path)
				}
				tokens = append(tokens, pathToken{index: n, isIndex: true})
			}
			rest = rest[close+1:]
		default:
			return nil, fmt.Errorf("unexpected character %q in jsonpath: %q", rest[0], path)
		}
	}
	return tokens, nil
}

// walk applies tokens in order against a frontier of candidate nodes,
// flattening wildcard matches as it goes.
func walk(frontier []any, tokens []pathToken) ([]any, error) {
	for _, tok := range tokens {
		var next []any
		for _, node := range frontier {
			switch {
			case tok.isWildcard:
				switch v := node.(type) {
				case []any:
					next = append(next, v...)
				case map[string]any:
					for _, child := range v {
						next = append(next, child)
					}
				}
			case tok.isIndex:
				arr, ok := node.([]any)
				if !ok || tok.index < 0 || tok.index >= len(arr) {
					continue
				}
				next = append(next, arr[tok.index])
			default:
				obj, ok := node.(map[string]any)
				if !ok {
					continue
				}
				if child, present := obj[tok.field]; present {
					next = append(next, child)
				}
			}
		}
		frontier = next
	}
	return frontier, nil
}
