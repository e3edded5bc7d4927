package tmplconfig

import (
	"path/filepath"
	"sort"
)

// PatternsForFile returns the ordered list of Patterns that apply to relPath
// (a slash-separated path relative to the source root), per the config's
// rule-matching order:
//
//  1. an exact match on relPath itself
//  2. an exact match on relPath's base name
//  3. every extension-glob key ("*.ext") that matches the base name, in
//     lexicographic key order
//
// Patterns from an earlier-matching key are ordered before patterns from a
// later-matching key; within a single key, Pattern order is preserved as
// written in the config. A Pattern already added by an earlier key is not
// duplicated if it is also reachable through a later key.
func PatternsForFile(relPath string, cfg *Config) []Pattern {
	if cfg == nil {
		return nil
	}

	base := filepath.Base(relPath)

	var result []Pattern
	seen := make(map[patternKey]bool)

	add := func(patterns []Pattern) {
		for _, p := range patterns {
			k := keyOf(p)
			if seen[k] {
				continue
			}
			seen[k] = true
			result = append(result, p)
		}
	}

	if patterns, ok := cfg.Rules[relPath]; ok {
		add(patterns)
	}
	if base != relPath {
		if patterns, ok := cfg.Rules[base]; ok {
			add(patterns)
		}
	}

	for _, key := range sortedGlobKeys(cfg.Rules) {
		matched, err := filepath.Match(key, base)
		if err != nil || !matched {
			continue
		}
		add(cfg.Rules[key])
	}

	return result
}

// patternKey is a comparable identity for a Pattern, used to deduplicate a
// rule that is reachable through more than one matching selector key.
type patternKey struct {
	context       string
	selector      string
	path          string
	attribute     string
	placeholder   string
	allowMultiple bool
	hasOverride   bool
}

func keyOf(p Pattern) patternKey {
	k := patternKey{
		context:     string(p.Context),
		selector:    p.Selector,
		path:        p.Path,
		attribute:   p.Attribute,
		placeholder: p.Placeholder,
	}
	if p.AllowMultiple != nil {
		k.hasOverride = true
		k.allowMultiple = *p.AllowMultiple
	}
	return k
}

// sortedGlobKeys returns the "*"-prefixed keys of rules in lexicographic
// order, giving deterministic precedence when more than one extension glob
// matches the same file.
func sortedGlobKeys(rules map[string][]Pattern) []string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		if len(k) > 0 && k[0] == '*' {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
