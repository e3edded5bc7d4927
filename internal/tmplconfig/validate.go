package tmplconfig

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/placeholder"
)

// recognizedContexts is the authoritative dispatch table: every Pattern's
// context must be one of these values.
var recognizedContexts = map[engine.Context]bool{
	engine.ContextJSON:              true,
	engine.ContextMarkdown:          true,
	engine.ContextMarkdownHeading:   true,
	engine.ContextMarkdownParagraph: true,
	engine.ContextHTML:              true,
	engine.ContextHTMLAttribute:     true,
	engine.ContextJSX:               true,
	engine.ContextJSXText:           true,
	engine.ContextJSXAttribute:      true,
	engine.ContextPlain:             true,
}

// validateRaw walks the generically-decoded JSON document (map[string]any)
// and returns every schema violation found, each carrying the dotted key
// path of the offending field. It does not stop at the first problem.
func validateRaw(raw map[string]any) engine.ConfigValidationErrors {
	var errs engine.ConfigValidationErrors

	versionVal, hasVersion := raw["version"]
	if !hasVersion {
		errs = append(errs, fieldErr("version", "required field is missing"))
	} else if v, ok := versionVal.(string); !ok {
		errs = append(errs, fieldErr("version", "must be a string"))
	} else if v != SupportedVersion {
		errs = append(errs, fieldErr("version", fmt.Sprintf("unsupported version %q (expected %q)", v, SupportedVersion)))
	}

	autoDetectVal, hasAutoDetect := raw["autoDetect"]
	if !hasAutoDetect {
		errs = append(errs, fieldErr("autoDetect", "required field is missing"))
	} else if _, ok := autoDetectVal.(bool); !ok {
		errs = append(errs, fieldErr("autoDetect", "must be a boolean"))
	}

	rulesVal, hasRules := raw["rules"]
	if !hasRules {
		errs = append(errs, fieldErr("rules", "required field is missing"))
		return errs
	}
	rulesObj, ok := rulesVal.(map[string]any)
	if !ok {
		errs = append(errs, fieldErr("rules", "must be an object mapping file selectors to pattern lists"))
		return errs
	}

	keys := make([]string, 0, len(rulesObj))
	for k := range rulesObj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := fmt.Sprintf("rules.%s", key)
		listVal := rulesObj[key]
		list, ok := listVal.([]any)
		if !ok {
			errs = append(errs, fieldErr(field, "must be an array of patterns"))
			continue
		}
		if key != "" && (len(key) > 0 && key[0] == '*') {
			// Extension-glob key: confirm it is at least syntactically valid.
			if !doublestar.ValidatePattern(key) {
				errs = append(errs, fieldErr(field, "is not a valid glob pattern"))
			}
		}
		for i, patVal := range list {
			patField := fmt.Sprintf("%s[%d]", field, i)
			patObj, ok := patVal.(map[string]any)
			if !ok {
				errs = append(errs, fieldErr(patField, "must be an object"))
				continue
			}
			errs = append(errs, validatePatternRaw(patField, patObj)...)
		}
	}

	return errs
}

// validatePatternRaw validates a single Pattern, decoded generically, and
// returns every violation found.
func validatePatternRaw(field string, pat map[string]any) engine.ConfigValidationErrors {
	var errs engine.ConfigValidationErrors

	ctxVal, hasContext := pat["context"]
	var ctx engine.Context
	if !hasContext {
		errs = append(errs, fieldErr(field+".context", "required field is missing"))
	} else if s, ok := ctxVal.(string); !ok {
		errs = append(errs, fieldErr(field+".context", "must be a string"))
	} else {
		ctx = engine.Context(s)
		if !recognizedContexts[ctx] {
			errs = append(errs, fieldErr(field+".context", fmt.Sprintf("unrecognized context %q", s)))
		}
	}

	placeholderVal, hasPlaceholder := pat["placeholder"]
	if !hasPlaceholder {
		errs = append(errs, fieldErr(field+".placeholder", "required field is missing"))
	} else if s, ok := placeholderVal.(string); !ok {
		errs = append(errs, fieldErr(field+".placeholder", "must be a string"))
	} else if !placeholder.IdentifierRegexp.MatchString(s) {
		errs = append(errs, fieldErr(field+".placeholder", fmt.Sprintf("%q does not match [A-Z][A-Z0-9_]*", s)))
	}

	if v, present := pat["allowMultiple"]; present {
		if _, ok := v.(bool); !ok {
			errs = append(errs, fieldErr(field+".allowMultiple", "must be a boolean"))
		}
	}

	if v, present := pat["attribute"]; present {
		if _, ok := v.(string); !ok {
			errs = append(errs, fieldErr(field+".attribute", "must be a string"))
		}
	}

	// Selector/path presence depends on context; skip this check entirely
	// if context itself was invalid (already reported above).
	if !hasContext || !recognizedContexts[ctx] {
		return errs
	}

	switch ctx {
	case engine.ContextJSON:
		if s, ok := pat["path"].(string); !ok || s == "" {
			errs = append(errs, fieldErr(field+".path", "required non-empty JSONPath string for application/json context"))
		}
	case engine.ContextHTMLAttribute, engine.ContextJSXAttribute:
		if s, ok := pat["selector"].(string); !ok || s == "" {
			errs = append(errs, fieldErr(field+".selector", "required non-empty selector string"))
		}
		if s, ok := pat["attribute"].(string); !ok || s == "" {
			errs = append(errs, fieldErr(field+".attribute", "required non-empty attribute name for attribute context"))
		}
	case engine.ContextPlain:
		// No selector/path required; ContextPlain never produces candidates.
	default:
		if s, ok := pat["selector"].(string); !ok || s == "" {
			errs = append(errs, fieldErr(field+".selector", "required non-empty selector string"))
		}
	}

	return errs
}

func fieldErr(field, message string) engine.ConfigValidationError {
	return engine.ConfigValidationError{Field: field, Message: message}
}
