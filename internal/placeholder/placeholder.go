// Package placeholder centralizes all placeholder-token emission and
// recognition. Every structural processor calls into this package rather
// than carrying its own delimiter regexes.
//
// Four delimiter styles are supported: unicode ⦃NAME⦄ (the default),
// mustache {{NAME}}, dollar $NAME$, and percent %NAME%. An identifier must
// match [A-Z][A-Z0-9_]*.
package placeholder

import (
	"fmt"
	"regexp"

	"github.com/templatize/templatize/internal/engine"
)

// identifierPattern is the grammar shared by every delimiter style.
const identifierPattern = `[A-Z][A-Z0-9_]*`

// IdentifierRegexp matches a bare placeholder identifier with no delimiters.
var IdentifierRegexp = regexp.MustCompile(`^` + identifierPattern + `$`)

// styleSpec pairs a PlaceholderStyle with the regexp used to recognize it and
// the open/close literals used to emit it. Interior whitespace around the
// identifier is permitted when recognizing ("{{ NAME }}" is recognized) but
// never emitted.
type styleSpec struct {
	open, close string
	recognizer  *regexp.Regexp
}

var styles = map[engine.PlaceholderStyle]styleSpec{
	engine.StyleUnicode: {
		open: "⦃", close: "⦄",
		recognizer: regexp.MustCompile(`⦃\s*(` + identifierPattern + `)\s*⦄`),
	},
	engine.StyleMustache: {
		open: "{{", close: "}}",
		recognizer: regexp.MustCompile(`\{\{\s*(` + identifierPattern + `)\s*\}\}`),
	},
	engine.StyleDollar: {
		open: "$", close: "$",
		recognizer: regexp.MustCompile(`\$\s*(` + identifierPattern + `)\s*\$`),
	},
	engine.StylePercent: {
		open: "%", close: "%",
		recognizer: regexp.MustCompile(`%\s*(` + identifierPattern + `)\s*%`),
	},
}

// allStyles lists every style in a stable order, used when scanning for any
// recognized placeholder form regardless of style.
var allStyles = []engine.PlaceholderStyle{
	engine.StyleUnicode, engine.StyleMustache, engine.StyleDollar, engine.StylePercent,
}

// Format renders identifier wrapped in the delimiters for style. It panics if
// identifier does not match the placeholder identifier grammar or style is
// not one of the four recognized styles -- both are programmer errors since
// callers control both inputs (the config loader validates identifiers
// before any Format call can be reached).
func Format(identifier string, style engine.PlaceholderStyle) string {
	if !IdentifierRegexp.MatchString(identifier) {
		panic(fmt.Sprintf("placeholder: invalid identifier %q", identifier))
	}
	spec, ok := styles[style]
	if !ok {
		panic(fmt.Sprintf("placeholder: unknown style %v", style))
	}
	return spec.open + identifier + spec.close
}

// HasAnyPlaceholder reports whether text contains a recognized placeholder
// token in any of the four delimiter styles. Used by processors to suppress
// re-templatization of text that already carries a placeholder.
func HasAnyPlaceholder(text string) bool {
	for _, style := range allStyles {
		if styles[style].recognizer.MatchString(text) {
			return true
		}
	}
	return false
}

// Occurrence is one recognized placeholder token found by IterPlaceholders,
// with the identifier and its byte span (including delimiters) within the
// scanned text.
type Occurrence struct {
	Identifier string
	Start, End int
}

// IterPlaceholders returns every occurrence of a placeholder token in the
// given delimiter style within text, in left-to-right order.
func IterPlaceholders(text string, style engine.PlaceholderStyle) []Occurrence {
	spec, ok := styles[style]
	if !ok {
		return nil
	}
	matches := spec.recognizer.FindAllSubmatchIndex([]byte(text), -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		out = append(out, Occurrence{
			Identifier: text[m[2]:m[3]],
			Start:      m[0],
			End:        m[1],
		})
	}
	return out
}
