// Package tmplconfig parses, validates, and normalizes the templatize
// configuration file (".templatize.json" by convention) and maps file paths
// to the ordered rule set that applies to them.
package tmplconfig

import "github.com/templatize/templatize/internal/engine"

// SupportedVersion is the only accepted value for Config.Version.
const SupportedVersion = "1.0"

// Pattern is a single detection rule: where to look (Selector or Path,
// depending on Context) and what placeholder to emit there.
type Pattern struct {
	// Context selects the processor and, via an optional "#suffix",
	// narrows the structural class being matched.
	Context engine.Context `json:"context"`

	// Selector is the processor-specific expression used by every context
	// except application/json: a dotted "frontmatter."-prefixed path or a
	// heading-level tag ("h1".."h6", comma-separated) or a literal tag
	// ("code", "inline-code", "link", "image", "p") for Markdown; a CSS
	// selector for HTML; a CSS-like element tag selector for JSX.
	Selector string `json:"selector,omitempty"`

	// Path is the JSONPath expression used only when Context is
	// application/json (e.g. "$.name", "$.items[0].title", "$.*").
	Path string `json:"path,omitempty"`

	// Attribute names which attribute's value to extract. Required when
	// Context is text/html#attribute or text/jsx#attribute; ignored
	// otherwise.
	Attribute string `json:"attribute,omitempty"`

	// Placeholder is the identifier to substitute at matched locations. It
	// must match [A-Z][A-Z0-9_]*.
	Placeholder string `json:"placeholder"`

	// AllowMultiple controls whether more than one Candidate may be
	// accepted from this Pattern within a single file. A nil value means
	// "unset"; the effective default is true (see AllowsMultiple).
	AllowMultiple *bool `json:"allowMultiple,omitempty"`
}

// AllowsMultiple returns the effective AllowMultiple value: true when unset.
func (p Pattern) AllowsMultiple() bool {
	return p.AllowMultiple == nil || *p.AllowMultiple
}

// Config is the top-level configuration type parsed from a .templatize.json
// file.
type Config struct {
	// Version must equal SupportedVersion ("1.0").
	Version string `json:"version"`

	// AutoDetect is a required boolean that is validated but not read by
	// any processor: matches are entirely config-driven, and no inferred
	// candidates are offered whatever its value.
	AutoDetect bool `json:"autoDetect"`

	// Rules maps a file-selector key (a literal filename, a literal
	// relative path, or an extension glob like "*.jsx") to an ordered list
	// of Patterns. Pattern order within a list is significant: earlier
	// Patterns win when two Patterns compete for the same span.
	Rules map[string][]Pattern `json:"rules"`
}

// DefaultConfigFileName is the conventional name of the config file at the
// source root.
const DefaultConfigFileName = ".templatize.json"
