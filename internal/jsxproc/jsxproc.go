// Package jsxproc implements the text/jsx structural processor and its
// #text and #attribute refinements: it parses a JSX/TSX source file with
// tree-sitter and reports the original-source byte span of string-literal
// content selected by a CSS-like element selector. It never templatizes
// identifiers, property names, or expression code -- only string-literal
// content.
package jsxproc

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/placeholder"
	"github.com/templatize/templatize/internal/skipregion"
	"github.com/templatize/templatize/internal/tmplconfig"
)

var tsxLanguage = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())

// elementSelector is a parsed "tag" or "tag[attr=\"value\"]" selector.
type elementSelector struct {
	tag       string
	attrName  string
	attrValue string
	hasAttr   bool
}

func parseSelector(raw string) elementSelector {
	sel := elementSelector{tag: raw}
	open := strings.IndexByte(raw, '[')
	if open == -1 || !strings.HasSuffix(raw, "]") {
		return sel
	}
	sel.tag = raw[:open]
	inner := raw[open+1 : len(raw)-1]
	eq := strings.IndexByte(inner, '=')
	if eq == -1 {
		return sel
	}
	sel.hasAttr = true
	sel.attrName = strings.TrimSpace(inner[:eq])
	sel.attrValue = strings.Trim(strings.TrimSpace(inner[eq+1:]), `"'`)
	return sel
}

func (s elementSelector) matches(tag string, attrs map[string]string) bool {
	if s.tag != "" && s.tag != tag {
		return false
	}
	if s.hasAttr {
		v, ok := attrs[s.attrName]
		if !ok || v != s.attrValue {
			return false
		}
	}
	return true
}

// Process evaluates every Pattern whose Context is a JSX context against
// source and returns every accepted Candidate. A parser or grammar
// failure yields zero candidates for the file.
func Process(source string, patterns []tmplconfig.Pattern) []engine.Candidate {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tsxLanguage); err != nil {
		return nil
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil
	}

	elements := collectJSXElements(root, src)

	var candidates []engine.Candidate
	for patternIndex, pat := range patterns {
		switch pat.Context {
		case engine.ContextJSX, engine.ContextJSXText:
			// Bare text/jsx and its explicit #text refinement both select
			// JSX text children.
			candidates = append(candidates, resolveJSXText(elements, pat, patternIndex, source)...)
		case engine.ContextJSXAttribute:
			candidates = append(candidates, resolveJSXAttribute(elements, pat, patternIndex, source)...)
		}
	}

	return candidates
}

// jsxElement is a flattened view of one jsx_element / jsx_self_closing_element
// node: its tag name, its attribute values, and (for paired elements) its
// text children.
type jsxElement struct {
	tag       string
	attrs     map[string]string
	attrNodes map[string]*tree_sitter.Node // attribute name -> the string-literal value node
	textNodes []*tree_sitter.Node          // jsx_text children, in document order
}

func collectJSXElements(root *tree_sitter.Node, src []byte) []jsxElement {
	var out []jsxElement
	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "jsx_element":
			opening := n.ChildByFieldName("open_tag")
			if opening == nil {
				opening = firstChildOfKind(n, "jsx_opening_element")
			}
			if opening == nil {
				return true
			}
			el := buildElement(opening, src)
			el.textNodes = collectDirectTextChildren(n)
			out = append(out, el)
		case "jsx_self_closing_element":
			el := buildElement(n, src)
			out = append(out, el)
		}
		return true
	})
	return out
}

func buildElement(opening *tree_sitter.Node, src []byte) jsxElement {
	el := jsxElement{attrs: map[string]string{}, attrNodes: map[string]*tree_sitter.Node{}}
	nameNode := opening.ChildByFieldName("name")
	if nameNode != nil {
		el.tag = nodeText(nameNode, src)
	}
	count := opening.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := opening.NamedChild(i)
		if child == nil || child.Kind() != "jsx_attribute" {
			continue
		}
		nameN := child.ChildByFieldName("name")
		valueN := child.ChildByFieldName("value")
		if nameN == nil {
			continue
		}
		attrName := nodeText(nameN, src)
		if valueN == nil {
			continue
		}
		if valueN.Kind() == "string" {
			if frag := firstChildOfKind(valueN, "string_fragment"); frag != nil {
				el.attrs[attrName] = nodeText(frag, src)
				el.attrNodes[attrName] = frag
			}
		}
	}
	return el
}

func collectDirectTextChildren(jsxElementNode *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	count := jsxElementNode.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := jsxElementNode.NamedChild(i)
		if child != nil && child.Kind() == "jsx_text" {
			out = append(out, child)
		}
	}
	return out
}

func resolveJSXText(elements []jsxElement, pat tmplconfig.Pattern, patternIndex int, source string) []engine.Candidate {
	sel := parseSelector(pat.Selector)
	var out []engine.Candidate
	for _, el := range elements {
		if !sel.matches(el.tag, el.attrs) {
			continue
		}
		for _, tn := range el.textNodes {
			raw := nodeText(tn, []byte(source))
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			offset := strings.Index(raw, trimmed)
			start := int(tn.StartByte()) + offset
			end := start + len(trimmed)
			if c, ok := buildCandidate(trimmed, start, end, pat, patternIndex, "jsx-text:"+el.tag, source); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func resolveJSXAttribute(elements []jsxElement, pat tmplconfig.Pattern, patternIndex int, source string) []engine.Candidate {
	if pat.Attribute == "" {
		return nil
	}
	sel := parseSelector(pat.Selector)
	var out []engine.Candidate
	for _, el := range elements {
		if !sel.matches(el.tag, el.attrs) {
			continue
		}
		node, ok := el.attrNodes[pat.Attribute]
		if !ok {
			continue
		}
		val := el.attrs[pat.Attribute]
		if val == "" {
			continue
		}
		start, end := int(node.StartByte()), int(node.EndByte())
		if c, ok := buildCandidate(val, start, end, pat, patternIndex, "jsx-attr:"+el.tag+"."+pat.Attribute, source); ok {
			out = append(out, c)
		}
	}
	return out
}

func buildCandidate(originalText string, start, end int, pat tmplconfig.Pattern, patternIndex int, provenance, source string) (engine.Candidate, bool) {
	if placeholder.HasAnyPlaceholder(originalText) {
		return engine.Candidate{}, false
	}
	if skipregion.IsInSkipRegion(source, start, end, skipregion.SyntaxCComment) {
		return engine.Candidate{}, false
	}
	return engine.Candidate{
		Placeholder:   pat.Placeholder,
		OriginalText:  originalText,
		StartIndex:    start,
		EndIndex:      end,
		Context:       pat.Context,
		Processor:     engine.ProcessorJSX,
		Provenance:    provenance,
		PatternIndex:  patternIndex,
		AllowMultiple: pat.AllowsMultiple(),
	}, true
}

func nodeText(n *tree_sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

func firstChildOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// walk performs a depth-first traversal of the tree, calling visit on every
// node. Traversal into a node's children stops if visit returns false.
func walk(n *tree_sitter.Node, visit func(*tree_sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		walk(n.NamedChild(i), visit)
	}
}
