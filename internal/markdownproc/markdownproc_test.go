package markdownproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/tmplconfig"
)

func TestProcess_Heading(t *testing.T) {
	t.Parallel()

	source := "# My Project\n\nSome body text.\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdownHeading, Selector: "h1", Placeholder: "TITLE"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "My Project", candidates[0].OriginalText)
}

func TestProcess_HeadingMultipleLevels(t *testing.T) {
	t.Parallel()

	source := "# One\n\n## Two\n\n### Three\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdownHeading, Selector: "h1,h2", Placeholder: "H", AllowMultiple: boolPtr(true)},
	}

	candidates := Process(source, patterns)
	assert.Len(t, candidates, 2)
}

func TestProcess_FencedCode(t *testing.T) {
	t.Parallel()

	source := "```go\nfmt.Println(\"hi\")\n```\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "code", Placeholder: "SNIPPET"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fmt.Println(\"hi\")", candidates[0].OriginalText)
}

func TestProcess_InlineCode(t *testing.T) {
	t.Parallel()

	source := "Run `make build` to compile.\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "inline-code", Placeholder: "CMD"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "make build", candidates[0].OriginalText)
}

func TestProcess_LinkRequiresHTTP(t *testing.T) {
	t.Parallel()

	source := "See [docs](https://example.com/docs) or [local](./local.md).\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "link", Placeholder: "URL"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://example.com/docs", candidates[0].OriginalText)
}

func TestProcess_ImageAcceptsRootPathRejectsBareRelative(t *testing.T) {
	t.Parallel()

	source := "![logo](/static/logo.png)\n![badge](badge.svg)\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "image", Placeholder: "IMG", AllowMultiple: boolPtr(true)},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "/static/logo.png", candidates[0].OriginalText)
}

func TestProcess_Paragraph(t *testing.T) {
	t.Parallel()

	source := "# Title\n\nThis is the body paragraph.\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdownParagraph, Selector: "p", Placeholder: "BODY"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "This is the body paragraph.", candidates[0].OriginalText)
}

func TestProcess_Frontmatter(t *testing.T) {
	t.Parallel()

	source := "---\ntitle: \"Hello World\"\nauthor: jane\n---\n\n# Body\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "frontmatter.title", Placeholder: "TITLE"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Hello World", candidates[0].OriginalText)
	assert.Equal(t, source[candidates[0].StartIndex:candidates[0].EndIndex], "Hello World")
}

func TestProcess_FrontmatterBareForm(t *testing.T) {
	t.Parallel()

	source := "---\nauthor: jane\n---\n\n# Body\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "frontmatter.author", Placeholder: "AUTHOR"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "jane", candidates[0].OriginalText)
}

func TestProcess_NoFrontmatterYieldsNoCandidate(t *testing.T) {
	t.Parallel()

	source := "# Body\n\nNo frontmatter here.\n"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "frontmatter.title", Placeholder: "TITLE"},
	}

	assert.Nil(t, Process(source, patterns))
}

func boolPtr(b bool) *bool { return &b }
