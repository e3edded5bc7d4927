package jsonproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templatize/templatize/internal/engine"
	"github.com/templatize/templatize/internal/tmplconfig"
)

func TestProcess_SimpleField(t *testing.T) {
	t.Parallel()

	source := `{"name": "my-project", "version": "1.0.0"}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "PROJECT_NAME"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "my-project", candidates[0].OriginalText)
	assert.Equal(t, "PROJECT_NAME", candidates[0].Placeholder)
	assert.Equal(t, source[candidates[0].StartIndex:candidates[0].EndIndex], "my-project")
}

func TestProcess_ArrayIndex(t *testing.T) {
	t.Parallel()

	source := `{"authors": ["Alice", "Bob"]}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.authors[0]", Placeholder: "AUTHOR"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Alice", candidates[0].OriginalText)
}

func TestProcess_Wildcard(t *testing.T) {
	t.Parallel()

	source := `{"scripts": {"build": "make build", "test": "make test"}}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.scripts.*", Placeholder: "SCRIPT", AllowMultiple: boolPtr(true)},
	}

	candidates := Process(source, patterns)
	assert.Len(t, candidates, 2)
}

func TestProcess_MalformedJSONYieldsNoCandidates(t *testing.T) {
	t.Parallel()

	candidates := Process(`{"name": `, []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "X"},
	})
	assert.Nil(t, candidates)
}

func TestProcess_InvalidJSONPathSkipsPatternOnly(t *testing.T) {
	t.Parallel()

	source := `{"name": "ok"}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "name", Placeholder: "BAD"},
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "GOOD"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "GOOD", candidates[0].Placeholder)
}

func TestProcess_StripsCommentsForParsing(t *testing.T) {
	t.Parallel()

	source := "{\n  // the project name\n  \"name\": \"widget\"\n}"
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "NAME"},
	}

	candidates := Process(source, patterns)
	require.Len(t, candidates, 1)
	assert.Equal(t, "widget", candidates[0].OriginalText)
}

func TestProcess_SkipsEmptyStringValues(t *testing.T) {
	t.Parallel()

	source := `{"name": ""}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "NAME"},
	}

	assert.Nil(t, Process(source, patterns))
}

func TestProcess_SkipsAlreadyPlaceholderedValue(t *testing.T) {
	t.Parallel()

	source := `{"name": "⦃PROJECT_NAME⦄"}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextJSON, Path: "$.name", Placeholder: "PROJECT_NAME"},
	}

	assert.Nil(t, Process(source, patterns))
}

func TestProcess_IgnoresNonJSONContextPatterns(t *testing.T) {
	t.Parallel()

	source := `{"name": "widget"}`
	patterns := []tmplconfig.Pattern{
		{Context: engine.ContextMarkdown, Selector: "p", Placeholder: "X"},
	}

	assert.Nil(t, Process(source, patterns))
}

func boolPtr(b bool) *bool { return &b }
