package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templatize/templatize/internal/config"
	"github.com/templatize/templatize/internal/engine"
)

// resetFlags restores the shared root command's flag values to their
// defaults when the test ends, so later tests that reuse rootCmd do not
// inherit this test's --dir, --style, --dry-run or --verbose.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		*flagValues = config.FlagValues{Dir: ".", PlaceholderStyle: "unicode"}
	})
}

func TestConvertCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "convert" {
			found = true
			break
		}
	}
	assert.True(t, found, "convert subcommand must be registered on root command")
}

func TestConvert_DryRunReportsWithoutWriting(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".templatize.json"), []byte(`{
		"version": "1.0",
		"autoDetect": false,
		"rules": {
			"package.json": [
				{"context": "application/json", "path": "$.name", "placeholder": "PROJECT_NAME"}
			]
		}
	}`), 0o644))
	original := `{"name": "widget"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(original), 0o644))

	rootCmd.SetArgs([]string{"convert", "--dir", root, "--dry-run"})
	resetFlags(t)
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(engine.ExitSuccess), code)
	assert.Contains(t, buf.String(), "PROJECT_NAME")

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestConvert_VerboseIncludesUnifiedDiff(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".templatize.json"), []byte(`{
		"version": "1.0",
		"autoDetect": false,
		"rules": {
			"package.json": [
				{"context": "application/json", "path": "$.name", "placeholder": "PROJECT_NAME"}
			]
		}
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name": "widget"}`+"\n"), 0o644))

	rootCmd.SetArgs([]string{"convert", "--dir", root, "--dry-run", "--verbose"})
	resetFlags(t)
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(engine.ExitSuccess), code)
	assert.Contains(t, buf.String(), "-{\"name\": \"widget\"}")
	assert.Contains(t, buf.String(), "+{\"name\": \"⦃PROJECT_NAME⦄\"}")
}

func TestConvert_InvalidStyleReturnsError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".templatize.json"), []byte(`{
		"version": "1.0",
		"autoDetect": false,
		"rules": {}
	}`), 0o644))

	rootCmd.SetArgs([]string{"convert", "--dir", root, "--style", "bogus"})
	resetFlags(t)
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code := Execute()
	assert.Equal(t, int(engine.ExitError), code)
}

func TestConvert_MissingConfigReturnsError(t *testing.T) {
	root := t.TempDir()

	rootCmd.SetArgs([]string{"convert", "--dir", root})
	resetFlags(t)
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code := Execute()
	assert.Equal(t, int(engine.ExitError), code)
}
