package config

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templatize/templatize/internal/engine"
)

func TestBindFlags_Defaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	fv := BindFlags(cmd)
	require.NoError(t, cmd.PersistentFlags().Parse(nil))

	assert.Equal(t, ".", fv.Dir)
	assert.Equal(t, "unicode", fv.PlaceholderStyle)
	assert.False(t, fv.DryRun)
	assert.Equal(t, 0, fv.Concurrency)
}

func TestBindFlags_ParsesOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	fv := BindFlags(cmd)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{
		"--dir", "/tmp/project",
		"--style", "mustache",
		"--dry-run",
		"--concurrency", "4",
	}))

	assert.Equal(t, "/tmp/project", fv.Dir)
	assert.Equal(t, "mustache", fv.PlaceholderStyle)
	assert.True(t, fv.DryRun)
	assert.Equal(t, 4, fv.Concurrency)
}

func TestValidateFlags_VerboseAndQuietMutuallyExclusive(t *testing.T) {
	fv := &FlagValues{Dir: t.TempDir(), Verbose: true, Quiet: true}
	err := ValidateFlags(fv)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestValidateFlags_RejectsMissingDir(t *testing.T) {
	fv := &FlagValues{Dir: "/path/does/not/exist"}
	err := ValidateFlags(fv)
	assert.ErrorContains(t, err, "--dir")
}

func TestValidateFlags_RejectsNonDirectory(t *testing.T) {
	file := t.TempDir() + "/notadir"
	require.NoError(t, os.WriteFile(file, []byte("not a directory"), 0o644))

	fv := &FlagValues{Dir: file}
	err := ValidateFlags(fv)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestValidateFlags_RejectsInvalidStyle(t *testing.T) {
	fv := &FlagValues{Dir: t.TempDir(), PlaceholderStyle: "bogus"}
	err := ValidateFlags(fv)
	assert.ErrorContains(t, err, "--style")
}

func TestResolvePlaceholderStyle(t *testing.T) {
	tests := []struct {
		name string
		want engine.PlaceholderStyle
	}{
		{"", engine.StyleUnicode},
		{"unicode", engine.StyleUnicode},
		{"mustache", engine.StyleMustache},
		{"dollar", engine.StyleDollar},
		{"percent", engine.StylePercent},
	}
	for _, tt := range tests {
		got, err := ResolvePlaceholderStyle(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolvePlaceholderStyle_Invalid(t *testing.T) {
	_, err := ResolvePlaceholderStyle("bogus")
	assert.Error(t, err)
}
