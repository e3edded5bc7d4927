package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templatize/templatize/internal/report"
	"github.com/templatize/templatize/internal/testutil"
	"github.com/templatize/templatize/internal/tmplconfig"
)

// TestConvert_GoldenFixtures runs Convert end-to-end against a fixture
// source tree under testdata/fixtures and compares the dry-run report
// against the matching file under testdata/golden. Run with -update to
// regenerate a golden file after an intentional output change.
func TestConvert_GoldenFixtures(t *testing.T) {
	fixtures := []string{"basic"}

	for _, name := range fixtures {
		name := name
		t.Run(name, func(t *testing.T) {
			root := "testdata/fixtures/" + name

			cfg, err := tmplconfig.Load(root)
			require.NoError(t, err)

			rpt, err := Convert(context.Background(), root, cfg, Options{DryRun: true})
			require.NoError(t, err)

			testutil.Golden(t, name, []byte(report.Render(rpt, false)))
		})
	}
}
