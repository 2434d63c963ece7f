package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/export"
)

type noRasterizer struct{}

func (noRasterizer) Rasterize(context.Context, []byte, []string) ([][]byte, error) {
	return nil, os.ErrInvalid
}

func writeSamples(t *testing.T, dir string, kinds ...document.Kind) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, kind := range kinds {
		raw, err := document.Sample(kind)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, document.SampleFiles[kind]), raw, 0o644))
	}
}

func newPipeline(dir string) *Pipeline {
	cfg := config.Default()
	cfg.Sources.BaseDir = dir
	return New(cfg, noRasterizer{})
}

func TestRunWritesExports(t *testing.T) {
	dir := t.TempDir()
	writeSamples(t, dir, document.Kinds...)
	out := filepath.Join(dir, "out")

	r := newPipeline(dir).Run(context.Background(), out, []export.Format{export.FormatHTML, export.FormatJSON, export.FormatXLSX})
	require.NoError(t, r.Err())
	require.Len(t, r.Steps, 3)
	assert.Equal(t, "Loaded report, dashboard, competitors", r.Steps[0].Summary)
	assert.Equal(t, "Composed 12 pages", r.Steps[1].Summary)
	assert.Len(t, r.Files, 3)

	for _, name := range []string{"hotel-report.html", "data.json", "hotel-report.xlsx"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestRunStopsOnLoadFailure(t *testing.T) {
	r := newPipeline(t.TempDir()).Run(context.Background(), t.TempDir(), []export.Format{export.FormatHTML})
	require.Len(t, r.Steps, 1)
	assert.Error(t, r.Err())
	assert.True(t, IsLoadFailure(r.Steps[0].Err))
}

func TestRunReportsExportFailure(t *testing.T) {
	dir := t.TempDir()
	writeSamples(t, dir, document.KindReport)

	r := newPipeline(dir).Run(context.Background(), filepath.Join(dir, "out"), []export.Format{export.FormatHTML, export.FormatPDF})
	require.Len(t, r.Steps, 3)
	assert.Equal(t, "Composed 10 pages", r.Steps[1].Summary)
	assert.Error(t, r.Steps[2].Err)
	assert.Len(t, r.Files, 1)
	assert.False(t, IsLoadFailure(r.Err()))
}

func TestRunBatch(t *testing.T) {
	root := t.TempDir()
	writeSamples(t, filepath.Join(root, "milan"), document.Kinds...)
	writeSamples(t, filepath.Join(root, "rome"), document.KindReport)
	out := filepath.Join(root, "out")

	results, err := newPipeline(root).RunBatch(context.Background(), filepath.Join(root, "*", "data.json"), out, []export.Format{export.FormatHTML})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err())
	}
	_, err = os.Stat(filepath.Join(out, "milan", "hotel-report.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "rome", "hotel-report.html"))
	assert.NoError(t, err)
}

func TestDryRun(t *testing.T) {
	r := newPipeline("reports").DryRun("out", []export.Format{export.FormatPDF})
	require.Len(t, r.Steps, 3)
	assert.Contains(t, r.Steps[0].Summary, filepath.Join("reports", "data.json"))
	assert.Contains(t, r.Steps[2].Summary, filepath.Join("out", "hotel-report.pdf"))
	assert.NoError(t, r.Err())
}
