package cmd

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestTemplateThenGenerate(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "Book1.xlsx")
	img := filepath.Join(dir, "beam.png")
	out := filepath.Join(dir, "report.pdf")

	f, err := os.Create(img)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 20, 5))))
	require.NoError(t, f.Close())

	require.NoError(t, run(t, "template", book))
	assert.FileExists(t, book)

	require.NoError(t, run(t, "generate", "-i", book, "--image", img, "-o", out, "--log-level", "error"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, book, cfg.Input)
	assert.Equal(t, out, cfg.Output)
}

func TestAnalyzeExport(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "Book1.xlsx")
	require.NoError(t, run(t, "template", book))

	export := filepath.Join(dir, "diagrams")
	require.NoError(t, run(t, "analyze", "-i", book, "-n", "50", "--diagram=false", "--export", export, "--log-level", "error"))

	assert.FileExists(t, filepath.Join(export, "sfd.png"))
	assert.FileExists(t, filepath.Join(export, "bmd.png"))
	assert.Equal(t, 50, cfg.Samples)
}

func TestGenerate_BadFormat(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "Book1.xlsx")
	require.NoError(t, run(t, "template", book))

	err := run(t, "generate", "-i", book, "--format", "docx", "--log-level", "error")
	assert.ErrorContains(t, err, "unknown format")
}

func TestTemplate_RequiresPath(t *testing.T) {
	assert.Error(t, run(t, "template"))
}

func TestInvalidLogLevel(t *testing.T) {
	assert.Error(t, run(t, "analyze", "--log-level", "chatty"))
}

func TestVersion_IgnoresBadConfig(t *testing.T) {
	t.Setenv("BEAMREPORT_SAMPLES", "many")
	assert.NoError(t, run(t, "version"))
}
