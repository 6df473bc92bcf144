package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dlog"
	"opendwg/dwg"
	"opendwg/dwg/dheader"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "opendwg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, dheader.ReadAll, cfg.ReadMode)
	assert.Equal(t, 25, cfg.Logs.MaxSizeMB)
	assert.Equal(t, 7, cfg.Logs.MaxAgeDays)
	assert.Equal(t, 5, cfg.Logs.MaxBackups)
	assert.Equal(t, "A4", cfg.Export.PDFPage)
	assert.True(t, cfg.Export.DXFColorByLayer)

	empty, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, cfg, empty)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
read_mode: read_fast
include_unsupported: true
logs:
  directory: logs
  max_backups: 2
export:
  pdf_page: A3
  dxf_color_by_layer: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dheader.ReadFast, cfg.ReadMode)
	assert.True(t, cfg.IncludeUnsupported)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "logs"), cfg.Logs.Directory)
	assert.Equal(t, 2, cfg.Logs.MaxBackups)
	assert.Equal(t, 25, cfg.Logs.MaxSizeMB)
	assert.Equal(t, "A3", cfg.Export.PDFPage)
	assert.Equal(t, 10.0, cfg.Export.PDFMarginMM)
	assert.False(t, cfg.Export.DXFColorByLayer)
	assert.Equal(t, dwg.Options{ReadMode: dheader.ReadFast, IncludeUnsupported: true}, cfg.DrawingOptions())
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "read_mode: read_slowly\n"))
	assert.True(t, errors.Is(err, dwg.ErrInvalidReadMode))

	_, err = LoadConfig(writeConfig(t, "logs: [\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Override(t *testing.T) {
	cfg, err := DefaultConfig().Override(Args{ReadMode: "read_fastest", Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, dheader.ReadFastest, cfg.ReadMode)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.IncludeUnsupported)

	_, err = DefaultConfig().Override(Args{ReadMode: "fast"})
	assert.True(t, errors.Is(err, dwg.ErrInvalidReadMode))
}

func TestSetupLogging(t *testing.T) {
	defer dlog.SetOutput(os.Stderr)
	defer dlog.SetVerbose(false)

	rotator, err := SetupLogging(DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, rotator)

	cfg := DefaultConfig()
	cfg.Verbose = true
	cfg.Logs.Directory = filepath.Join(t.TempDir(), "logs")
	rotator, err = SetupLogging(cfg)
	require.NoError(t, err)
	require.NotNil(t, rotator)
	dlog.Debugf("rotated %d", 42)
	require.NoError(t, rotator.Close())

	content, err := os.ReadFile(filepath.Join(cfg.Logs.Directory, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "rotated 42")
}
