package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, "xlsx", cfg.Extension)
	assert.Equal(t, 1, cfg.Jobs)
	assert.False(t, cfg.StrictWidths)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Empty(t, cfg.Validate())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("EXMERGE_JOBS", "4")
	t.Setenv("EXMERGE_LOGGING_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "exmerge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
batch_size: 10
extension: .XLSM
strict_widths: true
output:
  format: yaml
`), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "xlsm", cfg.Extension)
	assert.True(t, cfg.StrictWidths)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "debug", cfg.Logging.Level)

	opts := cfg.Options()
	assert.Equal(t, 10, opts.BatchSize)
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.StrictWidths)
}

func TestNewWithoutConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNewMissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := Default()
	cfg.BatchSize = 0
	cfg.Jobs = -1
	cfg.Extension = "csv"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Output.Format = "toml"

	errs := cfg.Validate()
	require.Len(t, errs, 6)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{
		"batch_size", "jobs", "extension", "logging.level", "logging.format", "output.format",
	}, fields)
	assert.Contains(t, ValidationErrors(errs).Error(), "6 validation errors")
}
