package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/footprint"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, footprint.Format, cfg.Export.Format)
	assert.Equal(t, footprint.DefaultVersion, cfg.Export.KiCadVersion)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, courtyard.DefaultPolicy(), p)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "otf.toml", `
[log]
level = "debug"

[export]
kicad_version = "7.0"
output_dir = "out"

[courtyard]
smt_margin = 0.15
`)

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "out", cfg.Export.OutputDir)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, geom.MM(0.15), p.SMTMargin)
	assert.Equal(t, courtyard.DefaultTHTMargin, p.THTMargin)

	e, err := cfg.Exporter()
	require.NoError(t, err)
	ke, ok := e.(*footprint.Exporter)
	require.True(t, ok)
	assert.Equal(t, "7.0", ke.Version())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "otf.toml", "[export]\nkicad_version = \"7.0\"\n")
	t.Setenv("OTF_KICAD_VERSION", "9.0")
	t.Setenv("OTF_LOG_JSON", "true")
	t.Setenv("OTF_OUTPUT_DIR", "/tmp/fp")

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "9.0", cfg.Export.KiCadVersion)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "/tmp/fp", cfg.Export.OutputDir)
}

func TestEnvFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("OTF_LOG_LEVEL") })
	envFile := writeFile(t, "test.env", "OTF_LOG_LEVEL=warn\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
	}{
		{name: "unknown key", content: "[export]\ncolour = \"red\"\n"},
		{name: "malformed", content: "[export\n"},
		{name: "bad log level", content: "[log]\nlevel = \"loud\"\n"},
		{name: "old kicad", content: "[export]\nkicad_version = \"5.1\"\n"},
		{name: "unknown format", content: "[export]\nformat = \"eagle\"\n"},
		{name: "empty output dir", content: "[export]\noutput_dir = \" \"\n"},
		{name: "zero margin", content: "[courtyard]\ntht_margin = 0\n", is: courtyard.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "otf.toml", tt.content)
			_, err := Load(path, noEnvFile(t))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), noEnvFile(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
