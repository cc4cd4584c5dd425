// Package config assembles CLI settings from a TOML file, a .env file and
// OTF_* environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/export"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/footprint"
)

const DefaultEnvFile = ".env"

type Config struct {
	Log       LogConfig        `toml:"log"`
	Export    ExportConfig     `toml:"export"`
	Courtyard courtyard.Config `toml:"courtyard"`
}

type LogConfig struct {
	Level string `toml:"level" env:"OTF_LOG_LEVEL"`
	JSON  bool   `toml:"json" env:"OTF_LOG_JSON"`
}

type ExportConfig struct {
	Format           string `toml:"format" env:"OTF_FORMAT"`
	KiCadVersion     string `toml:"kicad_version" env:"OTF_KICAD_VERSION"`
	OutputDir        string `toml:"output_dir" env:"OTF_OUTPUT_DIR"`
	Generator        string `toml:"generator" env:"OTF_GENERATOR"`
	GeneratorVersion string `toml:"generator_version"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Export: ExportConfig{
			Format:           footprint.Format,
			KiCadVersion:     footprint.DefaultVersion,
			OutputDir:        ".",
			Generator:        footprint.DefaultGenerator,
			GeneratorVersion: footprint.DefaultGeneratorVersion,
		},
		Courtyard: courtyard.DefaultConfig(),
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. Missing env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := Default()

	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer fh.Close()

		dec := toml.NewDecoder(fh).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := c.Courtyard.Policy(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Export.OutputDir) == "" {
		return errors.New("export.output_dir: must not be empty")
	}
	if _, err := c.Exporter(); err != nil {
		return err
	}
	return nil
}

// Policy returns the courtyard policy.
func (c *Config) Policy() (courtyard.Policy, error) {
	return c.Courtyard.Policy()
}

// Exporter returns the exporter for the configured format. The KiCad
// exporter is built with the configured dialect and generator; any
// other format is looked up in the registry as-is.
func (c *Config) Exporter() (export.Exporter, error) {
	if !strings.EqualFold(c.Export.Format, footprint.Format) {
		return export.Lookup(c.Export.Format)
	}

	opts := []footprint.Option{footprint.WithVersion(c.Export.KiCadVersion)}
	if c.Export.Generator != "" {
		opts = append(opts, footprint.WithGenerator(c.Export.Generator))
	}
	if c.Export.GeneratorVersion != "" {
		opts = append(opts, footprint.WithGeneratorVersion(c.Export.GeneratorVersion))
	}

	e, err := footprint.NewExporter(opts...)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return e, nil
}
