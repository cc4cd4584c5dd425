package courtyard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Recognised configuration keys.
const (
	KeySMTMargin      = "smt_margin"
	KeyTHTMargin      = "tht_margin"
	KeyDefaultMargin  = "default_margin"
	KeyGridResolution = "grid_resolution"
)

// Config is the on-disk form of a Policy, in millimetres.
type Config struct {
	SMTMargin      float64 `toml:"smt_margin"`
	THTMargin      float64 `toml:"tht_margin"`
	DefaultMargin  float64 `toml:"default_margin"`
	GridResolution float64 `toml:"grid_resolution"`
}

// DefaultConfig mirrors DefaultPolicy.
func DefaultConfig() Config {
	p := DefaultPolicy()
	return Config{
		SMTMargin:      p.SMTMargin.MM(),
		THTMargin:      p.THTMargin.MM(),
		DefaultMargin:  p.DefaultMargin.MM(),
		GridResolution: p.GridResolution.MM(),
	}
}

// Policy converts and validates the configuration.
func (c Config) Policy() (Policy, error) {
	p := Policy{
		SMTMargin:      geom.MM(c.SMTMargin),
		THTMargin:      geom.MM(c.THTMargin),
		DefaultMargin:  geom.MM(c.DefaultMargin),
		GridResolution: geom.MM(c.GridResolution),
	}

	// Report the original value rather than the rounded Coord
	raw := map[string]float64{
		KeySMTMargin:      c.SMTMargin,
		KeyTHTMargin:      c.THTMargin,
		KeyDefaultMargin:  c.DefaultMargin,
		KeyGridResolution: c.GridResolution,
	}

	if err := p.Validate(); err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			cerr.Value = raw[cerr.Key]
		}
		return Policy{}, err
	}
	return p, nil
}

// LoadConfig decodes a TOML policy. Keys that are absent keep their
// defaults; unknown keys and non-positive values are rejected.
func LoadConfig(r io.Reader) (Policy, error) {
	cfg := DefaultConfig()

	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Policy{}, &ConfigurationError{Reason: "decode", Err: err}
	}

	return cfg.Policy()
}

// LoadFile reads a TOML policy from path.
func LoadFile(path string) (Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to open courtyard config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
