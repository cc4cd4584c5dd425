package courtyard

import (
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Class selects the clearance margin applied to a package.
type Class string

const (
	ClassSMT     Class = "smt"
	ClassTHT     Class = "tht"
	ClassDefault Class = "default"
)

// Default clearances follow the KiCad Library Conventions (F5.3): 0.25 mm
// for surface-mount parts, 0.5 mm for through-hole parts, courtyard lines on
// a 0.01 mm grid.
var (
	DefaultSMTMargin      = geom.MM(0.25)
	DefaultTHTMargin      = geom.MM(0.50)
	DefaultMargin         = geom.MM(0.25)
	DefaultGridResolution = geom.MM(0.01)
)

// Policy is the clearance table used by Derive.
type Policy struct {
	SMTMargin      geom.Coord
	THTMargin      geom.Coord
	DefaultMargin  geom.Coord
	GridResolution geom.Coord
}

// DefaultPolicy returns the KiCad Library Convention clearances.
func DefaultPolicy() Policy {
	return Policy{
		SMTMargin:      DefaultSMTMargin,
		THTMargin:      DefaultTHTMargin,
		DefaultMargin:  DefaultMargin,
		GridResolution: DefaultGridResolution,
	}
}

// Margin returns the clearance for class. Unknown classes use DefaultMargin.
func (p Policy) Margin(class Class) geom.Coord {
	switch class {
	case ClassSMT:
		return p.SMTMargin
	case ClassTHT:
		return p.THTMargin
	default:
		return p.DefaultMargin
	}
}

// Validate rejects non-positive margins and grid resolution.
func (p Policy) Validate() error {
	checks := []struct {
		key string
		val geom.Coord
	}{
		{KeySMTMargin, p.SMTMargin},
		{KeyTHTMargin, p.THTMargin},
		{KeyDefaultMargin, p.DefaultMargin},
		{KeyGridResolution, p.GridResolution},
	}

	for _, c := range checks {
		if c.val <= 0 {
			return &ConfigurationError{Key: c.key, Value: c.val.MM(), Reason: "must be positive"}
		}
	}
	return nil
}
