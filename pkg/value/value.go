// Package value parses engineering component values ("100nF", "4.7uH",
// "10k", "4k7", "2R2") into a magnitude and a base unit.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// Base units recognised in value strings.
const (
	UnitOhm    = "Ω"
	UnitFarad  = "F"
	UnitHenry  = "H"
	UnitAmpere = "A"
	UnitVolt   = "V"
	UnitWatt   = "W"
	UnitHertz  = "Hz"
)

// Value is a parsed engineering value.
type Value struct {
	Text      string  // Original text
	Magnitude float64 // Value in base units
	Unit      string  // Base unit, empty when the text carried none
}

// String renders the value with an SI prefix, e.g. 1e-7 F -> "100nF".
func (v Value) String() string {
	if v.Magnitude == 0 {
		return "0" + v.Unit
	}

	abs := math.Abs(v.Magnitude)
	exp := -12
	for exp < 9 && abs >= math.Pow10(exp+3)*(1-1e-9) {
		exp += 3
	}
	mantissa := v.Magnitude / math.Pow10(exp)
	// Six significant digits is enough for any E-series value
	mantissa, _ = strconv.ParseFloat(strconv.FormatFloat(mantissa, 'g', 6, 64), 64)

	return strconv.FormatFloat(mantissa, 'f', -1, 64) + prefixFor[exp] + v.Unit
}

// Compatible reports whether v may describe a quantity in unit. Values
// without an explicit unit are compatible with everything.
func (v Value) Compatible(unit string) bool {
	return v.Unit == "" || v.Unit == unit
}

type grammar struct {
	Whole  string `parser:"@Number"`
	Suffix string `parser:"@Ident?"`
	Frac   string `parser:"@Number?"`
	Unit   string `parser:"@Ident?"`
}

var (
	buildOnce sync.Once
	parser    *participle.Parser[grammar]
	buildErr  error
)

func getParser() (*participle.Parser[grammar], error) {
	buildOnce.Do(func() {
		parser, buildErr = participle.Build[grammar](
			participle.Lexer(ValueLexer),
			participle.Elide("Whitespace"),
		)
		if buildErr != nil {
			buildErr = fmt.Errorf("failed to build value parser: %w", buildErr)
		}
	})
	return parser, buildErr
}

// Parse parses a value string.
func Parse(text string) (Value, error) {
	p, err := getParser()
	if err != nil {
		return Value{}, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	g, err := p.ParseString("", trimmed)
	if err != nil {
		return Value{}, fmt.Errorf("parse value %q: %w", text, err)
	}

	v, err := g.resolve()
	if err != nil {
		return Value{}, fmt.Errorf("parse value %q: %w", text, err)
	}
	v.Text = text
	return v, nil
}

func (g *grammar) resolve() (Value, error) {
	whole, err := strconv.ParseFloat(g.Whole, 64)
	if err != nil {
		return Value{}, err
	}

	// RKM notation: the multiplier (or R) takes the place of the decimal point
	if g.Frac != "" {
		if g.Suffix == "" {
			return Value{}, fmt.Errorf("unexpected number %q", g.Frac)
		}
		if strings.Contains(g.Whole, ".") || strings.Contains(g.Frac, ".") {
			return Value{}, fmt.Errorf("decimal point not allowed with %q separator", g.Suffix)
		}

		var mult float64
		unit := ""
		if g.Suffix == "R" {
			mult, unit = 1, UnitOhm
		} else {
			m, ok := multipliers[g.Suffix]
			if !ok {
				return Value{}, fmt.Errorf("unknown multiplier %q", g.Suffix)
			}
			mult = m
		}

		frac, err := strconv.ParseFloat("0."+g.Frac, 64)
		if err != nil {
			return Value{}, err
		}

		if g.Unit != "" {
			u, ok := canonicalUnit(g.Unit)
			if !ok {
				return Value{}, fmt.Errorf("unknown unit %q", g.Unit)
			}
			if unit != "" && u != unit {
				return Value{}, fmt.Errorf("unit %q conflicts with R separator", g.Unit)
			}
			unit = u
		}

		return Value{Magnitude: (whole + frac) * mult, Unit: unit}, nil
	}

	if g.Unit != "" {
		return Value{}, fmt.Errorf("unexpected trailing %q", g.Unit)
	}

	mult, unit, err := splitSuffix(g.Suffix)
	if err != nil {
		return Value{}, err
	}
	return Value{Magnitude: whole * mult, Unit: unit}, nil
}

var multipliers = map[string]float64{
	"p": 1e-12,
	"n": 1e-9,
	"u": 1e-6,
	"µ": 1e-6,
	"μ": 1e-6,
	"m": 1e-3,
	"k": 1e3,
	"K": 1e3,
	"M": 1e6,
	"G": 1e9,
}

var prefixFor = map[int]string{
	-12: "p",
	-9:  "n",
	-6:  "u",
	-3:  "m",
	0:   "",
	3:   "k",
	6:   "M",
	9:   "G",
}

func canonicalUnit(s string) (string, bool) {
	switch s {
	case "R", "ohm", "Ohm", "ohms", "\u03a9", "\u2126":
		return UnitOhm, true
	case "F":
		return UnitFarad, true
	case "H":
		return UnitHenry, true
	case "A":
		return UnitAmpere, true
	case "V":
		return UnitVolt, true
	case "W":
		return UnitWatt, true
	case "Hz":
		return UnitHertz, true
	}
	return "", false
}

// splitSuffix separates an optional multiplier from an optional unit:
// "nF" -> (1e-9, F), "k" -> (1e3, ""), "H" -> (1, H).
func splitSuffix(s string) (float64, string, error) {
	if s == "" {
		return 1, "", nil
	}

	if u, ok := canonicalUnit(s); ok {
		return 1, u, nil
	}

	for prefix, mult := range multipliers {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		rest := s[len(prefix):]
		if rest == "" {
			return mult, "", nil
		}
		if u, ok := canonicalUnit(rest); ok {
			return mult, u, nil
		}
	}

	return 0, "", fmt.Errorf("unknown suffix %q", s)
}
