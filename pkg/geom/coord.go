// Package geom provides the fixed-precision geometry primitives shared by
// footprint models, the courtyard engine and the exporters.
//
// Distances are stored in nanometres, the unit KiCad uses internally, so that
// unions, inflation and grid rounding are exact.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate conversion constants
const (
	NanometersToMM = 1e-6 // Convert nm to mm (multiply by this)
	MMToNanometers = 1e6  // Convert mm to nm (multiply by this)
)

// Coord is a signed distance in nanometres.
type Coord int64

// MM converts millimetres to a Coord, rounding to the nearest nanometre.
func MM(mm float64) Coord {
	return Coord(math.Round(mm * MMToNanometers))
}

// MM returns the distance in millimetres.
func (c Coord) MM() float64 {
	return float64(c) * NanometersToMM
}

// Abs returns the absolute value.
func (c Coord) Abs() Coord {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the distance in millimetres with no trailing zeros,
// e.g. 1500000 -> "1.5", -250000 -> "-0.25", 0 -> "0".
func (c Coord) String() string {
	neg := c < 0
	v := int64(c)
	if neg {
		v = -v
	}

	whole := v / 1_000_000
	frac := v % 1_000_000

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(whole, 10))
	if frac != 0 {
		digits := strconv.FormatInt(frac, 10)
		digits = strings.Repeat("0", 6-len(digits)) + digits
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(digits, "0"))
	}
	return b.String()
}

// ParseMM parses a decimal millimetre string into a Coord.
func ParseMM(s string) (Coord, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return MM(f), nil
}

func minCoord(a, b Coord) Coord {
	if a < b {
		return a
	}
	return b
}

func maxCoord(a, b Coord) Coord {
	if a > b {
		return a
	}
	return b
}

// floorTo rounds v down to a multiple of step (step > 0).
func floorTo(v, step Coord) Coord {
	q := v / step
	if v%step != 0 && v < 0 {
		q--
	}
	return q * step
}

// ceilTo rounds v up to a multiple of step (step > 0).
func ceilTo(v, step Coord) Coord {
	q := v / step
	if v%step != 0 && v > 0 {
		q++
	}
	return q * step
}
