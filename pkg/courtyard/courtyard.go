// Package courtyard derives keep-out courtyards from pad geometry.
//
// The engine only sees pad extents and a clearance class, so any component
// model can use it.
package courtyard

import (
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Courtyard is a derived keep-out rectangle. Each derivation step is kept
// so callers can verify it.
type Courtyard struct {
	Raw      geom.BoundingBox // Union of pad extents
	Inflated geom.BoundingBox // Raw grown by Margin
	Box      geom.BoundingBox // Inflated rounded outward to the grid
	Margin   geom.Coord
	Class    Class
	empty    bool
}

// Empty returns the courtyard of a component without pads.
func Empty(class Class) Courtyard {
	return Courtyard{Class: class, empty: true}
}

// IsEmpty reports whether the courtyard was derived from no pads.
func (c Courtyard) IsEmpty() bool {
	return c.empty
}

// Outline returns the closed rectangle outline, first corner repeated.
// Empty courtyards have no outline.
func (c Courtyard) Outline() []geom.Point {
	if c.empty {
		return nil
	}
	corners := c.Box.Corners()
	return []geom.Point{corners[0], corners[1], corners[2], corners[3], corners[0]}
}

// Derive computes the courtyard for a set of pad extents:
// union, inflate by the class margin, then round outward to the grid.
// The result does not depend on the order of extents.
func Derive(extents []geom.BoundingBox, class Class, policy Policy) Courtyard {
	raw, ok := geom.UnionAll(extents...)
	if !ok {
		return Empty(class)
	}

	margin := policy.Margin(class)
	inflated := raw.Inflate(margin)

	return Courtyard{
		Raw:      raw,
		Inflated: inflated,
		Box:      inflated.RoundOutward(policy.GridResolution),
		Margin:   margin,
		Class:    class,
	}
}
