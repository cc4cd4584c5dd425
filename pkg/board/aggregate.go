package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Placement positions a child object inside an aggregate.
type Placement struct {
	Object   ComposableObject
	Offset   geom.Point
	Rotation float64 // Degrees, applied before Offset
	// PadPrefix is prepended to every child pad number.
	PadPrefix string
}

// Aggregate builds a component from spec plus the pads and graphics of
// each placed child, transformed into the parent frame. Reference and
// value texts of children are dropped; the parent has its own.
// The children are only read, the result holds no reference to them.
func Aggregate(spec Spec, placements ...Placement) (*Component, error) {
	pads := append([]Pad(nil), spec.Pads...)
	graphics := append([]Graphic(nil), spec.Graphics...)

	for i, pl := range placements {
		if pl.Object == nil {
			return nil, constructionErr("aggregate", "placements", "placement %d has no object", i)
		}

		for _, p := range pl.Object.Pads() {
			moved := p.Rotate(pl.Rotation).Translate(pl.Offset)
			if p.Number != "" {
				moved = moved.WithNumber(pl.PadPrefix + p.Number)
			}
			pads = append(pads, moved)
		}

		for _, g := range pl.Object.Graphics() {
			if t, ok := g.(Text); ok && t.Kind != TextUser {
				continue
			}
			graphics = append(graphics, g.Transform(pl.Offset, pl.Rotation))
		}
	}

	spec.Pads = pads
	spec.Graphics = graphics

	c, err := New(spec)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", FootprintName(spec.Type, spec.Package), err)
	}
	return c, nil
}
