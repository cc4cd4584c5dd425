package parts

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

var (
	headerPitch   = geom.MM(2.54)
	headerPadSize = geom.Sz(1.7, 1.7)
	headerDrill   = geom.MM(1.0)
)

// PinHeader is a vertical 2.54 mm pin header.
type PinHeader struct {
	*board.Component
	Rows int
	Cols int
}

// NewPinHeader builds a header with rows pins per column. Pin 1 is at the
// origin with a rectangular pad; numbering runs across the columns first.
func NewPinHeader(rows, cols int) (*PinHeader, error) {
	if rows < 1 || rows > 40 {
		return nil, &board.ConstructionError{Object: "pin header", Field: "rows", Reason: fmt.Sprintf("must be 1..40, got %d", rows)}
	}
	if cols < 1 || cols > 2 {
		return nil, &board.ConstructionError{Object: "pin header", Field: "cols", Reason: fmt.Sprintf("must be 1 or 2, got %d", cols)}
	}

	designator := fmt.Sprintf("PinHeader_%dx%02d_P2.54mm_Vertical", cols, rows)
	pkg, err := board.ThroughHole(designator, headerDrill)
	if err != nil {
		return nil, err
	}

	var pads []board.Pad
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n := r*cols + c + 1
			shape := board.ShapeOval
			if n == 1 {
				shape = board.ShapeRect
			}
			at := geom.Point{X: geom.Coord(c) * headerPitch, Y: geom.Coord(r) * headerPitch}
			p, err := thtPad(fmt.Sprint(n), at, headerPadSize, headerDrill, shape)
			if err != nil {
				return nil, err
			}
			pads = append(pads, p)
		}
	}

	// Body spans half a pitch around the outer pins
	hp := half(headerPitch)
	body := geom.BoundingBox{
		Min: geom.Point{X: -hp, Y: -hp},
		Max: geom.Point{X: geom.Coord(cols-1)*headerPitch + hp, Y: geom.Coord(rows-1)*headerPitch + hp},
	}

	var g graphics
	g.poly(chamferedBody(body, geom.MM(0.635)), board.FFab, FabWidth)
	g.rect(body.Inflate(geom.MM(0.06)), board.FSilkS, SilkWidth)
	g.fabReference(body)
	if g.err != nil {
		return nil, g.err
	}

	c, err := board.New(board.Spec{
		Type:        board.Connector(""),
		Package:     pkg,
		Description: fmt.Sprintf("Through hole straight pin header, %dx%02d, 2.54mm pitch", cols, rows),
		Tags:        []string{"Through hole", "pin header", "THT", fmt.Sprintf("%dx%02d", cols, rows), "2.54mm"},
		Pads:        pads,
		Graphics:    g.items,
		Library:     "Connector_PinHeader_2.54mm",
		Model:       model("Connector_PinHeader_2.54mm", designator),
	})
	if err != nil {
		return nil, fmt.Errorf("pin header %dx%d: %w", cols, rows, err)
	}
	return &PinHeader{Component: c, Rows: rows, Cols: cols}, nil
}
