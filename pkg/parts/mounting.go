package parts

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// MountingHole is a non-plated hole for a screw.
type MountingHole struct {
	*board.Component
	Drill geom.Coord
}

// NewMountingHole builds an unnumbered NPTH of the given diameter.
func NewMountingHole(drill geom.Coord) (*MountingHole, error) {
	if drill <= 0 {
		return nil, &board.ConstructionError{Object: "mounting hole", Field: "drill", Reason: "must be positive"}
	}

	designator := drill.String() + "mm"
	pkg, err := board.Custom(designator)
	if err != nil {
		return nil, err
	}

	pad, err := board.NewPad(board.PadSpec{
		Kind:   board.PadNPTH,
		Shape:  board.ShapeCircle,
		Size:   geom.Size{W: drill, H: drill},
		Drill:  drill,
		Layers: board.NPTHLayers(),
	})
	if err != nil {
		return nil, err
	}

	var g graphics
	g.circle(geom.Point{}, half(drill), board.FFab, FabWidth)
	if g.err != nil {
		return nil, g.err
	}

	c, err := board.New(board.Spec{
		Type:        board.Mechanical(""),
		Package:     pkg,
		Description: fmt.Sprintf("Mounting Hole %smm, no annular", drill),
		Tags:        []string{"mounting", "hole", designator},
		Pads:        []board.Pad{pad},
		Graphics:    g.items,
	})
	if err != nil {
		return nil, fmt.Errorf("mounting hole %s: %w", designator, err)
	}
	return &MountingHole{Component: c, Drill: drill}, nil
}
