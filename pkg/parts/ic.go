package parts

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// SOIC is a narrow-body (3.9 mm) small-outline IC.
type SOIC struct {
	*board.Component
	Pins  int
	Pitch geom.Coord
}

var (
	soicBodyWidth = geom.MM(3.9)
	soicPadSize   = geom.Sz(1.95, 0.6)
	soicPadOffset = geom.MM(2.475)
)

// NewSOIC builds an SOIC with an even pin count of at least 4.
func NewSOIC(pins int, pitch geom.Coord, value string) (*SOIC, error) {
	if pins < 4 || pins%2 != 0 {
		return nil, &board.ConstructionError{Object: "SOIC", Field: "pins", Reason: fmt.Sprintf("need an even count >= 4, got %d", pins)}
	}
	if pitch <= 0 {
		return nil, &board.ConstructionError{Object: "SOIC", Field: "pitch", Reason: "must be positive"}
	}

	perSide := pins / 2
	bodyLength := geom.Coord(perSide-1)*pitch + geom.MM(1.09)
	designator := fmt.Sprintf("SOIC-%d_%sx%smm_P%smm", pins, soicBodyWidth, bodyLength, pitch)

	pkg, err := board.SurfaceMount(designator, pitch)
	if err != nil {
		return nil, err
	}

	padSize := soicPadSize
	if limit := pitch * 47 / 100; padSize.H > limit {
		padSize.H = limit
	}

	pads, err := dualRow(perSide, pitch, soicPadOffset, func(n int, at geom.Point) (board.Pad, error) {
		return smdPad(fmt.Sprint(n), at, padSize, board.ShapeRoundRect)
	})
	if err != nil {
		return nil, err
	}

	body := geom.BoxAround(geom.Point{}, geom.Size{W: soicBodyWidth, H: bodyLength})
	var g graphics
	g.poly(chamferedBody(body, geom.MM(1)), board.FFab, FabWidth)

	silk := half(soicBodyWidth) + geom.MM(0.11)
	top := half(bodyLength) + geom.MM(0.11)
	g.line(-silk, -top, silk, -top, board.FSilkS, SilkWidth)
	g.line(-silk, top, silk, top, board.FSilkS, SilkWidth)
	// Pin 1 marker runs out to the pad edge
	g.line(-silk, -top, -(soicPadOffset + half(padSize.W)), -top, board.FSilkS, SilkWidth)
	g.fabReference(body)
	if g.err != nil {
		return nil, g.err
	}

	c, err := board.New(board.Spec{
		Type:        board.IntegratedCircuit(value),
		Package:     pkg,
		Description: fmt.Sprintf("SOIC, %d Pin, 3.9 mm body, %s mm pitch", pins, pitch),
		Tags:        []string{"SOIC", fmt.Sprintf("SO%d", pins)},
		Pads:        pads,
		Graphics:    g.items,
		Library:     "Package_SO",
		Model:       model("Package_SO", designator),
	})
	if err != nil {
		return nil, fmt.Errorf("SOIC-%d: %w", pins, err)
	}
	return &SOIC{Component: c, Pins: pins, Pitch: pitch}, nil
}

// DIP is a dual in-line through-hole package on a 2.54 mm pitch.
type DIP struct {
	*board.Component
	Pins       int
	RowSpacing geom.Coord
}

var (
	dipPitch   = geom.MM(2.54)
	dipPadSize = geom.Sz(1.6, 1.6)
	dipDrill   = geom.MM(0.8)
)

// NewDIP builds a DIP; rowSpacing is the distance between pin rows,
// typically 7.62 mm.
func NewDIP(pins int, rowSpacing geom.Coord, value string) (*DIP, error) {
	if pins < 4 || pins%2 != 0 {
		return nil, &board.ConstructionError{Object: "DIP", Field: "pins", Reason: fmt.Sprintf("need an even count >= 4, got %d", pins)}
	}
	if rowSpacing <= dipPadSize.W {
		return nil, &board.ConstructionError{Object: "DIP", Field: "row spacing", Reason: fmt.Sprintf("%s mm leaves no room between rows", rowSpacing)}
	}

	designator := fmt.Sprintf("DIP-%d_W%smm", pins, rowSpacing)
	pkg, err := board.ThroughHole(designator, dipDrill)
	if err != nil {
		return nil, err
	}

	perSide := pins / 2
	pads, err := dualRow(perSide, dipPitch, half(rowSpacing), func(n int, at geom.Point) (board.Pad, error) {
		shape := board.ShapeOval
		if n == 1 {
			shape = board.ShapeRect
		}
		return thtPad(fmt.Sprint(n), at, dipPadSize, dipDrill, shape)
	})
	if err != nil {
		return nil, err
	}

	bodyLength := geom.Coord(perSide) * dipPitch
	bodyWidth := rowSpacing - geom.MM(1.27)
	body := geom.BoxAround(geom.Point{}, geom.Size{W: bodyWidth, H: bodyLength})

	var g graphics
	g.poly(chamferedBody(body, geom.MM(1)), board.FFab, FabWidth)
	g.rect(body.Inflate(geom.MM(0.11)), board.FSilkS, SilkWidth)
	g.fabReference(body)
	if g.err != nil {
		return nil, g.err
	}

	c, err := board.New(board.Spec{
		Type:        board.IntegratedCircuit(value),
		Package:     pkg,
		Description: fmt.Sprintf("%d-lead through-hole DIP, row spacing %s mm", pins, rowSpacing),
		Tags:        []string{"THT", "DIP", fmt.Sprintf("DIL%d", pins)},
		Pads:        pads,
		Graphics:    g.items,
		Library:     "Package_DIP",
		Model:       model("Package_DIP", designator),
	})
	if err != nil {
		return nil, fmt.Errorf("DIP-%d: %w", pins, err)
	}
	return &DIP{Component: c, Pins: pins, RowSpacing: rowSpacing}, nil
}

// dualRow lays out pins counter-clockwise from the top left: pins
// 1..n down the left column, the rest up the right column.
func dualRow(perSide int, pitch, offset geom.Coord, pad func(n int, at geom.Point) (board.Pad, error)) ([]board.Pad, error) {
	top := -geom.Coord(perSide-1) * pitch / 2
	pads := make([]board.Pad, 0, 2*perSide)

	for i := 0; i < perSide; i++ {
		p, err := pad(i+1, geom.Point{X: -offset, Y: top + geom.Coord(i)*pitch})
		if err != nil {
			return nil, err
		}
		pads = append(pads, p)
	}
	for i := 0; i < perSide; i++ {
		p, err := pad(perSide+i+1, geom.Point{X: offset, Y: top + geom.Coord(perSide-1-i)*pitch})
		if err != nil {
			return nil, err
		}
		pads = append(pads, p)
	}
	return pads, nil
}
