package parts

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// DIN 0207 body used for axial resistors and diodes.
var (
	axialBody    = geom.Sz(6.3, 2.5)
	axialPadSize = geom.Sz(1.6, 1.6)
	axialDrill   = geom.MM(0.8)
)

// Axial is a horizontally mounted two-lead through-hole part.
type Axial struct {
	*board.Component
	Pitch geom.Coord
}

// NewAxial builds an axial resistor or diode with pin 1 at the origin.
// Diodes have a rectangular cathode pad.
func NewAxial(kind board.Kind, pitch geom.Coord, value string) (*Axial, error) {
	if kind != board.KindResistor && kind != board.KindDiode {
		return nil, &board.ConstructionError{Object: "axial", Field: "kind", Reason: fmt.Sprintf("%s is not an axial kind", kind)}
	}
	if pitch < axialBody.W+axialPadSize.W {
		return nil, &board.ConstructionError{Object: "axial", Field: "pitch", Reason: fmt.Sprintf("%s mm is shorter than the body", pitch)}
	}

	ft, err := board.OfKind(kind, "", value)
	if err != nil {
		return nil, err
	}
	designator := fmt.Sprintf("Axial_DIN0207_L6.3mm_D2.5mm_P%smm_Horizontal", pitch)
	pkg, err := board.ThroughHole(designator, axialDrill)
	if err != nil {
		return nil, err
	}

	first := board.ShapeCircle
	if kind == board.KindDiode {
		first = board.ShapeRect
	}
	p1, err := thtPad("1", geom.Point{}, axialPadSize, axialDrill, first)
	if err != nil {
		return nil, err
	}
	p2, err := thtPad("2", geom.Point{X: pitch}, axialPadSize, axialDrill, board.ShapeCircle)
	if err != nil {
		return nil, err
	}

	body := geom.BoxAround(geom.Point{X: half(pitch)}, axialBody)

	var g graphics
	g.rect(body, board.FFab, FabWidth)
	g.line(0, 0, body.Min.X, 0, board.FFab, FabWidth)
	g.line(pitch, 0, body.Max.X, 0, board.FFab, FabWidth)
	g.rect(body.Inflate(geom.MM(0.12)), board.FSilkS, SilkWidth)
	if kind == board.KindDiode {
		band := body.Min.X + geom.MM(0.9)
		g.line(band, body.Min.Y, band, body.Max.Y, board.FFab, FabWidth)
	}
	g.fabReference(body)
	if g.err != nil {
		return nil, g.err
	}

	library := "Resistor_THT"
	if kind == board.KindDiode {
		library = "Diode_THT"
	}

	name := board.FootprintName(ft, pkg)
	c, err := board.New(board.Spec{
		Type:        ft,
		Package:     pkg,
		Description: fmt.Sprintf("%s, Axial_DIN0207 series, Axial, Horizontal, pin pitch=%smm", kind, pitch),
		Tags:        []string{strings.ToLower(kind.String()), "Axial_DIN0207", fmt.Sprintf("pitch %smm", pitch)},
		Pads:        []board.Pad{p1, p2},
		Graphics:    g.items,
		Library:     library,
		Model:       model(library, name),
	})
	if err != nil {
		return nil, fmt.Errorf("axial %s: %w", name, err)
	}
	return &Axial{Component: c, Pitch: pitch}, nil
}
