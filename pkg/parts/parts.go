// Package parts provides concrete component variants built on
// board.Component: chip passives, SOIC and DIP packages, pin headers,
// axial through-hole parts and mounting holes.
package parts

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Library convention stroke widths.
var (
	SilkWidth = geom.MM(0.12)
	FabWidth  = geom.MM(0.10)
)

const modelRoot = "${KICAD8_3DMODEL_DIR}"

// graphics collects graphic constructors and keeps the first error, so a
// footprint can be drawn without checking every call.
type graphics struct {
	items []board.Graphic
	err   error
}

func (g *graphics) add(item board.Graphic, err error) {
	if g.err != nil {
		return
	}
	if err != nil {
		g.err = err
		return
	}
	g.items = append(g.items, item)
}

func (g *graphics) line(x1, y1, x2, y2 geom.Coord, layer board.Layer, width geom.Coord) {
	l, err := board.NewLine(geom.Point{X: x1, Y: y1}, geom.Point{X: x2, Y: y2}, layer, board.Solid(width))
	g.add(l, err)
}

func (g *graphics) rect(box geom.BoundingBox, layer board.Layer, width geom.Coord) {
	r, err := board.NewRect(box.Min, box.Max, layer, board.Solid(width), false)
	g.add(r, err)
}

func (g *graphics) poly(points []geom.Point, layer board.Layer, width geom.Coord) {
	p, err := board.NewPolygon(points, layer, board.Solid(width), false)
	g.add(p, err)
}

func (g *graphics) circle(center geom.Point, radius geom.Coord, layer board.Layer, width geom.Coord) {
	c, err := board.NewCircle(center, radius, layer, board.Solid(width), false)
	g.add(c, err)
}

// fabReference places a ${REFERENCE} text at the body centre, scaled to
// fit small bodies.
func (g *graphics) fabReference(body geom.BoundingBox) {
	size := geom.MM(1)
	if limit := body.Height() / 2; limit < size {
		size = limit
	}
	if floor := geom.MM(0.25); size < floor {
		size = floor
	}
	t, err := board.NewText(board.TextUser, "${REFERENCE}", body.Center(), board.FFab,
		geom.Size{W: size, H: size}, size*15/100)
	g.add(t, err)
}

// chamferedBody returns a fab outline with the pin 1 corner cut.
func chamferedBody(body geom.BoundingBox, chamfer geom.Coord) []geom.Point {
	return []geom.Point{
		{X: body.Min.X + chamfer, Y: body.Min.Y},
		{X: body.Max.X, Y: body.Min.Y},
		body.Max,
		{X: body.Min.X, Y: body.Max.Y},
		{X: body.Min.X, Y: body.Min.Y + chamfer},
	}
}

func model(library, name string) *board.Model3D {
	m := board.NewModel3D(fmt.Sprintf("%s/%s.3dshapes/%s.wrl", modelRoot, library, name))
	return &m
}

func smdPad(number string, center geom.Point, size geom.Size, shape board.PadShape) (board.Pad, error) {
	return board.NewPad(board.PadSpec{
		Number: number,
		Kind:   board.PadSMD,
		Shape:  shape,
		Center: center,
		Size:   size,
		Layers: board.SMDLayers(board.Front),
	})
}

func thtPad(number string, center geom.Point, size geom.Size, drill geom.Coord, shape board.PadShape) (board.Pad, error) {
	return board.NewPad(board.PadSpec{
		Number: number,
		Kind:   board.PadThroughHole,
		Shape:  shape,
		Center: center,
		Size:   size,
		Drill:  drill,
		Layers: board.THTLayers(),
	})
}

func half(c geom.Coord) geom.Coord { return c / 2 }
