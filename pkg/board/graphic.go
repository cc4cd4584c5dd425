package board

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// StrokeStyle is the dash pattern of an outline.
type StrokeStyle int

const (
	StrokeSolid StrokeStyle = iota
	StrokeDash
	StrokeDot
)

var strokeStyleNames = map[StrokeStyle]string{
	StrokeSolid: "solid",
	StrokeDash:  "dash",
	StrokeDot:   "dot",
}

func (s StrokeStyle) String() string {
	if name, ok := strokeStyleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StrokeStyle(%d)", int(s))
}

// ParseStrokeStyle parses a KiCad stroke type keyword. "default" maps to solid.
func ParseStrokeStyle(s string) (StrokeStyle, error) {
	if s == "default" {
		return StrokeSolid, nil
	}
	for style, name := range strokeStyleNames {
		if name == s {
			return style, nil
		}
	}
	return 0, fmt.Errorf("unknown stroke type %q", s)
}

// Stroke is the line width and style of a graphic.
type Stroke struct {
	Width geom.Coord
	Style StrokeStyle
}

// Solid returns a solid stroke of the given width.
func Solid(width geom.Coord) Stroke {
	return Stroke{Width: width}
}

// Graphic is one of Line, Arc, Circle, Rect, Polygon or Text.
type Graphic interface {
	Layer() Layer
	Stroke() Stroke
	Extent() geom.BoundingBox
	// Transform rotates the graphic about the origin, then translates it.
	Transform(offset geom.Point, deg float64) Graphic
	graphic()
}

type base struct {
	layer  Layer
	stroke Stroke
}

func (b base) Layer() Layer   { return b.layer }
func (b base) Stroke() Stroke { return b.stroke }
func (base) graphic()         {}

func newBase(kind string, layer Layer, stroke Stroke) (base, error) {
	if !layer.Valid() {
		return base{}, constructionErr(kind, "layer", "invalid layer %s", layer)
	}
	if stroke.Width < 0 {
		return base{}, constructionErr(kind, "stroke", "width must not be negative, got %s", stroke.Width)
	}
	if _, ok := strokeStyleNames[stroke.Style]; !ok {
		return base{}, constructionErr(kind, "stroke", "unknown style %d", int(stroke.Style))
	}
	return base{layer: layer, stroke: stroke}, nil
}

func transform(p, offset geom.Point, deg float64) geom.Point {
	return p.Rotate(deg).Add(offset)
}

// Line is a straight segment.
type Line struct {
	base
	Start geom.Point
	End   geom.Point
}

func NewLine(start, end geom.Point, layer Layer, stroke Stroke) (Line, error) {
	b, err := newBase("line", layer, stroke)
	if err != nil {
		return Line{}, err
	}
	return Line{base: b, Start: start, End: end}, nil
}

func (g Line) Extent() geom.BoundingBox { return geom.BoxFromPoints(g.Start, g.End) }

func (g Line) Transform(offset geom.Point, deg float64) Graphic {
	g.Start = transform(g.Start, offset, deg)
	g.End = transform(g.End, offset, deg)
	return g
}

// Arc is a three-point arc from Start through Mid to End.
type Arc struct {
	base
	Start geom.Point
	Mid   geom.Point
	End   geom.Point
}

func NewArc(start, mid, end geom.Point, layer Layer, stroke Stroke) (Arc, error) {
	b, err := newBase("arc", layer, stroke)
	if err != nil {
		return Arc{}, err
	}
	return Arc{base: b, Start: start, Mid: mid, End: end}, nil
}

func (g Arc) Extent() geom.BoundingBox { return geom.ArcBounds(g.Start, g.Mid, g.End) }

func (g Arc) Transform(offset geom.Point, deg float64) Graphic {
	g.Start = transform(g.Start, offset, deg)
	g.Mid = transform(g.Mid, offset, deg)
	g.End = transform(g.End, offset, deg)
	return g
}

// Circle is defined by its centre and a point on the circumference,
// as KiCad stores it.
type Circle struct {
	base
	Center geom.Point
	End    geom.Point
	Fill   bool
}

func NewCircle(center geom.Point, radius geom.Coord, layer Layer, stroke Stroke, fill bool) (Circle, error) {
	b, err := newBase("circle", layer, stroke)
	if err != nil {
		return Circle{}, err
	}
	if radius < 0 {
		return Circle{}, constructionErr("circle", "radius", "must not be negative, got %s", radius)
	}
	return Circle{base: b, Center: center, End: center.Add(geom.Point{X: radius}), Fill: fill}, nil
}

func (g Circle) Radius() geom.Coord { return geom.Distance(g.Center, g.End) }

func (g Circle) Extent() geom.BoundingBox { return geom.CircleBounds(g.Center, g.Radius()) }

func (g Circle) Transform(offset geom.Point, deg float64) Graphic {
	g.Center = transform(g.Center, offset, deg)
	g.End = transform(g.End, offset, deg)
	return g
}

// Rect is an axis-aligned rectangle between two corners.
type Rect struct {
	base
	Start geom.Point
	End   geom.Point
	Fill  bool
}

func NewRect(start, end geom.Point, layer Layer, stroke Stroke, fill bool) (Rect, error) {
	b, err := newBase("rect", layer, stroke)
	if err != nil {
		return Rect{}, err
	}
	return Rect{base: b, Start: start, End: end, Fill: fill}, nil
}

func (g Rect) Extent() geom.BoundingBox { return geom.BoxFromPoints(g.Start, g.End) }

// Corners returns the four corners in outline order, starting at Start.
func (g Rect) Corners() []geom.Point {
	return []geom.Point{
		g.Start,
		{X: g.End.X, Y: g.Start.Y},
		g.End,
		{X: g.Start.X, Y: g.End.Y},
	}
}

// Transform keeps a Rect at multiples of 90 degrees. At any other angle
// the result is a Polygon of the rotated corners.
func (g Rect) Transform(offset geom.Point, deg float64) Graphic {
	if !quarterTurn(deg) {
		pts := g.Corners()
		for i, p := range pts {
			pts[i] = transform(p, offset, deg)
		}
		return Polygon{base: g.base, Points: pts, Fill: g.Fill}
	}
	g.Start = transform(g.Start, offset, deg)
	g.End = transform(g.End, offset, deg)
	return g
}

func quarterTurn(deg float64) bool {
	return math.Mod(geom.NormalizeAngle(deg), 90) == 0
}

// Polygon is a closed outline.
type Polygon struct {
	base
	Points []geom.Point
	Fill   bool
}

func NewPolygon(points []geom.Point, layer Layer, stroke Stroke, fill bool) (Polygon, error) {
	b, err := newBase("polygon", layer, stroke)
	if err != nil {
		return Polygon{}, err
	}
	if len(points) < 3 {
		return Polygon{}, constructionErr("polygon", "points", "need at least 3, got %d", len(points))
	}
	return Polygon{base: b, Points: append([]geom.Point(nil), points...), Fill: fill}, nil
}

func (g Polygon) Extent() geom.BoundingBox { return geom.BoxFromPoints(g.Points...) }

func (g Polygon) Transform(offset geom.Point, deg float64) Graphic {
	pts := make([]geom.Point, len(g.Points))
	for i, p := range g.Points {
		pts[i] = transform(p, offset, deg)
	}
	g.Points = pts
	return g
}

// TextKind distinguishes the reference and value fields from free text.
type TextKind int

const (
	TextUser TextKind = iota
	TextReference
	TextValue
)

func (k TextKind) String() string {
	switch k {
	case TextReference:
		return "reference"
	case TextValue:
		return "value"
	}
	return "user"
}

// Text is a text field. Its stroke width is the glyph thickness.
type Text struct {
	base
	Kind     TextKind
	Content  string
	Pos      geom.Point
	Rotation float64
	Size     geom.Size
	Hidden   bool
}

func NewText(kind TextKind, content string, pos geom.Point, layer Layer, size geom.Size, thickness geom.Coord) (Text, error) {
	b, err := newBase("text", layer, Solid(thickness))
	if err != nil {
		return Text{}, err
	}
	if kind != TextUser && kind != TextReference && kind != TextValue {
		return Text{}, constructionErr("text", "kind", "unknown kind %d", int(kind))
	}
	if !size.Valid() {
		return Text{}, constructionErr("text", "size", "must not be negative")
	}
	if kind == TextUser && content == "" {
		return Text{}, constructionErr("text", "content", "user text must not be empty")
	}
	return Text{base: b, Kind: kind, Content: content, Pos: pos, Size: size}, nil
}

// Thickness is the glyph stroke width.
func (g Text) Thickness() geom.Coord { return g.stroke.Width }

// Extent covers the text anchor only; glyph metrics depend on the font.
func (g Text) Extent() geom.BoundingBox { return geom.BoxFromPoints(g.Pos) }

func (g Text) Transform(offset geom.Point, deg float64) Graphic {
	g.Pos = transform(g.Pos, offset, deg)
	g.Rotation = geom.NormalizeAngle(g.Rotation + deg)
	return g
}

// WithRotation returns the text rotated in place.
func (g Text) WithRotation(deg float64) Text {
	g.Rotation = geom.NormalizeAngle(deg)
	return g
}

// AsHidden returns the text hidden.
func (g Text) AsHidden() Text {
	g.Hidden = true
	return g
}
