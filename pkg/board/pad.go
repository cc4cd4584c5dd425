package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// PadKind is the electrical role of a pad.
type PadKind int

const (
	PadSMD PadKind = iota
	PadThroughHole
	PadNPTH
	PadConnect
)

var padKindNames = map[PadKind]string{
	PadSMD:         "smd",
	PadThroughHole: "thru_hole",
	PadNPTH:        "np_thru_hole",
	PadConnect:     "connect",
}

// String returns the KiCad keyword for the kind.
func (k PadKind) String() string {
	if s, ok := padKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PadKind(%d)", int(k))
}

// ParsePadKind parses a KiCad pad type keyword.
func ParsePadKind(s string) (PadKind, error) {
	for k, name := range padKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown pad type %q", s)
}

// PadShape is the copper outline of a pad.
type PadShape int

const (
	ShapeCircle PadShape = iota
	ShapeRect
	ShapeRoundRect
	ShapeOval
)

var padShapeNames = map[PadShape]string{
	ShapeCircle:    "circle",
	ShapeRect:      "rect",
	ShapeRoundRect: "roundrect",
	ShapeOval:      "oval",
}

// String returns the KiCad keyword for the shape.
func (s PadShape) String() string {
	if name, ok := padShapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PadShape(%d)", int(s))
}

// ParsePadShape parses a KiCad pad shape keyword.
func ParsePadShape(s string) (PadShape, error) {
	for shape, name := range padShapeNames {
		if name == s {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("unknown pad shape %q", s)
}

// DefaultRoundRectRatio is KiCad's default corner ratio.
const DefaultRoundRectRatio = 0.25

// PadSpec holds the parameters of a pad before validation.
type PadSpec struct {
	Number         string
	Kind           PadKind
	Shape          PadShape
	Center         geom.Point
	Size           geom.Size
	Rotation       float64 // Degrees
	Drill          geom.Coord
	Layers         []Layer
	RoundRectRatio float64
}

// Pad is a validated copper contact. Pads are values; the methods that
// change geometry return a new Pad.
type Pad struct {
	Number         string
	Kind           PadKind
	Shape          PadShape
	Center         geom.Point
	Size           geom.Size
	Rotation       float64
	Drill          geom.Coord
	Layers         []Layer
	RoundRectRatio float64
}

// NewPad validates spec and returns the pad. The layer slice is copied.
func NewPad(spec PadSpec) (Pad, error) {
	p := Pad(spec)
	p.Rotation = geom.NormalizeAngle(p.Rotation)
	p.Layers = append([]Layer(nil), spec.Layers...)

	where := "pad " + p.Number
	if p.Number == "" {
		where = "pad"
	}

	if _, ok := padKindNames[p.Kind]; !ok {
		return Pad{}, constructionErr(where, "kind", "unknown kind %d", int(p.Kind))
	}
	if _, ok := padShapeNames[p.Shape]; !ok {
		return Pad{}, constructionErr(where, "shape", "unknown shape %d", int(p.Shape))
	}
	if !p.Size.Valid() {
		return Pad{}, constructionErr(where, "size", "must not be negative, got %sx%s", p.Size.W, p.Size.H)
	}
	if len(p.Layers) == 0 {
		return Pad{}, constructionErr(where, "layers", "at least one layer is required")
	}
	for _, l := range p.Layers {
		if !l.Valid() {
			return Pad{}, constructionErr(where, "layers", "invalid layer %s", l)
		}
	}

	switch p.Kind {
	case PadThroughHole, PadNPTH:
		if p.Drill <= 0 {
			return Pad{}, constructionErr(where, "drill", "%s pads need a positive drill", p.Kind)
		}
		if p.Drill > p.Size.Min() {
			return Pad{}, constructionErr(where, "drill", "%s exceeds pad size %sx%s", p.Drill, p.Size.W, p.Size.H)
		}
		if p.Kind == PadThroughHole && p.Drill == p.Size.Min() {
			return Pad{}, constructionErr(where, "drill", "plated pad has no annular ring")
		}
	default:
		if p.Drill != 0 {
			return Pad{}, constructionErr(where, "drill", "%s pads cannot be drilled", p.Kind)
		}
		if !singleSided(p.Layers) {
			return Pad{}, constructionErr(where, "layers", "%s pads must stay on one side", p.Kind)
		}
	}

	if p.Shape == ShapeRoundRect {
		if p.RoundRectRatio == 0 {
			p.RoundRectRatio = DefaultRoundRectRatio
		}
		if p.RoundRectRatio < 0 || p.RoundRectRatio > 0.5 {
			return Pad{}, constructionErr(where, "roundrect_rratio", "must be in (0, 0.5], got %g", p.RoundRectRatio)
		}
	} else {
		p.RoundRectRatio = 0
	}

	return p, nil
}

func singleSided(layers []Layer) bool {
	for _, l := range layers[1:] {
		if l.Side != layers[0].Side {
			return false
		}
	}
	return true
}

// Extent returns the axis-aligned bounds of the pad, rotation included.
func (p Pad) Extent() geom.BoundingBox {
	if p.Shape == ShapeCircle {
		return geom.BoxAround(p.Center, geom.Size{W: p.Size.W, H: p.Size.W})
	}

	local := geom.BoxAround(geom.Point{}, p.Size).Corners()
	pts := make([]geom.Point, 0, len(local))
	for _, c := range local {
		pts = append(pts, c.Rotate(p.Rotation).Add(p.Center))
	}
	return geom.BoxFromPoints(pts...)
}

// Translate returns the pad moved by d.
func (p Pad) Translate(d geom.Point) Pad {
	out := p.clone()
	out.Center = p.Center.Add(d)
	return out
}

// Rotate returns the pad rotated by deg about the origin.
func (p Pad) Rotate(deg float64) Pad {
	out := p.clone()
	out.Center = p.Center.Rotate(deg)
	out.Rotation = geom.NormalizeAngle(p.Rotation + deg)
	return out
}

// WithNumber returns a copy of the pad renumbered.
func (p Pad) WithNumber(number string) Pad {
	out := p.clone()
	out.Number = number
	return out
}

// OnLayer reports whether the pad occupies l.
func (p Pad) OnLayer(l Layer) bool {
	for _, pl := range p.Layers {
		if pl == l {
			return true
		}
	}
	return false
}

func (p Pad) clone() Pad {
	out := p
	out.Layers = append([]Layer(nil), p.Layers...)
	return out
}

func (p Pad) String() string {
	return fmt.Sprintf("pad %s %s %s at (%s, %s) size %sx%s", p.Number, p.Kind, p.Shape,
		p.Center.X, p.Center.Y, p.Size.W, p.Size.H)
}
