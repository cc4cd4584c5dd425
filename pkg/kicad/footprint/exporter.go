// Package footprint reads and writes KiCad footprint files (.kicad_mod).
package footprint

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/export"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp/kicadsexp"
)

const (
	// Format is the registry name of the KiCad exporter.
	Format    = "kicad"
	Extension = ".kicad_mod"

	DefaultGenerator        = "otf"
	DefaultGeneratorVersion = "0.1"

	// Characters KiCad cannot store in a footprint or library file name.
	illegalNameChars = `/\:"*?<>|{}$%#`
)

// Library convention sizes.
var (
	DefaultCourtyardWidth = geom.MM(0.05)
	DefaultTextSize       = geom.Sz(1, 1)
	DefaultTextThickness  = geom.MM(0.15)
	// Gap between the courtyard and the default reference/value anchors.
	textGap = geom.MM(1)
)

var uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/OpenTraceLab/OpenTraceFootprint"))

func init() {
	e, err := NewExporter()
	if err != nil {
		panic(err)
	}
	export.Register(e)
}

// Exporter writes ComposableObjects as KiCad footprints.
type Exporter struct {
	version          string
	dialect          dialect
	generator        string
	generatorVersion string
	courtyardWidth   geom.Coord
}

var _ export.Exporter = (*Exporter)(nil)

// Option configures an Exporter.
type Option func(*Exporter)

// WithVersion selects the KiCad release to target, e.g. "7.0".
func WithVersion(v string) Option {
	return func(e *Exporter) { e.version = v }
}

// WithGenerator sets the generator name written in the header.
func WithGenerator(name string) Option {
	return func(e *Exporter) { e.generator = name }
}

// WithGeneratorVersion sets the generator_version written from KiCad 8 on.
func WithGeneratorVersion(v string) Option {
	return func(e *Exporter) { e.generatorVersion = v }
}

// WithCourtyardStroke sets the width of the courtyard outline.
func WithCourtyardStroke(width geom.Coord) Option {
	return func(e *Exporter) { e.courtyardWidth = width }
}

// NewExporter returns an exporter targeting DefaultVersion unless
// overridden.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		version:          DefaultVersion,
		generator:        DefaultGenerator,
		generatorVersion: DefaultGeneratorVersion,
		courtyardWidth:   DefaultCourtyardWidth,
	}
	for _, opt := range opts {
		opt(e)
	}

	d, err := resolveDialect(e.version)
	if err != nil {
		return nil, err
	}
	e.dialect = d

	if e.generator == "" || strings.ContainsAny(e.generator, " \t\n\"()") {
		return nil, fmt.Errorf("invalid generator name %q", e.generator)
	}
	if e.courtyardWidth <= 0 {
		return nil, fmt.Errorf("courtyard stroke must be positive, got %s", e.courtyardWidth)
	}
	return e, nil
}

func (e *Exporter) Format() string { return Format }

func (e *Exporter) Extension() string { return Extension }

// Version is the KiCad release the output is written for.
func (e *Exporter) Version() string { return e.dialect.release }

// FormatVersion is the value of the (version ...) header.
func (e *Exporter) FormatVersion() int { return e.dialect.format }

// Export validates obj and renders it. On error no output is returned.
func (e *Exporter) Export(obj board.ComposableObject) ([]byte, error) {
	tree, err := e.Tree(obj)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := kicadsexp.NewWriter(&buf).Write(tree); err != nil {
		return nil, fmt.Errorf("failed to write footprint: %w", err)
	}
	return buf.Bytes(), nil
}

// Tree validates obj and returns its footprint expression. A nil
// *board.Component is rejected like a nil interface; other typed nil
// pointers are the caller's bug.
func (e *Exporter) Tree(obj board.ComposableObject) (*kicadsexp.List, error) {
	if c, ok := obj.(*board.Component); obj == nil || (ok && c == nil) {
		return nil, &export.ValidationError{Format: Format, Field: "object", Reason: "is nil"}
	}
	if err := validate(obj); err != nil {
		return nil, err
	}

	b := &builder{d: e.dialect, name: obj.FootprintName()}
	return e.build(b, obj), nil
}

func validate(obj board.ComposableObject) error {
	if err := export.ValidateIdentifier(Format, "footprint name", obj.FootprintName(), illegalNameChars); err != nil {
		return err
	}

	for i, p := range obj.Pads() {
		if len(p.Layers) == 0 {
			return &export.ValidationError{Format: Format, Field: fmt.Sprintf("pad %d", i), Reason: "has no layers"}
		}
		for _, l := range p.Layers {
			if !l.Valid() {
				return &export.ValidationError{Format: Format, Field: fmt.Sprintf("pad %d", i), Reason: fmt.Sprintf("references undefined layer %s", l)}
			}
		}
		if !p.Size.Valid() {
			return &export.ValidationError{Format: Format, Field: fmt.Sprintf("pad %d", i), Reason: "has negative size"}
		}
	}

	for i, g := range obj.Graphics() {
		field := fmt.Sprintf("graphic %d", i)
		switch {
		case g == nil:
			return &export.ValidationError{Format: Format, Field: field, Reason: "is nil"}
		case !g.Layer().Valid():
			return &export.ValidationError{Format: Format, Field: field, Reason: fmt.Sprintf("references undefined layer %s", g.Layer())}
		case g.Layer().Type == board.LayerCourtyard:
			return &export.ValidationError{Format: Format, Field: field, Reason: "courtyard graphics are derived, not authored"}
		}
	}
	return nil
}

type builder struct {
	d    dialect
	name string
	n    int
}

// id returns the next name-based identifier, so output is stable across runs.
func (b *builder) id() kicadsexp.Sexp {
	u := uuid.NewSHA1(uuidNamespace, []byte(b.name+"/"+strconv.Itoa(b.n)))
	b.n++
	return kicadsexp.Node(b.d.uuidKey, kicadsexp.String(u.String()))
}

func (e *Exporter) build(b *builder, obj board.ComposableObject) *kicadsexp.List {
	d := b.d
	name := obj.FootprintName()

	root := kicadsexp.Node("footprint", kicadsexp.String(name))
	root.Append(kicadsexp.Node("version", kicadsexp.Symbol(strconv.Itoa(d.format))))
	if d.quotedGenerator {
		root.Append(kicadsexp.Node("generator", kicadsexp.String(e.generator)))
	} else {
		root.Append(kicadsexp.Node("generator", kicadsexp.Symbol(e.generator)))
	}
	if d.generatorVersion {
		root.Append(kicadsexp.Node("generator_version", kicadsexp.String(e.generatorVersion)))
	}
	root.Append(layerNode(board.FCu))

	if desc, ok := obj.(board.Describer); ok {
		if s := desc.Description(); s != "" {
			root.Append(kicadsexp.Node("descr", kicadsexp.String(s)))
		}
		if tags := desc.Tags(); len(tags) > 0 {
			root.Append(kicadsexp.Node("tags", kicadsexp.String(strings.Join(tags, " "))))
		}
	}

	ref, val := fieldTexts(obj)
	root.Append(b.field(ref, "Reference", "REF**"))
	value := obj.FunctionalType().Value()
	if value == "" {
		value = name
	}
	root.Append(b.field(val, "Value", value))

	if attr := attrNode(obj); attr != nil {
		root.Append(attr)
	}

	for _, g := range obj.Graphics() {
		if node := b.graphic(g); node != nil {
			root.Append(node)
		}
	}

	if cy := obj.Courtyard(); !cy.IsEmpty() {
		outline := cy.Outline()
		stroke := board.Solid(e.courtyardWidth)
		layer := courtyardLayer(obj.Pads())
		for i := 0; i < len(outline)-1; i++ {
			root.Append(b.line(outline[i], outline[i+1], layer, stroke))
		}
	}

	for _, p := range obj.Pads() {
		root.Append(b.pad(p))
	}

	if d.embeddedFonts {
		root.Append(kicadsexp.Node("embedded_fonts", kicadsexp.Symbol("no")))
	}

	if mp, ok := obj.(board.ModelProvider); ok {
		if m, ok := mp.Model3D(); ok && m.Path != "" {
			root.Append(modelNode(m))
		}
	}

	return root
}

// fieldTexts returns the reference and value texts of obj, falling back
// to library-convention placement above and below the courtyard.
func fieldTexts(obj board.ComposableObject) (ref, val board.Text) {
	var haveRef, haveVal bool
	for _, g := range obj.Graphics() {
		t, ok := g.(board.Text)
		if !ok {
			continue
		}
		switch {
		case t.Kind == board.TextReference && !haveRef:
			ref, haveRef = t, true
		case t.Kind == board.TextValue && !haveVal:
			val, haveVal = t, true
		}
	}

	box := obj.BoundingBox()
	if cy := obj.Courtyard(); !cy.IsEmpty() {
		box = cy.Box
	}

	if !haveRef {
		ref = mustText(board.NewText(board.TextReference, "", geom.Point{Y: box.Min.Y - textGap}, board.FSilkS, DefaultTextSize, DefaultTextThickness))
	}
	if !haveVal {
		val = mustText(board.NewText(board.TextValue, "", geom.Point{Y: box.Max.Y + textGap}, board.FFab, DefaultTextSize, DefaultTextThickness))
	}
	return ref, val
}

// mustText is for field texts built from package constants.
func mustText(t board.Text, err error) board.Text {
	if err != nil {
		panic(err)
	}
	return t
}

// courtyardLayer puts the courtyard on the back when no pad has front
// copper but some pad has back copper.
func courtyardLayer(pads []board.Pad) board.Layer {
	var front, back bool
	for _, p := range pads {
		for _, l := range p.Layers {
			if l.Type != board.LayerCopper {
				continue
			}
			front = front || l.Side == board.Front
			back = back || l.Side == board.Back
		}
	}
	if back && !front {
		return board.BCrtYd
	}
	return board.FCrtYd
}

func (b *builder) field(t board.Text, property, content string) *kicadsexp.List {
	var node *kicadsexp.List
	if b.d.properties {
		node = kicadsexp.Node("property", kicadsexp.String(property), kicadsexp.String(content))
	} else {
		node = kicadsexp.Node("fp_text", kicadsexp.Symbol(t.Kind.String()), kicadsexp.String(content))
	}
	return b.text(node, t)
}

func (b *builder) text(node *kicadsexp.List, t board.Text) *kicadsexp.List {
	node.Append(atNode(t.Pos, t.Rotation), layerNode(t.Layer()))
	if t.Hidden {
		if b.d.hideYes {
			node.Append(kicadsexp.Node("hide", kicadsexp.Symbol("yes")))
		} else {
			node.Append(kicadsexp.Symbol("hide"))
		}
	}
	node.Append(b.id())
	node.Append(kicadsexp.Node("effects",
		kicadsexp.Node("font",
			kicadsexp.Node("size", coord(t.Size.H), coord(t.Size.W)),
			kicadsexp.Node("thickness", coord(t.Thickness())),
		),
	))
	return node
}

func attrNode(obj board.ComposableObject) *kicadsexp.List {
	switch obj.Package().Kind() {
	case board.PackageSurfaceMount:
		return kicadsexp.Node("attr", kicadsexp.Symbol("smd"))
	case board.PackageThroughHole:
		return kicadsexp.Node("attr", kicadsexp.Symbol("through_hole"))
	}
	if obj.FunctionalType().Kind() == board.KindMechanical {
		return kicadsexp.Node("attr", kicadsexp.Symbol("exclude_from_pos_files"), kicadsexp.Symbol("exclude_from_bom"))
	}
	return nil
}

func (b *builder) graphic(g board.Graphic) *kicadsexp.List {
	switch g := g.(type) {
	case board.Line:
		return b.line(g.Start, g.End, g.Layer(), g.Stroke())
	case board.Arc:
		return b.shape(kicadsexp.Node("fp_arc", pointNode("start", g.Start), pointNode("mid", g.Mid), pointNode("end", g.End)), g, nil)
	case board.Circle:
		return b.shape(kicadsexp.Node("fp_circle", pointNode("center", g.Center), pointNode("end", g.End)), g, &g.Fill)
	case board.Rect:
		return b.shape(kicadsexp.Node("fp_rect", pointNode("start", g.Start), pointNode("end", g.End)), g, &g.Fill)
	case board.Polygon:
		pts := kicadsexp.Node("pts")
		for _, p := range g.Points {
			pts.Append(pointNode("xy", p))
		}
		return b.shape(kicadsexp.Node("fp_poly", pts), g, &g.Fill)
	case board.Text:
		if g.Kind != board.TextUser {
			return nil
		}
		return b.text(kicadsexp.Node("fp_text", kicadsexp.Symbol("user"), kicadsexp.String(g.Content)), g)
	}
	return nil
}

func (b *builder) line(start, end geom.Point, layer board.Layer, stroke board.Stroke) *kicadsexp.List {
	node := kicadsexp.Node("fp_line", pointNode("start", start), pointNode("end", end))
	node.Append(b.strokeNode(stroke), layerNode(layer), b.id())
	return node
}

func (b *builder) shape(node *kicadsexp.List, g board.Graphic, fill *bool) *kicadsexp.List {
	node.Append(b.strokeNode(g.Stroke()))
	if fill != nil {
		kind := "none"
		if *fill {
			kind = "solid"
		}
		node.Append(kicadsexp.Node("fill", kicadsexp.Symbol(kind)))
	}
	node.Append(layerNode(g.Layer()), b.id())
	return node
}

func (b *builder) strokeNode(s board.Stroke) *kicadsexp.List {
	if !b.d.stroke {
		return kicadsexp.Node("width", coord(s.Width))
	}
	return kicadsexp.Node("stroke",
		kicadsexp.Node("width", coord(s.Width)),
		kicadsexp.Node("type", kicadsexp.Symbol(s.Style.String())),
	)
}

func (b *builder) pad(p board.Pad) *kicadsexp.List {
	node := kicadsexp.Node("pad",
		kicadsexp.String(p.Number),
		kicadsexp.Symbol(p.Kind.String()),
		kicadsexp.Symbol(p.Shape.String()),
		atNode(p.Center, p.Rotation),
		kicadsexp.Node("size", coord(p.Size.W), coord(p.Size.H)),
	)
	if p.Drill > 0 {
		node.Append(kicadsexp.Node("drill", coord(p.Drill)))
	}

	layers := kicadsexp.Node("layers")
	for _, name := range padLayerNames(p.Layers) {
		layers.Append(kicadsexp.String(name))
	}
	node.Append(layers)

	if p.Shape == board.ShapeRoundRect {
		node.Append(kicadsexp.Node("roundrect_rratio", number(p.RoundRectRatio)))
	}
	node.Append(b.id())
	return node
}

// padLayerNames writes a layer present on both sides as a "*." wildcard.
func padLayerNames(layers []board.Layer) []string {
	present := make(map[board.Layer]bool, len(layers))
	for _, l := range layers {
		present[l] = true
	}

	var names []string
	done := make(map[board.LayerType]bool)
	for _, l := range layers {
		if done[l.Type] {
			continue
		}
		other := board.Layer{Type: l.Type, Side: board.Back}
		if l.Side == board.Back {
			other.Side = board.Front
		}
		if present[other] {
			names = append(names, "*."+strings.TrimPrefix(board.Layer{Type: l.Type}.KiCadName(), "F."))
			done[l.Type] = true
			continue
		}
		names = append(names, l.KiCadName())
	}
	return names
}

func modelNode(m board.Model3D) *kicadsexp.List {
	xyz := func(key string, v board.Vec3) *kicadsexp.List {
		return kicadsexp.Node(key, kicadsexp.Node("xyz", number(v.X), number(v.Y), number(v.Z)))
	}
	return kicadsexp.Node("model", kicadsexp.String(m.Path),
		xyz("offset", m.Offset),
		xyz("scale", m.Scale),
		xyz("rotate", m.Rotate),
	)
}

func layerNode(l board.Layer) *kicadsexp.List {
	return kicadsexp.Node("layer", kicadsexp.String(l.KiCadName()))
}

func pointNode(key string, p geom.Point) *kicadsexp.List {
	return kicadsexp.Node(key, coord(p.X), coord(p.Y))
}

func atNode(p geom.Point, rotation float64) *kicadsexp.List {
	node := pointNode("at", p)
	if rotation != 0 {
		node.Append(number(rotation))
	}
	return node
}

func coord(c geom.Coord) kicadsexp.Symbol {
	return kicadsexp.Symbol(c.String())
}

// number formats v with at most six decimals.
func number(v float64) kicadsexp.Symbol {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return "0"
	}
	return kicadsexp.Symbol(strconv.FormatFloat(v, 'f', -1, 64))
}
