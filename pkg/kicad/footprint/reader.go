package footprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp/kicadsexp"
)

// Footprint-name prefixes and the functional kinds they imply.
var prefixKinds = map[string]board.Kind{
	"R":            board.KindResistor,
	"C":            board.KindCapacitor,
	"L":            board.KindInductor,
	"D":            board.KindDiode,
	"LED":          board.KindLED,
	"Fuse":         board.KindFuse,
	"MountingHole": board.KindMechanical,
}

// Name prefixes of connector footprints, which carry no functional prefix.
var connectorPrefixes = []string{"PinHeader", "PinSocket", "Conn", "TerminalBlock"}

// ParseFile reads a .kicad_mod file.
func ParseFile(path string) (*board.Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a footprint into a Component. Authored courtyard graphics
// are dropped; the courtyard is derived again from the pads. The
// functional type is inferred from the name prefix and the package from
// the attributes.
func Parse(r io.Reader) (*board.Component, error) {
	exprs, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint: %w", err)
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("empty footprint file")
	}
	return parseFootprint(exprs[0])
}

func parseFootprint(node kicadsexp.Sexp) (*board.Component, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected footprint list, got leaf")
	}
	key, err := sexp.GetNodeName(node)
	if err != nil {
		return nil, err
	}
	if key != "footprint" && key != "module" {
		return nil, fmt.Errorf("expected footprint, got %q", key)
	}

	name, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	if v, ok := sexp.FindNode(node, "version"); ok {
		format, err := sexp.GetInt(v, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint version: %w", err)
		}
		if latest := releases[len(releases)-1]; format > latest.format {
			return nil, fmt.Errorf("footprint format %d is newer than KiCad %s (%d)", format, latest.name, latest.format)
		}
	}

	var spec board.Spec

	// "Library:Name" carries the library
	if lib, after, found := strings.Cut(name, ":"); found {
		spec.Library, name = lib, after
	}

	var (
		pads     []board.Pad
		graphics []board.Graphic
		value    string
	)

	for i, item := range sexp.GetListItems(node) {
		if item.IsLeaf() {
			continue
		}
		itemKey, err := sexp.GetNodeName(item)
		if err != nil {
			continue
		}

		switch itemKey {
		case "descr":
			spec.Description, _ = sexp.GetString(item, 1)

		case "tags":
			tags, _ := sexp.GetString(item, 1)
			spec.Tags = strings.Fields(tags)

		case "pad":
			p, err := parsePad(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			pads = append(pads, p)

		case "fp_line", "fp_arc", "fp_circle", "fp_rect", "fp_poly":
			g, err := parseGraphic(itemKey, item)
			if err != nil {
				return nil, fmt.Errorf("element %d (%s): %w", i, itemKey, err)
			}
			if g.Layer().Type == board.LayerCourtyard {
				continue
			}
			graphics = append(graphics, g)

		case "fp_text":
			t, err := parseFpText(item)
			if err != nil {
				return nil, fmt.Errorf("element %d (fp_text): %w", i, err)
			}
			if t.Layer().Type == board.LayerCourtyard {
				continue
			}
			if t.Kind == board.TextValue {
				value = t.Content
			}
			graphics = append(graphics, t)

		case "property":
			t, ok, err := parseProperty(item)
			if err != nil {
				return nil, fmt.Errorf("element %d (property): %w", i, err)
			}
			if !ok {
				continue
			}
			if t.Kind == board.TextValue {
				value = t.Content
			}
			graphics = append(graphics, t)

		case "model":
			m, err := parseModel(item)
			if err != nil {
				return nil, fmt.Errorf("element %d (model): %w", i, err)
			}
			spec.Model = &m
		}
	}

	// Value defaults to the footprint name
	if value == name {
		value = ""
	}

	ft, designator := inferFunctionalType(name, value)
	pkg, err := inferPackage(node, designator, pads)
	if err != nil {
		return nil, err
	}

	spec.Type = ft
	spec.Package = pkg
	spec.Name = name
	spec.Pads = pads
	spec.Graphics = graphics

	c, err := board.New(spec)
	if err != nil {
		return nil, fmt.Errorf("footprint %s: %w", name, err)
	}
	return c, nil
}

func parseFpText(node kicadsexp.Sexp) (board.Text, error) {
	kindName, err := sexp.GetString(node, 1)
	if err != nil {
		return board.Text{}, fmt.Errorf("failed to parse text type: %w", err)
	}
	content, err := sexp.GetString(node, 2)
	if err != nil {
		return board.Text{}, fmt.Errorf("failed to parse text content: %w", err)
	}

	kind := board.TextUser
	switch kindName {
	case "reference":
		kind = board.TextReference
	case "value":
		kind = board.TextValue
	}
	return parseText(kind, content, node)
}

// parseProperty reads the Reference and Value properties. Other
// properties are reported with ok false.
func parseProperty(node kicadsexp.Sexp) (board.Text, bool, error) {
	propName, err := sexp.GetString(node, 1)
	if err != nil {
		return board.Text{}, false, fmt.Errorf("failed to parse property name: %w", err)
	}
	content, err := sexp.GetString(node, 2)
	if err != nil {
		return board.Text{}, false, fmt.Errorf("failed to parse property value: %w", err)
	}

	var kind board.TextKind
	switch propName {
	case "Reference":
		kind = board.TextReference
	case "Value":
		kind = board.TextValue
	default:
		return board.Text{}, false, nil
	}

	t, err := parseText(kind, content, node)
	if err != nil {
		return board.Text{}, false, err
	}
	return t, true, nil
}

// parsePad extracts a pad definition
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) ...)
func parsePad(node kicadsexp.Sexp) (board.Pad, error) {
	var spec board.PadSpec

	number, err := sexp.GetString(node, 1)
	if err != nil {
		return board.Pad{}, fmt.Errorf("failed to parse pad number: %w", err)
	}
	spec.Number = number

	kindName, err := sexp.GetString(node, 2)
	if err != nil {
		return board.Pad{}, fmt.Errorf("failed to parse pad type: %w", err)
	}
	if spec.Kind, err = board.ParsePadKind(kindName); err != nil {
		return board.Pad{}, err
	}

	shapeName, err := sexp.GetString(node, 3)
	if err != nil {
		return board.Pad{}, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	if spec.Shape, err = board.ParsePadShape(shapeName); err != nil {
		return board.Pad{}, err
	}

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return board.Pad{}, fmt.Errorf("missing required 'at' position")
	}
	if spec.Center, spec.Rotation, err = sexp.GetAt(atNode); err != nil {
		return board.Pad{}, fmt.Errorf("failed to parse pad position: %w", err)
	}

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return board.Pad{}, fmt.Errorf("missing required 'size' field")
	}
	if spec.Size, err = sexp.GetSize(sizeNode); err != nil {
		return board.Pad{}, fmt.Errorf("failed to parse pad size: %w", err)
	}

	// Drill is (drill d) or (drill oval w h); oval drills use the width
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		idx := 1
		if first, _ := sexp.GetString(drillNode, 1); first == "oval" {
			idx = 2
		}
		if spec.Drill, err = sexp.GetCoord(drillNode, idx); err != nil {
			return board.Pad{}, fmt.Errorf("failed to parse pad drill: %w", err)
		}
	}

	layersNode, found := sexp.FindNode(node, "layers")
	if !found {
		return board.Pad{}, fmt.Errorf("missing required 'layers' field")
	}
	if spec.Layers, err = board.ParseLayers(sexp.GetStrings(layersNode)); err != nil {
		return board.Pad{}, fmt.Errorf("pad %s: %w", number, err)
	}

	if ratioNode, found := sexp.FindNode(node, "roundrect_rratio"); found {
		if spec.RoundRectRatio, err = sexp.GetFloat(ratioNode, 1); err != nil {
			return board.Pad{}, fmt.Errorf("failed to parse roundrect ratio: %w", err)
		}
	}

	return board.NewPad(spec)
}

func parseModel(node kicadsexp.Sexp) (board.Model3D, error) {
	path, err := sexp.GetString(node, 1)
	if err != nil {
		return board.Model3D{}, fmt.Errorf("failed to parse model path: %w", err)
	}
	m := board.NewModel3D(path)

	xyz := func(keys ...string) (board.Vec3, bool, error) {
		for _, key := range keys {
			n, found := sexp.FindNode(node, key)
			if !found {
				continue
			}
			v, found := sexp.FindNode(n, "xyz")
			if !found {
				return board.Vec3{}, false, fmt.Errorf("missing xyz in %s", key)
			}
			var out [3]float64
			for i := range out {
				if out[i], err = sexp.GetFloat(v, i+1); err != nil {
					return board.Vec3{}, false, fmt.Errorf("failed to parse %s: %w", key, err)
				}
			}
			return board.Vec3{X: out[0], Y: out[1], Z: out[2]}, true, nil
		}
		return board.Vec3{}, false, nil
	}

	// Older files use (at (xyz ...)) for the offset, in inches
	if v, ok, err := xyz("offset"); err != nil {
		return board.Model3D{}, err
	} else if ok {
		m.Offset = v
	} else if v, ok, err := xyz("at"); err != nil {
		return board.Model3D{}, err
	} else if ok {
		m.Offset = board.Vec3{X: v.X * 25.4, Y: v.Y * 25.4, Z: v.Z * 25.4}
	}

	if v, ok, err := xyz("scale"); err != nil {
		return board.Model3D{}, err
	} else if ok {
		m.Scale = v
	}
	if v, ok, err := xyz("rotate"); err != nil {
		return board.Model3D{}, err
	} else if ok {
		m.Rotate = v
	}
	return m, nil
}

// inferFunctionalType maps the name prefix to a kind and returns the
// remaining designator. A value the kind cannot hold keeps the prefix
// through an Other type so the footprint name is unchanged.
func inferFunctionalType(name, value string) (board.FunctionalType, string) {
	prefix, rest, found := strings.Cut(name, "_")
	if found && rest != "" {
		if kind, ok := prefixKinds[prefix]; ok {
			ft, err := board.OfKind(kind, "", value)
			if err != nil {
				ft, _ = board.Other(prefix, value)
			}
			return ft, rest
		}
	}

	for _, p := range connectorPrefixes {
		if strings.HasPrefix(name, p) {
			return board.Connector(value), name
		}
	}
	return board.IntegratedCircuit(value), name
}

func inferPackage(node kicadsexp.Sexp, designator string, pads []board.Pad) (board.PackageType, error) {
	var attrs []string
	if attrNode, found := sexp.FindNode(node, "attr"); found {
		attrs = sexp.GetStrings(attrNode)
	}

	has := func(flag string) bool {
		for _, a := range attrs {
			if a == flag {
				return true
			}
		}
		return false
	}

	switch {
	case has("smd"):
		return board.SurfaceMount(designator, padPitch(pads))
	case has("through_hole"):
		if drill := smallestDrill(pads); drill > 0 {
			return board.ThroughHole(designator, drill)
		}
	}
	return board.Custom(designator)
}

// padPitch is the smallest centre distance between consecutive pads.
func padPitch(pads []board.Pad) geom.Coord {
	var pitch geom.Coord
	for i := 1; i < len(pads); i++ {
		d := geom.Distance(pads[i-1].Center, pads[i].Center)
		if d > 0 && (pitch == 0 || d < pitch) {
			pitch = d
		}
	}
	return pitch
}

func smallestDrill(pads []board.Pad) geom.Coord {
	var drill geom.Coord
	for _, p := range pads {
		if p.Drill > 0 && (drill == 0 || p.Drill < drill) {
			drill = p.Drill
		}
	}
	return drill
}
