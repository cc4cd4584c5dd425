package footprint

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp/kicadsexp"
)

// parseStroke reads (stroke (width w) (type t)) or the older bare (width w).
func parseStroke(node kicadsexp.Sexp) (board.Stroke, error) {
	if strokeNode, found := sexp.FindNode(node, "stroke"); found && !strokeNode.IsLeaf() {
		var s board.Stroke
		if widthNode, found := sexp.FindNode(strokeNode, "width"); found {
			w, err := sexp.GetCoord(widthNode, 1)
			if err != nil {
				return board.Stroke{}, fmt.Errorf("failed to parse stroke width: %w", err)
			}
			s.Width = w
		}
		if typ, ok := sexp.GetChildString(strokeNode, "type"); ok {
			style, err := board.ParseStrokeStyle(typ)
			if err != nil {
				return board.Stroke{}, err
			}
			s.Style = style
		}
		return s, nil
	}

	if widthNode, found := sexp.FindNode(node, "width"); found && !widthNode.IsLeaf() {
		w, err := sexp.GetCoord(widthNode, 1)
		if err != nil {
			return board.Stroke{}, fmt.Errorf("failed to parse width: %w", err)
		}
		return board.Solid(w), nil
	}

	return board.Stroke{}, nil
}

// parseFill accepts both (fill solid|none) and the newer (fill yes|no).
func parseFill(node kicadsexp.Sexp) bool {
	v, ok := sexp.GetChildString(node, "fill")
	return ok && (v == "solid" || v == "yes")
}

func parseLayer(node kicadsexp.Sexp) (board.Layer, error) {
	name, ok := sexp.GetChildString(node, "layer")
	if !ok {
		return board.Layer{}, fmt.Errorf("missing required 'layer' field")
	}
	return board.ParseLayer(name)
}

func parsePointField(node kicadsexp.Sexp, key string) (geom.Point, error) {
	n, found := sexp.FindNode(node, key)
	if !found {
		return geom.Point{}, fmt.Errorf("missing required '%s' field", key)
	}
	p, err := sexp.GetPoint(n)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return p, nil
}

// parseGraphic reads fp_line, fp_arc, fp_circle, fp_rect and fp_poly.
func parseGraphic(key string, node kicadsexp.Sexp) (board.Graphic, error) {
	layer, err := parseLayer(node)
	if err != nil {
		return nil, err
	}
	stroke, err := parseStroke(node)
	if err != nil {
		return nil, err
	}

	switch key {
	case "fp_line":
		start, err := parsePointField(node, "start")
		if err != nil {
			return nil, err
		}
		end, err := parsePointField(node, "end")
		if err != nil {
			return nil, err
		}
		return board.NewLine(start, end, layer, stroke)

	case "fp_arc":
		start, err := parsePointField(node, "start")
		if err != nil {
			return nil, err
		}
		mid, err := parsePointField(node, "mid")
		if err != nil {
			return nil, err
		}
		end, err := parsePointField(node, "end")
		if err != nil {
			return nil, err
		}
		return board.NewArc(start, mid, end, layer, stroke)

	case "fp_circle":
		center, err := parsePointField(node, "center")
		if err != nil {
			return nil, err
		}
		end, err := parsePointField(node, "end")
		if err != nil {
			return nil, err
		}
		c, err := board.NewCircle(center, geom.Distance(center, end), layer, stroke, parseFill(node))
		if err != nil {
			return nil, err
		}
		c.End = end
		return c, nil

	case "fp_rect":
		start, err := parsePointField(node, "start")
		if err != nil {
			return nil, err
		}
		end, err := parsePointField(node, "end")
		if err != nil {
			return nil, err
		}
		return board.NewRect(start, end, layer, stroke, parseFill(node))

	case "fp_poly":
		ptsNode, found := sexp.FindNode(node, "pts")
		if !found {
			return nil, fmt.Errorf("missing required 'pts' field")
		}
		var points []geom.Point
		for _, xy := range sexp.FindAllNodes(ptsNode, "xy") {
			p, err := sexp.GetPoint(xy)
			if err != nil {
				return nil, fmt.Errorf("failed to parse polygon point: %w", err)
			}
			points = append(points, p)
		}
		return board.NewPolygon(points, layer, stroke, parseFill(node))
	}

	return nil, fmt.Errorf("unsupported graphic %q", key)
}

// parseText reads the position, layer, visibility and font of an
// fp_text or property node.
func parseText(kind board.TextKind, content string, node kicadsexp.Sexp) (board.Text, error) {
	var (
		pos geom.Point
		rot float64
	)
	if atNode, found := sexp.FindNode(node, "at"); found {
		p, angle, err := sexp.GetAt(atNode)
		if err != nil {
			return board.Text{}, fmt.Errorf("failed to parse text position: %w", err)
		}
		pos, rot = p, angle
	}

	layer, err := parseLayer(node)
	if err != nil {
		return board.Text{}, err
	}

	size, thickness := DefaultTextSize, DefaultTextThickness
	effects, hasEffects := sexp.FindNode(node, "effects")
	if hasEffects {
		if font, found := sexp.FindNode(effects, "font"); found {
			if sizeNode, found := sexp.FindNode(font, "size"); found {
				// Font sizes are written height first
				s, err := sexp.GetSize(sizeNode)
				if err != nil {
					return board.Text{}, fmt.Errorf("failed to parse font size: %w", err)
				}
				size = geom.Size{W: s.H, H: s.W}
			}
			if thickNode, found := sexp.FindNode(font, "thickness"); found {
				t, err := sexp.GetCoord(thickNode, 1)
				if err != nil {
					return board.Text{}, fmt.Errorf("failed to parse font thickness: %w", err)
				}
				thickness = t
			}
		}
	}

	t, err := board.NewText(kind, content, pos, layer, size, thickness)
	if err != nil {
		return board.Text{}, err
	}
	t = t.WithRotation(rot)

	if isHidden(node) || (hasEffects && isHidden(effects)) {
		t = t.AsHidden()
	}
	return t, nil
}

// isHidden understands both the bare "hide" flag and (hide yes).
func isHidden(node kicadsexp.Sexp) bool {
	if sexp.HasSymbol(node, "hide") {
		return true
	}
	hide, found := sexp.FindNode(node, "hide")
	if !found || hide.IsLeaf() {
		return false
	}
	v, err := sexp.GetString(hide, 1)
	return err != nil || v == "yes"
}
