package board

import (
	"fmt"
	"strings"
)

// LayerType enumerates the board layers a footprint can draw on.
type LayerType int

const (
	LayerCopper LayerType = iota
	LayerSilkScreen
	LayerCourtyard
	LayerFabrication
	LayerMask
	LayerPaste
	LayerAdhesive
	layerTypeCount
)

// KiCad suffixes per layer type.
var layerSuffixes = [...]string{
	LayerCopper:      "Cu",
	LayerSilkScreen:  "SilkS",
	LayerCourtyard:   "CrtYd",
	LayerFabrication: "Fab",
	LayerMask:        "Mask",
	LayerPaste:       "Paste",
	LayerAdhesive:    "Adhes",
}

// Side of the board.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "B"
	}
	return "F"
}

// Layer is a layer type on one side of the board.
type Layer struct {
	Type LayerType
	Side Side
}

// Common layers.
var (
	FCu    = Layer{LayerCopper, Front}
	BCu    = Layer{LayerCopper, Back}
	FSilkS = Layer{LayerSilkScreen, Front}
	BSilkS = Layer{LayerSilkScreen, Back}
	FCrtYd = Layer{LayerCourtyard, Front}
	BCrtYd = Layer{LayerCourtyard, Back}
	FFab   = Layer{LayerFabrication, Front}
	BFab   = Layer{LayerFabrication, Back}
	FMask  = Layer{LayerMask, Front}
	BMask  = Layer{LayerMask, Back}
	FPaste = Layer{LayerPaste, Front}
	BPaste = Layer{LayerPaste, Back}
	FAdhes = Layer{LayerAdhesive, Front}
	BAdhes = Layer{LayerAdhesive, Back}
)

// Valid reports whether l names a known layer.
func (l Layer) Valid() bool {
	return l.Type >= 0 && l.Type < layerTypeCount && (l.Side == Front || l.Side == Back)
}

// KiCadName returns the layer name used in footprint files ("F.Cu").
// Invalid layers return an empty string.
func (l Layer) KiCadName() string {
	if !l.Valid() {
		return ""
	}
	return l.Side.String() + "." + layerSuffixes[l.Type]
}

func (l Layer) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Layer(%d,%d)", int(l.Type), int(l.Side))
	}
	return l.KiCadName()
}

// ParseLayer is the inverse of KiCadName.
func ParseLayer(name string) (Layer, error) {
	side, suffix, ok := strings.Cut(name, ".")
	if !ok {
		return Layer{}, fmt.Errorf("unknown layer %q", name)
	}

	var l Layer
	switch side {
	case "F":
		l.Side = Front
	case "B":
		l.Side = Back
	default:
		return Layer{}, fmt.Errorf("unknown layer %q", name)
	}

	for t, s := range layerSuffixes {
		if s == suffix {
			l.Type = LayerType(t)
			return l, nil
		}
	}
	return Layer{}, fmt.Errorf("unknown layer %q", name)
}

// ParseLayers parses a pad layer list, expanding KiCad's "*.Cu" style
// wildcards to both sides.
func ParseLayers(names []string) ([]Layer, error) {
	var out []Layer
	for _, name := range names {
		if suffix, ok := strings.CutPrefix(name, "*."); ok {
			front, err := ParseLayer("F." + suffix)
			if err != nil {
				return nil, fmt.Errorf("unknown layer %q", name)
			}
			out = append(out, front, Layer{Type: front.Type, Side: Back})
			continue
		}
		l, err := ParseLayer(name)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// SMDLayers returns copper, paste and mask on one side.
func SMDLayers(side Side) []Layer {
	return []Layer{{LayerCopper, side}, {LayerPaste, side}, {LayerMask, side}}
}

// THTLayers returns copper and mask on both sides.
func THTLayers() []Layer {
	return []Layer{FCu, BCu, FMask, BMask}
}

// NPTHLayers returns the layers of a non-plated hole.
func NPTHLayers() []Layer {
	return []Layer{FCu, BCu, FMask, BMask}
}
