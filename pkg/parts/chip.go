package parts

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// ChipSize is the land pattern of an imperial chip size.
type ChipSize struct {
	Imperial string
	Metric   string
	Body     geom.Size
	Pad      geom.Size
	// PadOffset is the distance from the origin to each pad centre.
	PadOffset geom.Coord
}

// ChipSizes lists the supported chip sizes, smallest first.
var ChipSizes = []ChipSize{
	{"0201", "0603", geom.Sz(0.6, 0.3), geom.Sz(0.46, 0.4), geom.MM(0.32)},
	{"0402", "1005", geom.Sz(1.0, 0.5), geom.Sz(0.59, 0.64), geom.MM(0.48)},
	{"0603", "1608", geom.Sz(1.6, 0.8), geom.Sz(0.9, 0.95), geom.MM(0.775)},
	{"0805", "2012", geom.Sz(2.0, 1.25), geom.Sz(1.0, 1.45), geom.MM(0.95)},
	{"1206", "3216", geom.Sz(3.2, 1.6), geom.Sz(1.15, 1.8), geom.MM(1.475)},
	{"1210", "3225", geom.Sz(3.2, 2.5), geom.Sz(1.15, 2.7), geom.MM(1.475)},
	{"2512", "6332", geom.Sz(6.4, 3.2), geom.Sz(1.5, 3.35), geom.MM(3.15)},
}

// LookupChipSize finds a chip size by its imperial code.
func LookupChipSize(imperial string) (ChipSize, bool) {
	for _, s := range ChipSizes {
		if s.Imperial == imperial {
			return s, true
		}
	}
	return ChipSize{}, false
}

var chipLibraries = map[board.Kind]string{
	board.KindResistor:  "Resistor_SMD",
	board.KindCapacitor: "Capacitor_SMD",
	board.KindInductor:  "Inductor_SMD",
	board.KindLED:       "LED_SMD",
	board.KindDiode:     "Diode_SMD",
	board.KindFuse:      "Fuse",
}

// Chip is a two-terminal surface-mount part.
type Chip struct {
	*board.Component
	Size ChipSize
}

// NewChip builds a chip of the given kind, size and value. Polarized
// kinds (LED, diode) have pad 1 as cathode.
func NewChip(kind board.Kind, size, value string) (*Chip, error) {
	library, ok := chipLibraries[kind]
	if !ok {
		return nil, &board.ConstructionError{Object: "chip", Field: "kind", Reason: fmt.Sprintf("%s is not a chip kind", kind)}
	}
	cs, ok := LookupChipSize(size)
	if !ok {
		return nil, &board.ConstructionError{Object: "chip", Field: "size", Reason: fmt.Sprintf("unknown size %q", size)}
	}

	ft, err := board.OfKind(kind, "", value)
	if err != nil {
		return nil, err
	}
	pkg, err := board.SurfaceMount(cs.Imperial, 2*cs.PadOffset)
	if err != nil {
		return nil, err
	}

	var pads []board.Pad
	for i, x := range []geom.Coord{-cs.PadOffset, cs.PadOffset} {
		p, err := smdPad(fmt.Sprint(i+1), geom.Point{X: x}, cs.Pad, board.ShapeRoundRect)
		if err != nil {
			return nil, err
		}
		pads = append(pads, p)
	}

	body := geom.BoxAround(geom.Point{}, cs.Body)
	var g graphics
	g.rect(body, board.FFab, FabWidth)

	// Silkscreen stays 0.2 mm clear of the copper
	inner := cs.PadOffset - half(cs.Pad.W) - geom.MM(0.2)
	silkY := half(cs.Body.H) + geom.MM(0.11)
	if padTop := half(cs.Pad.H) + geom.MM(0.2); silkY < padTop {
		silkY = padTop
	}
	if inner > geom.MM(0.05) {
		g.line(-inner, -silkY, inner, -silkY, board.FSilkS, SilkWidth)
		g.line(-inner, silkY, inner, silkY, board.FSilkS, SilkWidth)
	}

	if kind == board.KindLED || kind == board.KindDiode {
		mark := body.Min.X + cs.Body.W/4
		g.line(mark, body.Min.Y, mark, body.Max.Y, board.FFab, FabWidth)
	}
	g.fabReference(body)
	if g.err != nil {
		return nil, g.err
	}

	name := board.FootprintName(ft, pkg)
	fullName := fmt.Sprintf("%s_%s_%sMetric", ft.FootprintPrefix(), cs.Imperial, cs.Metric)
	kindName := strings.ToLower(kind.String())

	c, err := board.New(board.Spec{
		Type:        ft,
		Package:     pkg,
		Description: fmt.Sprintf("%s SMD %s (%s Metric)", kind, cs.Imperial, cs.Metric),
		Tags:        []string{kindName, cs.Imperial},
		Pads:        pads,
		Graphics:    g.items,
		Library:     library,
		Model:       model(library, fullName),
	})
	if err != nil {
		return nil, fmt.Errorf("chip %s: %w", name, err)
	}
	return &Chip{Component: c, Size: cs}, nil
}
