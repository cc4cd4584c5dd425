package parts

import (
	"sort"

	"github.com/samber/lo"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Preset is a named, ready-to-build part.
type Preset struct {
	Name    string
	Summary string
	Build   func() (board.ComposableObject, error)
}

// build keeps a failed constructor from returning a typed nil interface.
func build[T board.ComposableObject](obj T, err error) (board.ComposableObject, error) {
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func chip(kind board.Kind, size, value string) func() (board.ComposableObject, error) {
	return func() (board.ComposableObject, error) { return build(NewChip(kind, size, value)) }
}

var presets = []Preset{
	{"C_0402", "100nF decoupling capacitor", chip(board.KindCapacitor, "0402", "100nF")},
	{"C_0603", "100nF decoupling capacitor", chip(board.KindCapacitor, "0603", "100nF")},
	{"C_0805", "10uF bulk capacitor", chip(board.KindCapacitor, "0805", "10uF")},
	{"C_1210", "47uF bulk capacitor", chip(board.KindCapacitor, "1210", "47uF")},
	{"R_0201", "0R jumper", chip(board.KindResistor, "0201", "0R")},
	{"R_0402", "4k7 pull-up", chip(board.KindResistor, "0402", "4k7")},
	{"R_0603", "10k resistor", chip(board.KindResistor, "0603", "10k")},
	{"R_2512", "10mR current sense", chip(board.KindResistor, "2512", "10mΩ")},
	{"L_0805", "4.7uH inductor", chip(board.KindInductor, "0805", "4.7uH")},
	{"LED_0603", "Indicator LED", chip(board.KindLED, "0603", "red")},
	{"D_0805", "Signal diode", chip(board.KindDiode, "0805", "1N4148W")},
	{"Fuse_1206", "500mA resettable fuse", chip(board.KindFuse, "1206", "500mA")},
	{"SOIC-8", "NE555 timer", func() (board.ComposableObject, error) {
		return build(NewSOIC(8, geom.MM(1.27), "NE555"))
	}},
	{"SOIC-14", "74HC00 quad NAND", func() (board.ComposableObject, error) {
		return build(NewSOIC(14, geom.MM(1.27), "74HC00"))
	}},
	{"DIP-8", "NE555 timer", func() (board.ComposableObject, error) {
		return build(NewDIP(8, geom.MM(7.62), "NE555"))
	}},
	{"PinHeader_1x04", "4-pin header", func() (board.ComposableObject, error) {
		return build(NewPinHeader(4, 1))
	}},
	{"PinHeader_2x05", "10-pin JTAG header", func() (board.ComposableObject, error) {
		return build(NewPinHeader(5, 2))
	}},
	{"R_Axial", "1k axial resistor", func() (board.ComposableObject, error) {
		return build(NewAxial(board.KindResistor, geom.MM(10.16), "1k"))
	}},
	{"D_Axial", "1N4148 axial diode", func() (board.ComposableObject, error) {
		return build(NewAxial(board.KindDiode, geom.MM(10.16), "1N4148"))
	}},
	{"MountingHole_3.2mm", "M3 mounting hole", func() (board.ComposableObject, error) {
		return build(NewMountingHole(geom.MM(3.2)))
	}},
	{"MountingHole_2.7mm", "M2.5 mounting hole", func() (board.ComposableObject, error) {
		return build(NewMountingHole(geom.MM(2.7)))
	}},
}

// Catalog returns every preset, sorted by name.
func Catalog() []Preset {
	out := append([]Preset(nil), presets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted preset names.
func Names() []string {
	return lo.Map(Catalog(), func(p Preset, _ int) string { return p.Name })
}

// Lookup finds a preset by name.
func Lookup(name string) (Preset, bool) {
	return lo.Find(presets, func(p Preset) bool { return p.Name == name })
}
