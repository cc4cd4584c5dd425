package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/value"
)

// Kind identifies the electrical role of a component.
type Kind int

const (
	KindResistor Kind = iota
	KindCapacitor
	KindInductor
	KindIntegratedCircuit
	KindConnector
	KindDiode
	KindLED
	KindFuse
	KindMechanical
	KindOther
)

var kindNames = map[Kind]string{
	KindResistor:          "Resistor",
	KindCapacitor:         "Capacitor",
	KindInductor:          "Inductor",
	KindIntegratedCircuit: "IntegratedCircuit",
	KindConnector:         "Connector",
	KindDiode:             "Diode",
	KindLED:               "LED",
	KindFuse:              "Fuse",
	KindMechanical:        "Mechanical",
	KindOther:             "Other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Reference designator and footprint-name prefixes per kind.
var (
	referencePrefixes = map[Kind]string{
		KindResistor:          "R",
		KindCapacitor:         "C",
		KindInductor:          "L",
		KindIntegratedCircuit: "U",
		KindConnector:         "J",
		KindDiode:             "D",
		KindLED:               "D",
		KindFuse:              "F",
		KindMechanical:        "H",
		KindOther:             "U",
	}
	footprintPrefixes = map[Kind]string{
		KindResistor:   "R",
		KindCapacitor:  "C",
		KindInductor:   "L",
		KindDiode:      "D",
		KindLED:        "LED",
		KindFuse:       "Fuse",
		KindMechanical: "MountingHole",
	}
	// KiCad library family per kind; SMD/THT suffixes are added by package.
	libraryFamilies = map[Kind]string{
		KindResistor:          "Resistor",
		KindCapacitor:         "Capacitor",
		KindInductor:          "Inductor",
		KindIntegratedCircuit: "Package",
		KindConnector:         "Connector",
		KindDiode:             "Diode",
		KindLED:               "LED",
		KindFuse:              "Fuse",
	}
	valueUnits = map[Kind]string{
		KindResistor:  value.UnitOhm,
		KindCapacitor: value.UnitFarad,
		KindInductor:  value.UnitHenry,
		KindFuse:      value.UnitAmpere,
	}
)

// FunctionalType is the electrical classification of a component together
// with its optional value ("100nF", "10k").
type FunctionalType struct {
	kind  Kind
	value string
	name  string
}

func newValued(kind Kind, v string) (FunctionalType, error) {
	if v != "" {
		parsed, err := value.Parse(v)
		if err != nil {
			return FunctionalType{}, &ConstructionError{
				Object: kind.String(), Field: "value", Reason: fmt.Sprintf("cannot parse %q", v), Err: err,
			}
		}
		if !parsed.Compatible(valueUnits[kind]) {
			return FunctionalType{}, constructionErr(kind.String(), "value",
				"unit %q does not match %s", parsed.Unit, valueUnits[kind])
		}
	}
	return FunctionalType{kind: kind, value: v}, nil
}

// Resistor returns a resistor type; v must be a resistance if set.
func Resistor(v string) (FunctionalType, error) { return newValued(KindResistor, v) }

// Capacitor returns a capacitor type; v must be a capacitance if set.
func Capacitor(v string) (FunctionalType, error) { return newValued(KindCapacitor, v) }

// Inductor returns an inductor type; v must be an inductance if set.
func Inductor(v string) (FunctionalType, error) { return newValued(KindInductor, v) }

// Fuse returns a fuse type; v must be a current rating if set.
func Fuse(v string) (FunctionalType, error) { return newValued(KindFuse, v) }

func IntegratedCircuit(v string) FunctionalType {
	return FunctionalType{kind: KindIntegratedCircuit, value: v}
}

func Connector(v string) FunctionalType { return FunctionalType{kind: KindConnector, value: v} }

func Diode(v string) FunctionalType { return FunctionalType{kind: KindDiode, value: v} }

func LED(v string) FunctionalType { return FunctionalType{kind: KindLED, value: v} }

func Mechanical(v string) FunctionalType { return FunctionalType{kind: KindMechanical, value: v} }

// Other returns a user-defined type. The name doubles as footprint prefix.
func Other(name, v string) (FunctionalType, error) {
	if name == "" {
		return FunctionalType{}, constructionErr("Other", "name", "must not be empty")
	}
	return FunctionalType{kind: KindOther, name: name, value: v}, nil
}

// OfKind builds a FunctionalType for kind, validating v where the kind
// carries a unit. name is only used by KindOther.
func OfKind(kind Kind, name, v string) (FunctionalType, error) {
	switch kind {
	case KindResistor, KindCapacitor, KindInductor, KindFuse:
		return newValued(kind, v)
	case KindOther:
		return Other(name, v)
	case KindIntegratedCircuit, KindConnector, KindDiode, KindLED, KindMechanical:
		return FunctionalType{kind: kind, value: v}, nil
	}
	return FunctionalType{}, constructionErr("FunctionalType", "kind", "unknown kind %d", int(kind))
}

func (f FunctionalType) Kind() Kind { return f.kind }

func (f FunctionalType) Value() string { return f.value }

// Name is the custom name of an Other type, empty otherwise.
func (f FunctionalType) Name() string { return f.name }

func (f FunctionalType) ReferencePrefix() string { return referencePrefixes[f.kind] }

func (f FunctionalType) FootprintPrefix() string {
	if f.kind == KindOther {
		return f.name
	}
	return footprintPrefixes[f.kind]
}

func (f FunctionalType) String() string {
	label := f.kind.String()
	if f.kind == KindOther {
		label = f.name
	}
	if f.value == "" {
		return label
	}
	return fmt.Sprintf("%s(%s)", label, f.value)
}

// IsPassive reports whether the kind is a passive two-terminal element.
func (f FunctionalType) IsPassive() bool {
	switch f.kind {
	case KindResistor, KindCapacitor, KindInductor, KindFuse:
		return true
	}
	return false
}

// IsElectrical is false only for purely mechanical parts.
func (f FunctionalType) IsElectrical() bool { return f.kind != KindMechanical }
