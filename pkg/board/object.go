// Package board models PCB components as composable objects: a
// classification, a package, pads, graphics and a derived courtyard.
//
// ComposableObject is the capability interface consumed by the courtyard
// engine and by exporters. Component is the reference implementation;
// concrete parts embed it or implement the interface themselves.
package board

import (
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// ComposableObject is the contract every component satisfies.
//
// Implementations must be immutable once constructed: repeated calls return
// equal results, and Pads and Graphics keep a stable order. Courtyard is
// never empty while Pads is non-empty. A component without pads reports
// an empty courtyard and a degenerate origin bounding box.
type ComposableObject interface {
	FunctionalType() FunctionalType
	Package() PackageType
	ReferencePrefix() string
	FootprintName() string
	Pads() []Pad
	Graphics() []Graphic
	Courtyard() courtyard.Courtyard
	// BoundingBox is the union of pad and graphic extents, courtyard excluded.
	BoundingBox() geom.BoundingBox
}

// Describer is implemented by objects that carry library metadata.
type Describer interface {
	Description() string
	Tags() []string
}

// ModelProvider is implemented by objects with a 3D model reference.
type ModelProvider interface {
	Model3D() (Model3D, bool)
}

// Classifier is implemented by objects that report assembly traits and
// the library they belong to.
type Classifier interface {
	// IsSMT reports whether any pad is surface mounted.
	IsSMT() bool
	IsElectrical() bool
	IsPassive() bool
	// TerminalCount is the number of distinct electrical pad numbers.
	TerminalCount() int
	LibraryName() string
}

// Vec3 is an (x, y, z) triple used by 3D model placement.
type Vec3 struct {
	X, Y, Z float64
}

// Model3D references an external 3D model file.
type Model3D struct {
	Path   string
	Offset Vec3 // Millimetres
	Scale  Vec3
	Rotate Vec3 // Degrees
}

// NewModel3D returns a model at the origin with unit scale.
func NewModel3D(path string) Model3D {
	return Model3D{Path: path, Scale: Vec3{1, 1, 1}}
}

// DeriveCourtyard runs the courtyard engine over pads using the
// clearance class of pkg. Implementations of ComposableObject that do not
// embed Component use it to satisfy Courtyard.
func DeriveCourtyard(pads []Pad, pkg PackageType, policy courtyard.Policy) courtyard.Courtyard {
	return courtyard.Derive(padExtents(pads), pkg.ClearanceClass(), policy)
}

// GeometryBounds returns the union of pad and graphic extents, or the
// degenerate origin box when both are empty.
func GeometryBounds(pads []Pad, graphics []Graphic) geom.BoundingBox {
	extents := padExtents(pads)
	for _, g := range graphics {
		extents = append(extents, g.Extent())
	}
	bb, _ := geom.UnionAll(extents...)
	return bb
}

// TerminalCount counts distinct numbered pads that are not NPTH. Pads
// sharing a number form one terminal.
func TerminalCount(pads []Pad) int {
	seen := make(map[string]bool, len(pads))
	for _, p := range pads {
		if p.Number == "" || p.Kind == PadNPTH {
			continue
		}
		seen[p.Number] = true
	}
	return len(seen)
}
