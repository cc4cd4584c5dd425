package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// PackageKind distinguishes the mounting technology of a package.
type PackageKind int

const (
	PackageSurfaceMount PackageKind = iota
	PackageThroughHole
	PackageCustom
)

func (k PackageKind) String() string {
	switch k {
	case PackageSurfaceMount:
		return "SurfaceMount"
	case PackageThroughHole:
		return "ThroughHole"
	case PackageCustom:
		return "Custom"
	}
	return fmt.Sprintf("PackageKind(%d)", int(k))
}

// PackageType describes the physical package of a component.
type PackageType struct {
	kind       PackageKind
	designator string
	pitch      geom.Coord
	drill      geom.Coord
}

// SurfaceMount returns an SMT package such as ("0603", 1.27mm pitch).
func SurfaceMount(designator string, pitch geom.Coord) (PackageType, error) {
	if designator == "" {
		return PackageType{}, constructionErr("SurfaceMount", "designator", "must not be empty")
	}
	if pitch < 0 {
		return PackageType{}, constructionErr("SurfaceMount", "pitch", "must not be negative, got %s", pitch)
	}
	return PackageType{kind: PackageSurfaceMount, designator: designator, pitch: pitch}, nil
}

// ThroughHole returns a THT package with the given lead drill diameter.
func ThroughHole(designator string, drill geom.Coord) (PackageType, error) {
	if designator == "" {
		return PackageType{}, constructionErr("ThroughHole", "designator", "must not be empty")
	}
	if drill <= 0 {
		return PackageType{}, constructionErr("ThroughHole", "drill", "must be positive, got %s", drill)
	}
	return PackageType{kind: PackageThroughHole, designator: designator, drill: drill}, nil
}

// Custom returns a package that uses the default clearance.
func Custom(name string) (PackageType, error) {
	if name == "" {
		return PackageType{}, constructionErr("Custom", "name", "must not be empty")
	}
	return PackageType{kind: PackageCustom, designator: name}, nil
}

func (p PackageType) Kind() PackageKind { return p.kind }

// Designator returns the package designator, or the name of a custom package.
func (p PackageType) Designator() string { return p.designator }

// Pitch is the lead pitch of an SMT package.
func (p PackageType) Pitch() geom.Coord { return p.pitch }

// Drill is the lead drill diameter of a THT package.
func (p PackageType) Drill() geom.Coord { return p.drill }

// ClearanceClass maps the package to its courtyard policy class.
func (p PackageType) ClearanceClass() courtyard.Class {
	switch p.kind {
	case PackageSurfaceMount:
		return courtyard.ClassSMT
	case PackageThroughHole:
		return courtyard.ClassTHT
	}
	return courtyard.ClassDefault
}

func (p PackageType) String() string {
	switch p.kind {
	case PackageSurfaceMount:
		return fmt.Sprintf("SurfaceMount(%s, %smm)", p.designator, p.pitch)
	case PackageThroughHole:
		return fmt.Sprintf("ThroughHole(%s, %smm)", p.designator, p.drill)
	}
	return fmt.Sprintf("Custom(%s)", p.designator)
}

// FootprintName derives the library name of a footprint, e.g. "C_0603".
func FootprintName(ft FunctionalType, pkg PackageType) string {
	prefix := ft.FootprintPrefix()
	if prefix == "" {
		return pkg.Designator()
	}
	if pkg.Designator() == "" {
		return prefix
	}
	return prefix + "_" + pkg.Designator()
}

// LibraryName derives the KiCad library a footprint belongs to, e.g.
// "Capacitor_SMD" or "Resistor_THT". Mechanical parts go to
// "MountingHole", Other kinds to their name.
func LibraryName(ft FunctionalType, pkg PackageType) string {
	switch ft.Kind() {
	case KindMechanical:
		return "MountingHole"
	case KindOther:
		return ft.Name()
	}

	family := libraryFamilies[ft.Kind()]
	switch pkg.Kind() {
	case PackageSurfaceMount:
		return family + "_SMD"
	case PackageThroughHole:
		return family + "_THT"
	}
	return family
}
