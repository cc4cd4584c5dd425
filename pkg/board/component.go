package board

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

// Spec holds everything needed to build a Component.
type Spec struct {
	Type    FunctionalType
	Package PackageType
	// Name overrides the derived footprint name.
	Name string
	// Library overrides the derived library name.
	Library     string
	Description string
	Tags        []string
	Pads        []Pad
	Graphics    []Graphic
	Model       *Model3D
	// Policy overrides courtyard.DefaultPolicy.
	Policy *courtyard.Policy
}

// Component is the reference ComposableObject. It is immutable; the
// courtyard and bounding box are derived on first use and cached.
type Component struct {
	spec Spec

	once      sync.Once
	courtyard courtyard.Courtyard
	bounds    geom.BoundingBox
}

var (
	_ ComposableObject = (*Component)(nil)
	_ Describer        = (*Component)(nil)
	_ ModelProvider    = (*Component)(nil)
	_ Classifier       = (*Component)(nil)
)

// New validates spec and builds a Component. Pads are re-validated, and
// authored graphics on a courtyard layer are rejected since the courtyard
// is always derived.
func New(spec Spec) (*Component, error) {
	if spec.Package.Designator() == "" {
		return nil, constructionErr("component", "package", "is required")
	}

	pads := make([]Pad, 0, len(spec.Pads))
	for i, p := range spec.Pads {
		valid, err := NewPad(PadSpec(p))
		if err != nil {
			return nil, fmt.Errorf("pad %d: %w", i, err)
		}
		pads = append(pads, valid)
	}

	graphics := make([]Graphic, 0, len(spec.Graphics))
	for i, g := range spec.Graphics {
		if g == nil {
			return nil, &ConstructionError{Object: "component", Field: "graphics", Reason: fmt.Sprintf("graphic %d is nil", i)}
		}
		if !g.Layer().Valid() {
			return nil, constructionErr("component", "graphics", "graphic %d has invalid layer %s", i, g.Layer())
		}
		if g.Layer().Type == LayerCourtyard {
			return nil, constructionErr("component", "graphics",
				"graphic %d is on %s; courtyards are derived, not authored", i, g.Layer())
		}
		graphics = append(graphics, cloneGraphic(g))
	}

	if spec.Policy != nil {
		if err := spec.Policy.Validate(); err != nil {
			return nil, &ConstructionError{Object: "component", Field: "policy", Reason: "invalid courtyard policy", Err: err}
		}
	}

	spec.Pads = pads
	spec.Graphics = graphics
	spec.Tags = slices.Clone(spec.Tags)
	if spec.Model != nil {
		m := *spec.Model
		spec.Model = &m
	}

	return &Component{spec: spec}, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// fixtures whose parameters are known to be valid.
func MustNew(spec Spec) *Component {
	c, err := New(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Component) derive() {
	c.once.Do(func() {
		c.courtyard = DeriveCourtyard(c.spec.Pads, c.spec.Package, c.Policy())
		c.bounds = GeometryBounds(c.spec.Pads, c.spec.Graphics)
	})
}

func (c *Component) FunctionalType() FunctionalType { return c.spec.Type }

func (c *Component) Package() PackageType { return c.spec.Package }

func (c *Component) ReferencePrefix() string { return c.spec.Type.ReferencePrefix() }

func (c *Component) FootprintName() string {
	if c.spec.Name != "" {
		return c.spec.Name
	}
	return FootprintName(c.spec.Type, c.spec.Package)
}

// Pads returns a copy of the pads in construction order.
func (c *Component) Pads() []Pad {
	return lo.Map(c.spec.Pads, func(p Pad, _ int) Pad { return p.clone() })
}

// Graphics returns a copy of the graphics in construction order.
func (c *Component) Graphics() []Graphic {
	return lo.Map(c.spec.Graphics, func(g Graphic, _ int) Graphic { return cloneGraphic(g) })
}

func (c *Component) Courtyard() courtyard.Courtyard {
	c.derive()
	return c.courtyard
}

func (c *Component) BoundingBox() geom.BoundingBox {
	c.derive()
	return c.bounds
}

func (c *Component) Description() string { return c.spec.Description }

func (c *Component) Tags() []string { return slices.Clone(c.spec.Tags) }

func (c *Component) Model3D() (Model3D, bool) {
	if c.spec.Model == nil {
		return Model3D{}, false
	}
	return *c.spec.Model, true
}

func (c *Component) IsSMT() bool {
	return lo.ContainsBy(c.spec.Pads, func(p Pad) bool { return p.Kind == PadSMD })
}

func (c *Component) IsElectrical() bool { return c.spec.Type.IsElectrical() }

func (c *Component) IsPassive() bool { return c.spec.Type.IsPassive() }

func (c *Component) TerminalCount() int { return TerminalCount(c.spec.Pads) }

func (c *Component) LibraryName() string {
	if c.spec.Library != "" {
		return c.spec.Library
	}
	return LibraryName(c.spec.Type, c.spec.Package)
}

// Policy returns the courtyard policy used by this component.
func (c *Component) Policy() courtyard.Policy {
	if c.spec.Policy != nil {
		return *c.spec.Policy
	}
	return courtyard.DefaultPolicy()
}

// Spec returns a copy of the construction parameters.
func (c *Component) Spec() Spec {
	s := c.spec
	s.Pads = c.Pads()
	s.Graphics = c.Graphics()
	s.Tags = c.Tags()
	return s
}

// WithPads returns a new Component with pads replaced. The courtyard of
// the result is derived afresh.
func (c *Component) WithPads(pads []Pad) (*Component, error) {
	s := c.Spec()
	s.Pads = pads
	return New(s)
}

// WithGraphics returns a new Component with graphics replaced.
func (c *Component) WithGraphics(graphics []Graphic) (*Component, error) {
	s := c.Spec()
	s.Graphics = graphics
	return New(s)
}

// WithPolicy returns a new Component whose courtyard uses policy.
func (c *Component) WithPolicy(policy courtyard.Policy) (*Component, error) {
	s := c.Spec()
	s.Policy = &policy
	return New(s)
}

func (c *Component) String() string {
	return fmt.Sprintf("%s %s (%d pads, %d graphics)", c.FootprintName(), c.spec.Type, len(c.spec.Pads), len(c.spec.Graphics))
}

func padExtents(pads []Pad) []geom.BoundingBox {
	return lo.Map(pads, func(p Pad, _ int) geom.BoundingBox { return p.Extent() })
}

func cloneGraphic(g Graphic) Graphic {
	if p, ok := g.(Polygon); ok {
		p.Points = slices.Clone(p.Points)
		return p
	}
	return g
}
