package board

import (
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

func smdPad(t *testing.T, number string, x, y, w, h float64) Pad {
	t.Helper()
	p, err := NewPad(PadSpec{
		Number: number,
		Kind:   PadSMD,
		Shape:  ShapeRect,
		Center: geom.Pt(x, y),
		Size:   geom.Sz(w, h),
		Layers: SMDLayers(Front),
	})
	require.NoError(t, err)
	return p
}

func cap0603(t *testing.T) *Component {
	t.Helper()
	ft, err := Capacitor("100nF")
	require.NoError(t, err)
	pkg, err := SurfaceMount("0603", geom.MM(1.27))
	require.NoError(t, err)

	c, err := New(Spec{
		Type:    ft,
		Package: pkg,
		Pads: []Pad{
			smdPad(t, "1", -0.75, 0, 1.0, 0.5),
			smdPad(t, "2", 0.75, 0, 1.0, 0.5),
		},
	})
	require.NoError(t, err)
	return c
}

func TestFootprintName(t *testing.T) {
	smt, err := SurfaceMount("0603", geom.MM(1.27))
	require.NoError(t, err)
	tht, err := ThroughHole("DIP-8", geom.MM(0.8))
	require.NoError(t, err)

	capacitor, err := Capacitor("100nF")
	require.NoError(t, err)
	other, err := Other("Crystal", "16MHz")
	require.NoError(t, err)

	tests := []struct {
		name string
		ft   FunctionalType
		pkg  PackageType
		want string
	}{
		{"capacitor", capacitor, smt, "C_0603"},
		{"led", LED("red"), smt, "LED_0603"},
		{"ic has no prefix", IntegratedCircuit("NE555"), tht, "DIP-8"},
		{"other uses its name", other, smt, "Crystal_0603"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FootprintName(tt.ft, tt.pkg))
			assert.Equal(t, FootprintName(tt.ft, tt.pkg), FootprintName(tt.ft, tt.pkg))
		})
	}
}

func TestFunctionalTypeValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (FunctionalType, error)
		wantErr bool
	}{
		{"resistor rkm", func() (FunctionalType, error) { return Resistor("4k7") }, false},
		{"resistor with ohm", func() (FunctionalType, error) { return Resistor("10kΩ") }, false},
		{"resistor empty", func() (FunctionalType, error) { return Resistor("") }, false},
		{"resistor given farads", func() (FunctionalType, error) { return Resistor("10uF") }, true},
		{"capacitor garbage", func() (FunctionalType, error) { return Capacitor("big") }, true},
		{"inductor", func() (FunctionalType, error) { return Inductor("4.7uH") }, false},
		{"fuse", func() (FunctionalType, error) { return Fuse("500mA") }, false},
		{"other without name", func() (FunctionalType, error) { return Other("", "") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConstruction))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestReferencePrefix(t *testing.T) {
	r, err := Resistor("10k")
	require.NoError(t, err)
	assert.Equal(t, "R", r.ReferencePrefix())
	assert.Equal(t, "D", LED("").ReferencePrefix())
	assert.Equal(t, "J", Connector("").ReferencePrefix())
	assert.Equal(t, "H", Mechanical("").ReferencePrefix())
	assert.Equal(t, "Resistor(10k)", r.String())
}

func TestPackageValidation(t *testing.T) {
	_, err := SurfaceMount("", 0)
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = SurfaceMount("0402", geom.MM(-1))
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = ThroughHole("TO-92", 0)
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = Custom("")
	assert.ErrorIs(t, err, ErrConstruction)

	p, err := Custom("Logo")
	require.NoError(t, err)
	assert.Equal(t, courtyard.ClassDefault, p.ClearanceClass())
}

func TestLayerNames(t *testing.T) {
	for lt := LayerCopper; lt < layerTypeCount; lt++ {
		for _, side := range []Side{Front, Back} {
			l := Layer{Type: lt, Side: side}
			got, err := ParseLayer(l.KiCadName())
			require.NoError(t, err)
			assert.Equal(t, l, got)
		}
	}

	assert.Equal(t, "F.CrtYd", FCrtYd.KiCadName())
	assert.Equal(t, "B.SilkS", BSilkS.KiCadName())

	_, err := ParseLayer("In1.Cu")
	assert.Error(t, err)
	assert.Empty(t, Layer{Type: 42}.KiCadName())

	layers, err := ParseLayers([]string{"*.Cu", "F.Mask"})
	require.NoError(t, err)
	assert.Equal(t, []Layer{FCu, BCu, FMask}, layers)
}

func TestNewPad(t *testing.T) {
	tests := []struct {
		name    string
		spec    PadSpec
		wantErr bool
	}{
		{
			name: "smd",
			spec: PadSpec{Number: "1", Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(1, 0.5), Layers: SMDLayers(Front)},
		},
		{
			name:    "negative size",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(-1, 0.5), Layers: SMDLayers(Front)},
			wantErr: true,
		},
		{
			name:    "no layers",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(1, 1)},
			wantErr: true,
		},
		{
			name:    "smd on both sides",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(1, 1), Layers: []Layer{FCu, BCu}},
			wantErr: true,
		},
		{
			name:    "smd with drill",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(1, 1), Drill: geom.MM(0.3), Layers: SMDLayers(Front)},
			wantErr: true,
		},
		{
			name: "tht",
			spec: PadSpec{Kind: PadThroughHole, Shape: ShapeCircle, Size: geom.Sz(1.7, 1.7), Drill: geom.MM(1), Layers: THTLayers()},
		},
		{
			name:    "tht without drill",
			spec:    PadSpec{Kind: PadThroughHole, Shape: ShapeCircle, Size: geom.Sz(1.7, 1.7), Layers: THTLayers()},
			wantErr: true,
		},
		{
			name:    "tht drill fills pad",
			spec:    PadSpec{Kind: PadThroughHole, Shape: ShapeCircle, Size: geom.Sz(1, 1), Drill: geom.MM(1), Layers: THTLayers()},
			wantErr: true,
		},
		{
			name: "npth drill equals pad",
			spec: PadSpec{Kind: PadNPTH, Shape: ShapeCircle, Size: geom.Sz(3.2, 3.2), Drill: geom.MM(3.2), Layers: NPTHLayers()},
		},
		{
			name:    "invalid layer",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRect, Size: geom.Sz(1, 1), Layers: []Layer{{Type: 99}}},
			wantErr: true,
		},
		{
			name:    "roundrect ratio too large",
			spec:    PadSpec{Kind: PadSMD, Shape: ShapeRoundRect, Size: geom.Sz(1, 1), RoundRectRatio: 0.6, Layers: SMDLayers(Front)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPad(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConstruction)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPadNormalisation(t *testing.T) {
	p, err := NewPad(PadSpec{
		Kind: PadSMD, Shape: ShapeRoundRect, Size: geom.Sz(1, 1), Rotation: -90, Layers: SMDLayers(Back),
	})
	require.NoError(t, err)
	assert.Equal(t, 270.0, p.Rotation)
	assert.Equal(t, DefaultRoundRectRatio, p.RoundRectRatio)
}

func TestPadExtent(t *testing.T) {
	p := smdPad(t, "1", 1, 2, 1.0, 0.5)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(0.5, 1.75), geom.Pt(1.5, 2.25)), p.Extent())

	r := p.Rotate(90)
	assert.Equal(t, geom.MM(0.5), r.Extent().Width())
	assert.Equal(t, geom.MM(1.0), r.Extent().Height())
	assert.Equal(t, 90.0, r.Rotation)

	spec := PadSpec(smdPad(t, "1", 0, 0, 1.0, 0.5))
	spec.Rotation = 45
	diag, err := NewPad(spec)
	require.NoError(t, err)
	assert.InDelta(t, 1.06066, diag.Extent().Width().MM(), 1e-5)
	assert.InDelta(t, 1.06066, diag.Extent().Height().MM(), 1e-5)

	circle, err := NewPad(PadSpec{
		Kind: PadThroughHole, Shape: ShapeCircle, Size: geom.Sz(2, 2), Rotation: 30,
		Drill: geom.MM(1), Layers: THTLayers(),
	})
	require.NoError(t, err)
	assert.Equal(t, geom.MM(2), circle.Extent().Width())
}

func TestComponentCourtyard(t *testing.T) {
	c := cap0603(t)

	assert.Equal(t, "C_0603", c.FootprintName())
	assert.Equal(t, "C", c.ReferencePrefix())

	cy := c.Courtyard()
	require.False(t, cy.IsEmpty())
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.5, -0.5), geom.Pt(1.5, 0.5)), cy.Box)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.25, -0.25), geom.Pt(1.25, 0.25)), c.BoundingBox())
}

func TestComponentEmpty(t *testing.T) {
	pkg, err := Custom("Empty")
	require.NoError(t, err)

	c, err := New(Spec{Type: Mechanical(""), Package: pkg})
	require.NoError(t, err)

	assert.True(t, c.Courtyard().IsEmpty())
	assert.True(t, c.BoundingBox().IsDegenerate())
	assert.Equal(t, geom.BoundingBox{}, c.BoundingBox())
}

func TestComponentIsImmutable(t *testing.T) {
	c := cap0603(t)

	pads := c.Pads()
	pads[0].Center = geom.Pt(10, 10)
	pads[0].Layers[0] = BCu

	again := c.Pads()
	assert.Equal(t, geom.Pt(-0.75, 0), again[0].Center)
	assert.Equal(t, FCu, again[0].Layers[0])
}

func TestComponentWithPadsRederives(t *testing.T) {
	c := cap0603(t)
	before := c.Courtyard()

	pads := append(c.Pads(), smdPad(t, "3", 0, 2, 1, 1))
	grown, err := c.WithPads(pads)
	require.NoError(t, err)

	assert.Equal(t, before, c.Courtyard())
	assert.True(t, grown.Courtyard().Box.Encloses(before.Box))
	assert.NotEqual(t, before.Box, grown.Courtyard().Box)

	loose, err := c.WithPolicy(courtyard.Policy{
		SMTMargin: geom.MM(1), THTMargin: geom.MM(1), DefaultMargin: geom.MM(1), GridResolution: geom.MM(0.1),
	})
	require.NoError(t, err)
	assert.Equal(t, geom.MM(1), loose.Courtyard().Margin)
}

func TestComponentRejectsCourtyardGraphics(t *testing.T) {
	line, err := NewLine(geom.Pt(0, 0), geom.Pt(1, 0), FCrtYd, Solid(geom.MM(0.05)))
	require.NoError(t, err)

	c := cap0603(t)
	_, err = c.WithGraphics([]Graphic{line})

	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "graphics", cerr.Field)
}

func TestComponentRejectsMissingPackage(t *testing.T) {
	_, err := New(Spec{Type: Diode("")})
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestComponentConcurrentReads(t *testing.T) {
	c := cap0603(t)
	want := courtyard.Derive([]geom.BoundingBox{
		geom.BoxAround(geom.Pt(-0.75, 0), geom.Sz(1, 0.5)),
		geom.BoxAround(geom.Pt(0.75, 0), geom.Sz(1, 0.5)),
	}, courtyard.ClassSMT, courtyard.DefaultPolicy())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Courtyard())
		}()
	}
	wg.Wait()
}

func TestGraphicExtent(t *testing.T) {
	circle, err := NewCircle(geom.Pt(1, 1), geom.MM(0.5), FSilkS, Solid(geom.MM(0.12)), false)
	require.NoError(t, err)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(0.5, 0.5), geom.Pt(1.5, 1.5)), circle.Extent())

	_, err = NewPolygon([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 0)}, FFab, Solid(geom.MM(0.1)), false)
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = NewLine(geom.Pt(0, 0), geom.Pt(1, 0), FFab, Solid(geom.MM(-0.1)))
	assert.ErrorIs(t, err, ErrConstruction)

	text, err := NewText(TextUser, "${REFERENCE}", geom.Pt(0, 2), FFab, geom.Sz(1, 1), geom.MM(0.15))
	require.NoError(t, err)
	moved := text.Transform(geom.Pt(1, 0), 90).(Text)
	assert.Equal(t, geom.Pt(3, 0), moved.Pos)
	assert.Equal(t, 90.0, moved.Rotation)
}

func TestAggregate(t *testing.T) {
	child := cap0603(t)
	pkg, err := Custom("Dual_C_0603")
	require.NoError(t, err)
	capacitor, err := Capacitor("")
	require.NoError(t, err)

	agg, err := Aggregate(Spec{Type: capacitor, Package: pkg},
		Placement{Object: child, Offset: geom.Pt(0, -1), PadPrefix: "A"},
		Placement{Object: child, Offset: geom.Pt(0, 1), PadPrefix: "B"},
	)
	require.NoError(t, err)

	pads := agg.Pads()
	require.Len(t, pads, 4)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, []string{pads[0].Number, pads[1].Number, pads[2].Number, pads[3].Number})
	assert.Equal(t, geom.Pt(-0.75, -1), pads[0].Center)
	assert.Equal(t, geom.Pt(0.75, 1), pads[3].Center)

	// Child is untouched
	assert.Equal(t, geom.Pt(-0.75, 0), child.Pads()[0].Center)

	_, err = Aggregate(Spec{Type: capacitor, Package: pkg}, Placement{})
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestAggregateRotation(t *testing.T) {
	child := cap0603(t)
	pkg, err := Custom("Rotated")
	require.NoError(t, err)

	agg, err := Aggregate(Spec{Type: child.FunctionalType(), Package: pkg}, Placement{Object: child, Rotation: 90})
	require.NoError(t, err)

	assert.Equal(t, geom.MM(0.5), agg.BoundingBox().Width())
	assert.Equal(t, geom.MM(2.5), agg.BoundingBox().Height())
}

func TestAggregateRotationOffAxis(t *testing.T) {
	base := cap0603(t)
	outline, err := NewRect(geom.Pt(-1, -1), geom.Pt(1, 1), FFab, Solid(geom.MM(0.1)), false)
	require.NoError(t, err)
	child, err := base.WithGraphics([]Graphic{outline})
	require.NoError(t, err)

	pkg, err := Custom("Rotated45")
	require.NoError(t, err)

	agg, err := Aggregate(Spec{Type: child.FunctionalType(), Package: pkg}, Placement{Object: child, Rotation: 45})
	require.NoError(t, err)

	graphics := agg.Graphics()
	require.Len(t, graphics, 1)
	poly, ok := graphics[0].(Polygon)
	require.True(t, ok, "rotated rect should become a polygon, got %T", graphics[0])
	require.Len(t, poly.Points, 4)
	assert.Equal(t, FFab, poly.Layer())

	ext := poly.Extent()
	assert.InDelta(t, 2.828427, ext.Width().MM(), 1e-5)
	assert.InDelta(t, 2.828427, ext.Height().MM(), 1e-5)
	assert.True(t, agg.BoundingBox().Encloses(ext))

	// Quarter turns keep the rectangle
	quarter := outline.Transform(geom.Pt(0, 0), 270)
	_, ok = quarter.(Rect)
	assert.True(t, ok)
}

func TestComponentPadOrderIndependence(t *testing.T) {
	gofakeit.Seed(0)
	pkg, err := SurfaceMount("Random", 0)
	require.NoError(t, err)
	ft := IntegratedCircuit("")

	angles := []float64{0, 30, 45, 90}
	for i := 0; i < 30; i++ {
		n := gofakeit.Number(1, 10)
		pads := make([]Pad, 0, n)
		for j := 0; j < n; j++ {
			spec := PadSpec(smdPad(t, "",
				gofakeit.Float64Range(-10, 10), gofakeit.Float64Range(-10, 10),
				gofakeit.Float64Range(0.2, 3), gofakeit.Float64Range(0.2, 3)))
			spec.Rotation = angles[gofakeit.Number(0, len(angles)-1)]
			p, err := NewPad(spec)
			require.NoError(t, err)
			pads = append(pads, p)
		}

		want, err := New(Spec{Type: ft, Package: pkg, Pads: pads})
		require.NoError(t, err)

		shuffled := append([]Pad(nil), pads...)
		gofakeit.ShuffleAnySlice(shuffled)
		got, err := New(Spec{Type: ft, Package: pkg, Pads: shuffled})
		require.NoError(t, err)

		assert.Equal(t, want.Courtyard(), got.Courtyard())
		assert.Equal(t, want.BoundingBox(), got.BoundingBox())
		for _, p := range pads {
			assert.True(t, got.Courtyard().Box.Encloses(p.Extent()))
		}
	}
}

func TestRotatedPadCourtyard(t *testing.T) {
	ft := IntegratedCircuit("")
	pkg, err := SurfaceMount("Diag", 0)
	require.NoError(t, err)

	spec := PadSpec(smdPad(t, "1", 0, 0, 2, 1))
	spec.Rotation = 30
	pad, err := NewPad(spec)
	require.NoError(t, err)

	c, err := New(Spec{Type: ft, Package: pkg, Pads: []Pad{pad}})
	require.NoError(t, err)

	// 2x1 rotated by 30 degrees: w = 2cos30 + sin30, h = 2sin30 + cos30
	bb := c.BoundingBox()
	assert.InDelta(t, 2.232051, bb.Width().MM(), 1e-5)
	assert.InDelta(t, 1.866025, bb.Height().MM(), 1e-5)
	assert.True(t, c.Courtyard().Box.Encloses(bb))
}

func TestLibraryName(t *testing.T) {
	smt, err := SurfaceMount("0603", geom.MM(1.27))
	require.NoError(t, err)
	tht, err := ThroughHole("DIP-8", geom.MM(0.8))
	require.NoError(t, err)
	custom, err := Custom("Logo")
	require.NoError(t, err)
	res, err := Resistor("")
	require.NoError(t, err)
	ntc, err := Other("NTC", "10k")
	require.NoError(t, err)

	tests := []struct {
		name string
		ft   FunctionalType
		pkg  PackageType
		want string
	}{
		{"smd resistor", res, smt, "Resistor_SMD"},
		{"tht ic", IntegratedCircuit(""), tht, "Package_THT"},
		{"tht connector", Connector(""), tht, "Connector_THT"},
		{"custom led", LED(""), custom, "LED"},
		{"mechanical", Mechanical(""), tht, "MountingHole"},
		{"other", ntc, smt, "NTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LibraryName(tt.ft, tt.pkg))
		})
	}
}

func TestComponentClassifier(t *testing.T) {
	var c Classifier = cap0603(t)
	assert.True(t, c.IsSMT())
	assert.True(t, c.IsElectrical())
	assert.True(t, c.IsPassive())
	assert.Equal(t, 2, c.TerminalCount())
	assert.Equal(t, "Capacitor_SMD", c.LibraryName())

	pkg, err := ThroughHole("MountingHole_3.2mm", geom.MM(3.2))
	require.NoError(t, err)
	hole, err := NewPad(PadSpec{
		Kind:   PadNPTH,
		Shape:  ShapeCircle,
		Size:   geom.Sz(3.2, 3.2),
		Drill:  geom.MM(3.2),
		Layers: NPTHLayers(),
	})
	require.NoError(t, err)
	m, err := New(Spec{Type: Mechanical(""), Package: pkg, Pads: []Pad{hole}, Library: "MountingHole_Custom"})
	require.NoError(t, err)

	assert.False(t, m.IsSMT())
	assert.False(t, m.IsElectrical())
	assert.False(t, m.IsPassive())
	assert.Zero(t, m.TerminalCount())
	assert.Equal(t, "MountingHole_Custom", m.LibraryName())
}

func TestTerminalCount(t *testing.T) {
	// Pads sharing a number form one terminal
	pads := []Pad{
		smdPad(t, "1", -1, 0, 0.5, 0.5),
		smdPad(t, "2", 1, 0, 0.5, 0.5),
		smdPad(t, "2", 1, 1, 0.5, 0.5),
		smdPad(t, "", 0, 1, 0.5, 0.5),
	}
	assert.Equal(t, 2, TerminalCount(pads))
	assert.Zero(t, TerminalCount(nil))
}
