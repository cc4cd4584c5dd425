package parts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

func TestCatalogBuilds(t *testing.T) {
	for _, preset := range Catalog() {
		t.Run(preset.Name, func(t *testing.T) {
			obj, err := preset.Build()
			require.NoError(t, err)
			require.NotNil(t, obj)

			pads := obj.Pads()
			require.NotEmpty(t, pads)

			cy := obj.Courtyard()
			require.False(t, cy.IsEmpty())
			for _, p := range pads {
				assert.True(t, cy.Box.Encloses(p.Extent()), "pad %s outside courtyard", p.Number)
			}

			for _, g := range obj.Graphics() {
				assert.NotEqual(t, board.LayerCourtyard, g.Layer().Type)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("C_0603")
	require.True(t, ok)

	obj, err := p.Build()
	require.NoError(t, err)
	assert.Equal(t, "C_0603", obj.FootprintName())
	assert.Equal(t, "100nF", obj.FunctionalType().Value())

	_, ok = Lookup("TO-220")
	assert.False(t, ok)

	assert.IsNonDecreasing(t, Names())
}

func TestNewChip(t *testing.T) {
	c, err := NewChip(board.KindCapacitor, "0603", "100nF")
	require.NoError(t, err)

	assert.Equal(t, "C_0603", c.FootprintName())
	assert.Equal(t, "C", c.ReferencePrefix())
	assert.Equal(t, board.PackageSurfaceMount, c.Package().Kind())

	pads := c.Pads()
	require.Len(t, pads, 2)
	assert.Equal(t, geom.Pt(-0.775, 0), pads[0].Center)
	assert.Equal(t, board.ShapeRoundRect, pads[0].Shape)

	m, ok := c.Model3D()
	require.True(t, ok)
	assert.Equal(t, "${KICAD8_3DMODEL_DIR}/Capacitor_SMD.3dshapes/C_0603_1608Metric.wrl", m.Path)

	// 0.775 + 0.45 + 0.25 = 1.475 rounds out to 1.48
	assert.Equal(t, geom.MM(1.48), c.Courtyard().Box.Max.X)
}

func TestNewChipErrors(t *testing.T) {
	_, err := NewChip(board.KindConnector, "0603", "")
	assert.ErrorIs(t, err, board.ErrConstruction)

	_, err = NewChip(board.KindResistor, "0000", "")
	assert.ErrorIs(t, err, board.ErrConstruction)

	_, err = NewChip(board.KindResistor, "0603", "100nF")
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestNewSOIC(t *testing.T) {
	s, err := NewSOIC(8, geom.MM(1.27), "NE555")
	require.NoError(t, err)

	assert.Equal(t, "SOIC-8_3.9x4.9mm_P1.27mm", s.FootprintName())
	assert.Equal(t, "U", s.ReferencePrefix())

	pads := s.Pads()
	require.Len(t, pads, 8)
	assert.Equal(t, geom.Pt(-2.475, -1.905), pads[0].Center)
	assert.Equal(t, geom.Pt(-2.475, 1.905), pads[3].Center)
	assert.Equal(t, geom.Pt(2.475, 1.905), pads[4].Center)
	assert.Equal(t, geom.Pt(2.475, -1.905), pads[7].Center)
	assert.Equal(t, "8", pads[7].Number)

	_, err = NewSOIC(7, geom.MM(1.27), "")
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestNewDIP(t *testing.T) {
	d, err := NewDIP(8, geom.MM(7.62), "")
	require.NoError(t, err)

	assert.Equal(t, "DIP-8_W7.62mm", d.FootprintName())
	assert.Equal(t, board.PackageThroughHole, d.Package().Kind())

	pads := d.Pads()
	assert.Equal(t, board.ShapeRect, pads[0].Shape)
	assert.Equal(t, board.ShapeOval, pads[1].Shape)
	assert.Equal(t, geom.MM(0.5), d.Courtyard().Margin)

	_, err = NewDIP(8, geom.MM(1), "")
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestNewPinHeader(t *testing.T) {
	h, err := NewPinHeader(5, 2)
	require.NoError(t, err)

	assert.Equal(t, "PinHeader_2x05_P2.54mm_Vertical", h.FootprintName())
	assert.Equal(t, "J", h.ReferencePrefix())

	pads := h.Pads()
	require.Len(t, pads, 10)
	assert.Equal(t, geom.Point{}, pads[0].Center)
	assert.Equal(t, geom.Pt(2.54, 0), pads[1].Center)
	assert.Equal(t, geom.Pt(0, 2.54), pads[2].Center)
	assert.Equal(t, "10", pads[9].Number)

	_, err = NewPinHeader(0, 1)
	assert.ErrorIs(t, err, board.ErrConstruction)
	_, err = NewPinHeader(4, 3)
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestNewAxial(t *testing.T) {
	a, err := NewAxial(board.KindDiode, geom.MM(10.16), "1N4148")
	require.NoError(t, err)
	assert.Equal(t, "D_Axial_DIN0207_L6.3mm_D2.5mm_P10.16mm_Horizontal", a.FootprintName())
	assert.Equal(t, board.ShapeRect, a.Pads()[0].Shape)

	_, err = NewAxial(board.KindResistor, geom.MM(5), "1k")
	assert.ErrorIs(t, err, board.ErrConstruction)

	_, err = NewAxial(board.KindCapacitor, geom.MM(10.16), "")
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestNewMountingHole(t *testing.T) {
	m, err := NewMountingHole(geom.MM(3.2))
	require.NoError(t, err)

	assert.Equal(t, "MountingHole_3.2mm", m.FootprintName())
	assert.Equal(t, "H", m.ReferencePrefix())

	pads := m.Pads()
	require.Len(t, pads, 1)
	assert.Equal(t, board.PadNPTH, pads[0].Kind)
	assert.Empty(t, pads[0].Number)

	// 1.6 + 0.25 default margin
	assert.Equal(t, geom.MM(1.85), m.Courtyard().Box.Max.X)

	_, err = NewMountingHole(0)
	assert.ErrorIs(t, err, board.ErrConstruction)
}

func TestClassification(t *testing.T) {
	capacitor, err := NewChip(board.KindCapacitor, "0603", "100nF")
	require.NoError(t, err)
	soic, err := NewSOIC(8, geom.MM(1.27), "NE555")
	require.NoError(t, err)
	dip, err := NewDIP(8, geom.MM(7.62), "")
	require.NoError(t, err)
	header, err := NewPinHeader(4, 1)
	require.NoError(t, err)
	axial, err := NewAxial(board.KindResistor, geom.MM(10.16), "1k")
	require.NoError(t, err)
	hole, err := NewMountingHole(geom.MM(3.2))
	require.NoError(t, err)

	tests := []struct {
		name      string
		obj       board.Classifier
		smt       bool
		passive   bool
		terminals int
		library   string
	}{
		{"chip", capacitor, true, true, 2, "Capacitor_SMD"},
		{"soic", soic, true, false, 8, "Package_SO"},
		{"dip", dip, false, false, 8, "Package_DIP"},
		{"pin header", header, false, false, 4, "Connector_PinHeader_2.54mm"},
		{"axial", axial, false, true, 2, "Resistor_THT"},
		{"mounting hole", hole, false, false, 0, "MountingHole"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.smt, tt.obj.IsSMT())
			assert.Equal(t, tt.passive, tt.obj.IsPassive())
			assert.Equal(t, tt.terminals, tt.obj.TerminalCount())
			assert.Equal(t, tt.library, tt.obj.LibraryName())
			assert.Equal(t, tt.name != "mounting hole", tt.obj.IsElectrical())
		})
	}
}
