package courtyard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
)

func randomExtents(n int) []geom.BoundingBox {
	out := make([]geom.BoundingBox, n)
	for i := range out {
		c := geom.Pt(gofakeit.Float64Range(-20, 20), gofakeit.Float64Range(-20, 20))
		s := geom.Sz(gofakeit.Float64Range(0, 3), gofakeit.Float64Range(0, 3))
		out[i] = geom.BoxAround(c, s)
	}
	return out
}

func TestDerive0603(t *testing.T) {
	// Two 0.8 x 0.95 mm pads at x = +-0.775 mm
	extents := []geom.BoundingBox{
		geom.BoxAround(geom.Pt(-0.775, 0), geom.Sz(0.8, 0.95)),
		geom.BoxAround(geom.Pt(0.775, 0), geom.Sz(0.8, 0.95)),
	}

	cy := Derive(extents, ClassSMT, DefaultPolicy())

	require.False(t, cy.IsEmpty())
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.175, -0.475), geom.Pt(1.175, 0.475)), cy.Raw)
	assert.Equal(t, geom.MM(0.25), cy.Margin)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.425, -0.725), geom.Pt(1.425, 0.725)), cy.Inflated)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.43, -0.73), geom.Pt(1.43, 0.73)), cy.Box)

	outline := cy.Outline()
	require.Len(t, outline, 5)
	assert.Equal(t, outline[0], outline[4])
}

func TestDeriveMarginByClass(t *testing.T) {
	extents := []geom.BoundingBox{geom.BoxAround(geom.Point{}, geom.Sz(1, 1))}
	policy := DefaultPolicy()

	tests := []struct {
		class Class
		want  geom.Coord
	}{
		{ClassSMT, geom.MM(0.25)},
		{ClassTHT, geom.MM(0.5)},
		{ClassDefault, geom.MM(0.25)},
		{Class("unknown"), geom.MM(0.25)},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			cy := Derive(extents, tt.class, policy)
			assert.Equal(t, tt.want, cy.Margin)
			assert.Equal(t, tt.want, cy.Raw.Min.X-cy.Inflated.Min.X)
		})
	}
}

func TestDeriveEmpty(t *testing.T) {
	cy := Derive(nil, ClassSMT, DefaultPolicy())
	assert.True(t, cy.IsEmpty())
	assert.Nil(t, cy.Outline())
	assert.Equal(t, ClassSMT, cy.Class)
}

func TestDeriveOrderIndependence(t *testing.T) {
	gofakeit.Seed(0)
	policy := DefaultPolicy()

	for i := 0; i < 50; i++ {
		extents := randomExtents(gofakeit.Number(1, 12))
		want := Derive(extents, ClassSMT, policy)

		shuffled := append([]geom.BoundingBox(nil), extents...)
		gofakeit.ShuffleAnySlice(shuffled)

		got := Derive(shuffled, ClassSMT, policy)
		assert.Equal(t, want, got)
	}
}

func TestDeriveEnclosesAndRoundsOutward(t *testing.T) {
	gofakeit.Seed(0)
	policy := DefaultPolicy()

	for i := 0; i < 50; i++ {
		extents := randomExtents(gofakeit.Number(1, 8))
		cy := Derive(extents, ClassTHT, policy)

		for _, e := range extents {
			assert.True(t, cy.Inflated.Encloses(e))
		}
		assert.True(t, cy.Box.Encloses(cy.Inflated))
		for _, c := range []geom.Coord{cy.Box.Min.X, cy.Box.Min.Y, cy.Box.Max.X, cy.Box.Max.Y} {
			assert.Zero(t, c%policy.GridResolution, "coordinate %s is off grid", c)
		}
	}
}

func TestDeriveMonotonic(t *testing.T) {
	gofakeit.Seed(0)
	policy := DefaultPolicy()

	for i := 0; i < 30; i++ {
		extents := randomExtents(gofakeit.Number(1, 6))
		before := Derive(extents, ClassSMT, policy)
		after := Derive(append(extents, randomExtents(1)...), ClassSMT, policy)
		assert.True(t, after.Box.Encloses(before.Box))
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Policy
		wantErr string
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			want:  DefaultPolicy(),
		},
		{
			name:  "partial override",
			input: "tht_margin = 1.0\ngrid_resolution = 0.05\n",
			want: Policy{
				SMTMargin:      geom.MM(0.25),
				THTMargin:      geom.MM(1.0),
				DefaultMargin:  geom.MM(0.25),
				GridResolution: geom.MM(0.05),
			},
		},
		{
			name:    "zero margin",
			input:   "smt_margin = 0\n",
			wantErr: KeySMTMargin,
		},
		{
			name:    "negative grid",
			input:   "grid_resolution = -0.01\n",
			wantErr: KeyGridResolution,
		},
		{
			name:    "unknown key",
			input:   "smd_margin = 0.3\n",
			wantErr: "decode",
		},
		{
			name:    "malformed",
			input:   "smt_margin = \n",
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfiguration))
				var cerr *ConfigurationError
				require.True(t, errors.As(err, &cerr))
				assert.Contains(t, cerr.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigurationErrorReportsValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultMargin = -0.5

	_, err := cfg.Policy()
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, KeyDefaultMargin, cerr.Key)
	assert.Equal(t, -0.5, cerr.Value)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtyard.toml")
	require.NoError(t, os.WriteFile(path, []byte("smt_margin = 0.15\n"), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, geom.MM(0.15), p.SMTMargin)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeriveGridAlignedExample(t *testing.T) {
	extents := []geom.BoundingBox{
		geom.BoxAround(geom.Pt(-0.75, 0), geom.Sz(1.0, 0.5)),
		geom.BoxAround(geom.Pt(0.75, 0), geom.Sz(1.0, 0.5)),
	}

	cy := Derive(extents, ClassSMT, DefaultPolicy())

	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.25, -0.25), geom.Pt(1.25, 0.25)), cy.Raw)
	assert.Equal(t, geom.BoxFromPoints(geom.Pt(-1.5, -0.5), geom.Pt(1.5, 0.5)), cy.Inflated)
	assert.Equal(t, cy.Inflated, cy.Box)
}
