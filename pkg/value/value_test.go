package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		magnitude float64
		unit      string
		canonical string
	}{
		{name: "capacitor with unit", input: "100nF", magnitude: 100e-9, unit: UnitFarad, canonical: "100nF"},
		{name: "inductor decimal", input: "4.7uH", magnitude: 4.7e-6, unit: UnitHenry, canonical: "4.7uH"},
		{name: "resistor kilo", input: "10k", magnitude: 10e3, canonical: "10k"},
		{name: "rkm kilo", input: "4k7", magnitude: 4.7e3, canonical: "4.7k"},
		{name: "rkm ohm", input: "2R2", magnitude: 2.2, unit: UnitOhm, canonical: "2.2Ω"},
		{name: "zero ohm", input: "0R", magnitude: 0, unit: UnitOhm, canonical: "0Ω"},
		{name: "fuse current", input: "1.5A", magnitude: 1.5, unit: UnitAmpere, canonical: "1.5A"},
		{name: "micro sign", input: "10µF", magnitude: 10e-6, unit: UnitFarad, canonical: "10uF"},
		{name: "spaced", input: " 22 pF ", magnitude: 22e-12, unit: UnitFarad, canonical: "22pF"},
		{name: "rkm with unit", input: "4k7ohm", magnitude: 4.7e3, unit: UnitOhm, canonical: "4.7kΩ"},
		{name: "mega", input: "1M", magnitude: 1e6, canonical: "1M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.magnitude+1e-30, v.Magnitude+1e-30, 1e-9)
			assert.Equal(t, tt.unit, v.Unit)
			assert.Equal(t, tt.input, v.Text)
			assert.Equal(t, tt.canonical, v.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "word", input: "abc"},
		{name: "unknown suffix", input: "10xyz"},
		{name: "dangling number", input: "10 20"},
		{name: "decimal with rkm", input: "4.7k7"},
		{name: "rkm unit conflict", input: "2R2F"},
		{name: "unknown symbol", input: "10%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCompatible(t *testing.T) {
	v, err := Parse("100nF")
	require.NoError(t, err)
	assert.True(t, v.Compatible(UnitFarad))
	assert.False(t, v.Compatible(UnitHenry))

	bare, err := Parse("10k")
	require.NoError(t, err)
	assert.True(t, bare.Compatible(UnitOhm))
}
