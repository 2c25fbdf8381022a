package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInchesToCm(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain inches", input: "72", want: 182.88, wantOK: true},
		{name: "inches suffix", input: "70 in", want: 177.8, wantOK: true},
		{name: "feet and inches", input: `6'1"`, want: 185.42, wantOK: true},
		{name: "feet and inches with space", input: `5' 9"`, want: 175.26, wantOK: true},
		{name: "feet only", input: `6'`, want: 182.88, wantOK: true},
		{name: "already centimetres", input: "183 cm", want: 183, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "text", input: "unknown", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InchesToCm(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestLbToKg(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "pounds with unit", input: "205 lb", want: 92.99, wantOK: true},
		{name: "plural unit", input: "135 lbs", want: 61.24, wantOK: true},
		{name: "bare number", input: "205", want: 92.99, wantOK: true},
		{name: "kilograms kept", input: "100 kg", want: 100, wantOK: true},
		{name: "no weight", input: "no weight", wantOK: false},
		{name: "time score", input: "12:34", wantOK: false},
		{name: "reps score", input: "300 reps", wantOK: false},
		{name: "reps after load", input: "205 reps", wantOK: false},
		{name: "load range", input: "205-210", wantOK: false},
		{name: "load range with unit", input: "205-210 lb", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LbToKg(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestFirstNumber(t *testing.T) {
	v, ok := FirstNumber("205 lb")
	require.True(t, ok)
	assert.Equal(t, int64(205), v)

	v, ok = FirstNumber("205-210 lb")
	require.True(t, ok)
	assert.Equal(t, int64(205), v)

	_, ok = FirstNumber("lb")
	assert.False(t, ok)
}

func TestStripTieMarker(t *testing.T) {
	assert.Equal(t, "12", StripTieMarker("12T"))
	assert.Equal(t, "12", StripTieMarker("T12"))
	assert.Equal(t, "5", StripTieMarker(" 5 "))
	assert.Equal(t, "CUT", StripTieMarker("CUT"))
	assert.Equal(t, "", StripTieMarker(""))
}
