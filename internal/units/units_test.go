package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLengthConversions(t *testing.T) {
	assert.InDelta(t, 1.0, Metres(1).Metres(), 1e-12)
	assert.InDelta(t, 0.0254, Inches(1).Metres(), 1e-12)
	assert.InDelta(t, 2.75, Inches(2.75).Inches(), 1e-12)
	assert.InDelta(t, 0.5, Centimetres(50).Metres(), 1e-12)
	assert.InDelta(t, 0.003, Millimetres(3).Metres(), 1e-12)
}

func TestAngleConversions(t *testing.T) {
	assert.InDelta(t, math.Pi, Degrees(180).Radians(), 1e-12)
	assert.InDelta(t, 90.0, Radians(math.Pi/2).Degrees(), 1e-12)
}

func TestAngleNormalized(t *testing.T) {
	cases := []struct {
		name string
		in   Angle
		want float64
	}{
		{"zero", 0, 0},
		{"within range", Degrees(90), math.Pi / 2},
		{"full turn", Degrees(360), 0},
		{"past pi", Degrees(270), -math.Pi / 2},
		{"negative past pi", Degrees(-270), math.Pi / 2},
		{"many turns", Degrees(360*3 + 45), math.Pi / 4},
		{"pi stays pi", Degrees(180), math.Pi},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.in.Normalized().Radians(), 1e-9)
		})
	}
}

func TestPoseString(t *testing.T) {
	p := Pose{X: Metres(1.5), Y: Metres(-2), Theta: Degrees(90)}
	assert.Equal(t, "(1.5000m, -2.0000m, 90.00°)", p.String())
}
