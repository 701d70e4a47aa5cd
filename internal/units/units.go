// Package units provides the physical quantity types shared across the
// odometry library. Lengths are stored in metres and angles in radians;
// constructors exist for the other units that show up in robot configs.
package units

import "math"

// Length is a distance in metres.
type Length float64

// Length constructors.
func Metres(v float64) Length      { return Length(v) }
func Centimetres(v float64) Length { return Length(v / 100) }
func Millimetres(v float64) Length { return Length(v / 1000) }
func Inches(v float64) Length      { return Length(v * 0.0254) }

// Metres returns the length as a plain float64 in metres.
func (l Length) Metres() float64 { return float64(l) }

// Inches returns the length in inches.
func (l Length) Inches() float64 { return float64(l) / 0.0254 }

// Angle is a rotation in radians. Angles used for odometry accumulate
// without wrapping; use Normalized for presentation.
type Angle float64

// Angle constructors.
func Radians(v float64) Angle { return Angle(v) }
func Degrees(v float64) Angle { return Angle(v * math.Pi / 180) }

// Radians returns the angle as a plain float64 in radians.
func (a Angle) Radians() float64 { return float64(a) }

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 { return float64(a) * 180 / math.Pi }

// Normalized wraps the angle into (-pi, pi]. The estimator never wraps
// internally; this is for display and comparison only.
func (a Angle) Normalized() Angle {
	v := math.Mod(float64(a), 2*math.Pi)
	if v <= -math.Pi {
		v += 2 * math.Pi
	} else if v > math.Pi {
		v -= 2 * math.Pi
	}
	return Angle(v)
}
