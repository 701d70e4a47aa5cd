package odom

import (
	"math"

	"github.com/liam830666/LemLib/internal/units"
)

// sincSmallAngleThreshold is where sin(x)/x switches to its Taylor
// expansion; below it the direct quotient loses precision.
const sincSmallAngleThreshold = 1e-4

// sinc computes sin(x)/x with a stable small-angle branch.
func sinc(x float64) float64 {
	if math.Abs(x) < sincSmallAngleThreshold {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

// integrate applies one tick's local displacement to a pose.
//
// lateral and forward are the chord displacements accumulated in the
// robot frame over the tick. When the robot rotated during the tick the
// true motion followed a circular arc, so the chord is scaled by
// sinc(dTheta/2) and rotated an extra dTheta/2 before projecting into the
// global frame; with dTheta numerically zero the chord is exact and sinc
// degenerates to 1. The projection uses the heading at the start of the
// tick.
func integrate(pose units.Pose, lateral, forward units.Length, dTheta units.Angle) units.Pose {
	dt := dTheta.Radians()
	scale := sinc(dt / 2)

	heading := pose.Theta.Radians() + dt/2
	sin, cos := math.Sin(heading), math.Cos(heading)

	lat := scale * lateral.Metres()
	fwd := scale * forward.Metres()

	// Theta zero faces global +Y; rotation is counter-clockwise.
	pose.X += units.Length(lat*cos - fwd*sin)
	pose.Y += units.Length(lat*sin + fwd*cos)
	pose.Theta += dTheta
	return pose
}

// axisDisplacement averages the offset-corrected deltas of one axis's
// wheels. An axis with no active wheels contributes zero.
func axisDisplacement(wheels []*wheelState, deltas []units.Length, dTheta units.Angle) units.Length {
	if len(wheels) == 0 {
		return 0
	}
	var sum float64
	for k, ws := range wheels {
		corrected := deltas[k] - ws.wheel.Offset*units.Length(dTheta.Radians())
		sum += corrected.Metres()
	}
	return units.Length(sum / float64(len(wheels)))
}
