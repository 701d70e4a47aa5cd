package odom

import (
	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/units"
)

// headingSource supplies the heading delta for one tick. Implementations
// are selected by calibration and owned by the active configuration, so
// they are only ever called from the update loop under the estimator
// mutex.
//
// horizDeltas carries this tick's raw distance deltas for the active
// horizontal wheels, indexed like activeConfig.horizontal; only the
// wheel-pair source uses them.
type headingSource interface {
	delta(horizDeltas []units.Length) units.Angle
}

// imuHeading averages the per-tick heading deltas of the calibrated
// inertial sensors (unweighted mean). A sensor whose read fails keeps its
// previous cumulative value, so it contributes zero this tick and catches
// up once it recovers.
type imuHeading struct {
	imus []hardware.IMU
	last []units.Angle
}

func newIMUHeading(imus []hardware.IMU) *imuHeading {
	h := &imuHeading{imus: imus, last: make([]units.Angle, len(imus))}
	for i, imu := range imus {
		if a, err := imu.Heading(); err == nil {
			h.last[i] = a
		}
	}
	return h
}

func (h *imuHeading) delta(_ []units.Length) units.Angle {
	var sum units.Angle
	for i, imu := range h.imus {
		a, err := imu.Heading()
		if err != nil {
			continue
		}
		sum += a - h.last[i]
		h.last[i] = a
	}
	return sum / units.Angle(len(h.imus))
}

// wheelPairHeading derives the heading delta from the differential
// reading of two horizontal wheels at different offsets: the apparent
// lateral motion they disagree on is pure rotation.
type wheelPairHeading struct {
	i, j             int
	offsetI, offsetJ units.Length
}

func (h wheelPairHeading) delta(horizDeltas []units.Length) units.Angle {
	di := horizDeltas[h.i]
	dj := horizDeltas[h.j]
	return units.Angle(float64(di-dj) / float64(h.offsetI-h.offsetJ))
}

// noHeading is the severity-5 fallback: heading is untrackable and the
// delta is always zero.
type noHeading struct{}

func (noHeading) delta(_ []units.Length) units.Angle { return 0 }
