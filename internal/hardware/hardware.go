// Package hardware defines the narrow sensor capabilities consumed by the
// odometry estimator. Concrete drivers (V5 rotation sensors, inertial
// units, and so on) live outside this repo; the estimator only ever sees
// these interfaces and holds non-owning references with caller-managed
// lifetimes.
package hardware

import (
	"errors"

	"github.com/liam830666/LemLib/internal/units"
)

// ErrDisconnected is returned by sensor operations when the underlying
// hardware is unreachable.
var ErrDisconnected = errors.New("hardware: sensor disconnected")

// Encoder is a rotary encoder reporting cumulative rotation since the
// last reset. Reads are expected to be non-blocking (latest cached
// sample) and side-effect free.
type Encoder interface {
	// Reset zeroes the cumulative rotation.
	Reset() error
	// Angle returns the cumulative rotation since the last reset.
	Angle() (units.Angle, error)
}

// IMU is an inertial sensor reporting the robot's heading. Calibrate may
// block for a driver-defined time; the estimator bounds how long it will
// wait, not how long the driver runs.
type IMU interface {
	Calibrate() error
	IsCalibrated() bool
	// Heading returns the cumulative heading since calibration.
	Heading() (units.Angle, error)
}
