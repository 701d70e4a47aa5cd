// Package sim provides a differential-drive kinematic simulator that
// feeds mock sensors with physically consistent readings while keeping a
// ground-truth pose, for integration tests and the odomsim binary.
package sim

import (
	"math"
	"time"

	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/units"
)

// WheelSpec describes one simulated tracking wheel.
type WheelSpec struct {
	Diameter units.Length
	Offset   units.Length
}

type simWheel struct {
	spec     WheelSpec
	encoder  *hardware.MockEncoder
	distance units.Length // cumulative ground distance at the contact point
}

// Simulator advances a differential-drive robot under commanded forward
// and angular velocity, updating its mock encoders and IMUs to the
// readings ideal sensors would produce.
type Simulator struct {
	truth units.Pose

	imus       []*hardware.MockIMU
	vertical   []*simWheel
	horizontal []*simWheel
}

// New creates a simulator with the given sensor complement.
func New(imuCount int, vertical, horizontal []WheelSpec) *Simulator {
	s := &Simulator{}
	for i := 0; i < imuCount; i++ {
		s.imus = append(s.imus, &hardware.MockIMU{})
	}
	for _, spec := range vertical {
		s.vertical = append(s.vertical, &simWheel{spec: spec, encoder: &hardware.MockEncoder{}})
	}
	for _, spec := range horizontal {
		s.horizontal = append(s.horizontal, &simWheel{spec: spec, encoder: &hardware.MockEncoder{}})
	}
	return s
}

// IMUs returns the simulated inertial sensors.
func (s *Simulator) IMUs() []hardware.IMU {
	out := make([]hardware.IMU, len(s.imus))
	for i, imu := range s.imus {
		out[i] = imu
	}
	return out
}

// VerticalEncoders returns the encoders backing the vertical wheels, in
// spec order.
func (s *Simulator) VerticalEncoders() []*hardware.MockEncoder {
	out := make([]*hardware.MockEncoder, len(s.vertical))
	for i, w := range s.vertical {
		out[i] = w.encoder
	}
	return out
}

// HorizontalEncoders returns the encoders backing the horizontal wheels.
func (s *Simulator) HorizontalEncoders() []*hardware.MockEncoder {
	out := make([]*hardware.MockEncoder, len(s.horizontal))
	for i, w := range s.horizontal {
		out[i] = w.encoder
	}
	return out
}

// Truth returns the ground-truth pose.
func (s *Simulator) Truth() units.Pose {
	return s.truth
}

// Advance moves the robot for dt at constant forward velocity v (m/s)
// and angular velocity omega (rad/s, counter-clockwise), then refreshes
// every sensor reading.
//
// Under constant twist the closed-form displacement is the forward chord
// v*dt scaled by sinc(omega*dt/2) and rotated half the heading change, so
// the truth pose is exact, not a numerical approximation. Wheel contact
// points sweep their own arcs at constant speed, so cumulative wheel
// distance grows linearly: (v_axis + offset*omega) * dt.
func (s *Simulator) Advance(dt time.Duration, v, omega float64) {
	step := dt.Seconds()
	dTheta := omega * step
	chord := v * step

	scale := 1.0
	if math.Abs(dTheta/2) > 1e-12 {
		scale = math.Sin(dTheta/2) / (dTheta / 2)
	}
	heading := s.truth.Theta.Radians() + dTheta/2
	s.truth.X += units.Length(chord * scale * -math.Sin(heading))
	s.truth.Y += units.Length(chord * scale * math.Cos(heading))
	s.truth.Theta += units.Angle(dTheta)

	for _, w := range s.vertical {
		w.roll(units.Length(v*step) + w.spec.Offset*units.Length(dTheta))
	}
	for _, w := range s.horizontal {
		// No lateral slip in a differential drive: horizontal wheels only
		// see rotation.
		w.roll(w.spec.Offset * units.Length(dTheta))
	}
	for _, imu := range s.imus {
		imu.AddHeading(units.Angle(dTheta))
	}
}

func (w *simWheel) roll(d units.Length) {
	w.distance += d
	w.encoder.SetAngle(units.Radians(w.distance.Metres() / (w.spec.Diameter.Metres() / 2)))
}
