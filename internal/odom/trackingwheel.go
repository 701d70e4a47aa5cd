package odom

import (
	"errors"

	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/units"
)

// ErrInvalidDiameter is returned when constructing a tracking wheel with
// a non-positive diameter.
var ErrInvalidDiameter = errors.New("odom: tracking wheel diameter must be positive")

// TrackingWheel pairs an encoder with the geometry needed to turn its
// rotation into ground distance. Offset is the signed distance from the
// robot's turning center along the axis perpendicular to the wheel's
// rolling direction; the sign convention is that a positive offset
// produces a positive raw distance delta under counter-clockwise
// rotation. The encoder reference is non-owning.
type TrackingWheel struct {
	Encoder  hardware.Encoder
	Diameter units.Length
	Offset   units.Length
}

// NewTrackingWheel validates the wheel geometry. The encoder is not
// touched; calibration resets it later.
func NewTrackingWheel(encoder hardware.Encoder, diameter, offset units.Length) (TrackingWheel, error) {
	if diameter <= 0 {
		return TrackingWheel{}, ErrInvalidDiameter
	}
	return TrackingWheel{Encoder: encoder, Diameter: diameter, Offset: offset}, nil
}

// DistanceTraveled reads the encoder and converts cumulative rotation to
// linear distance at the wheel's contact point. Rotational contribution
// from the robot spinning is removed downstream using Offset, never here.
func (w TrackingWheel) DistanceTraveled() (units.Length, error) {
	angle, err := w.Encoder.Angle()
	if err != nil {
		return 0, err
	}
	return units.Length(angle.Radians()) * w.Diameter / 2, nil
}
