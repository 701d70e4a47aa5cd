package odom

import (
	"errors"
	"time"

	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/monitoring"
)

// CalibrationResult is the ordered severity of a calibration attempt,
// from fully nominal to severely degraded. The final result of a
// calibration is the maximum severity encountered across all steps.
type CalibrationResult int

const (
	// CalibrationNominal: every sensor came up cleanly.
	CalibrationNominal CalibrationResult = iota
	// CalibrationRetried: a sensor failed once but a retry succeeded.
	CalibrationRetried
	// CalibrationSensorExcluded: a sensor was excluded but a redundant
	// sensor covers its role.
	CalibrationSensorExcluded
	// CalibrationFallbackHeading: no inertial sensor is available;
	// heading derives from a horizontal wheel pair.
	CalibrationFallbackHeading
	// CalibrationAxisLost: a local axis has no active wheels and its
	// displacement is tracked as zero.
	CalibrationAxisLost
	// CalibrationHeadingLost: heading is untrackable; the heading delta
	// is zero for the remainder of operation.
	CalibrationHeadingLost
)

func (r CalibrationResult) String() string {
	switch r {
	case CalibrationNominal:
		return "nominal"
	case CalibrationRetried:
		return "retry succeeded"
	case CalibrationSensorExcluded:
		return "sensor excluded"
	case CalibrationFallbackHeading:
		return "fallback heading source"
	case CalibrationAxisLost:
		return "axis untrackable"
	case CalibrationHeadingLost:
		return "heading untrackable"
	default:
		return "unknown"
	}
}

// errBudgetExhausted marks a sensor operation that was abandoned because
// the calibration deadline passed.
var errBudgetExhausted = errors.New("odom: calibration budget exhausted")

// awaitWithDeadline runs op in a helper goroutine and waits for it until
// the deadline. Driver calls are never cancelled; a straggler finishes in
// the background and its result is discarded, which keeps the wall-clock
// bound even when a driver hangs.
func awaitWithDeadline(deadline time.Time, op func() error) error {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return errBudgetExhausted
	}
	done := make(chan error, 1)
	go func() { done <- op() }()
	select {
	case err := <-done:
		return err
	case <-time.After(remaining):
		return errBudgetExhausted
	}
}

// Calibrate brings the configured sensors online within maxDuration and
// selects the active sensor set and heading source the update loop will
// use. It returns the ordered severity of the attempt (see the
// CalibrationResult constants). Individual sensor failures degrade the
// configuration instead of aborting; any sensor operation that would
// outlive the remaining budget is treated as failed.
//
// Calibrate may be called again at any time, including while the update
// loop is running: the loop never observes a partially replaced
// configuration. The loop itself is started by the first call.
func (o *TrackingWheelOdometry) Calibrate(maxDuration time.Duration) CalibrationResult {
	// Suspend fusion while sensors are being zeroed: a tick against a
	// half-reset encoder would read a bogus delta. The loop resumes when
	// the new configuration is installed.
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		monitoring.Logf("odom: calibrate called on closed estimator")
		return CalibrationHeadingLost
	}
	o.active = nil
	o.mu.Unlock()

	deadline := time.Now().Add(maxDuration)
	severity := CalibrationNominal
	raise := func(s CalibrationResult) {
		if s > severity {
			severity = s
		}
	}

	// Step 1: zero every encoder-backed wheel. A wheel that fails to
	// reset is excluded from the active configuration.
	vertical := o.resetWheels(o.vertical, "vertical", deadline)
	horizontal := o.resetWheels(o.horizontal, "horizontal", deadline)
	if len(vertical) < len(o.vertical) && len(vertical) > 0 {
		raise(CalibrationSensorExcluded)
	}
	if len(horizontal) < len(o.horizontal) && len(horizontal) > 0 {
		raise(CalibrationSensorExcluded)
	}

	// Step 2: calibrate every inertial sensor, one retry each within the
	// remaining budget.
	var imus []hardware.IMU
	for i, imu := range o.imus {
		err := awaitWithDeadline(deadline, imu.Calibrate)
		if err == nil && imu.IsCalibrated() {
			imus = append(imus, imu)
			continue
		}
		monitoring.Logf("odom: imu %d calibration failed (%v), retrying", i, err)
		err = awaitWithDeadline(deadline, imu.Calibrate)
		if err == nil && imu.IsCalibrated() {
			imus = append(imus, imu)
			raise(CalibrationRetried)
			continue
		}
		monitoring.Logf("odom: imu %d excluded after retry (%v)", i, err)
	}

	// Step 3: heading source selection ladder, fixed precedence.
	var heading headingSource
	switch {
	case len(imus) > 0:
		heading = newIMUHeading(imus)
		if len(imus) < len(o.imus) {
			raise(CalibrationSensorExcluded)
		}
	default:
		if pair, ok := pickWheelPair(horizontal); ok {
			heading = pair
			raise(CalibrationFallbackHeading)
		} else {
			heading = noHeading{}
			raise(CalibrationHeadingLost)
		}
	}

	// Step 4: axis trackability.
	if len(vertical) == 0 || len(horizontal) == 0 {
		raise(CalibrationAxisLost)
	}

	o.install(&activeConfig{
		vertical:   vertical,
		horizontal: horizontal,
		heading:    heading,
	})
	monitoring.Logf("odom: calibration complete: %s (%d vertical, %d horizontal, %d imus)",
		severity, len(vertical), len(horizontal), len(imus))
	return severity
}

// resetWheels zeroes each wheel's encoder and returns the per-wheel
// tracking state for the wheels that came up.
func (o *TrackingWheelOdometry) resetWheels(wheels []TrackingWheel, axis string, deadline time.Time) []*wheelState {
	var active []*wheelState
	for i, w := range wheels {
		wheel := w
		if err := awaitWithDeadline(deadline, wheel.Encoder.Reset); err != nil {
			monitoring.Logf("odom: %s wheel %d excluded: %v", axis, i, err)
			continue
		}
		active = append(active, &wheelState{wheel: wheel})
	}
	return active
}

// pickWheelPair finds two active horizontal wheels with differing offsets
// for the fallback heading source.
func pickWheelPair(horizontal []*wheelState) (wheelPairHeading, bool) {
	for i := 0; i < len(horizontal); i++ {
		for j := i + 1; j < len(horizontal); j++ {
			oi, oj := horizontal[i].wheel.Offset, horizontal[j].wheel.Offset
			if oi != oj {
				return wheelPairHeading{i: i, j: j, offsetI: oi, offsetJ: oj}, true
			}
		}
	}
	return wheelPairHeading{}, false
}
