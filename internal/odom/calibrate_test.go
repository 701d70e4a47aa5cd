package odom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/units"
)

func mustWheel(t *testing.T, enc hardware.Encoder, diameter, offset units.Length) TrackingWheel {
	t.Helper()
	w, err := NewTrackingWheel(enc, diameter, offset)
	require.NoError(t, err)
	return w
}

// fullSensorSet returns one IMU, one vertical wheel and two horizontal
// wheels at differing offsets, all healthy.
func fullSensorSet(t *testing.T) ([]*hardware.MockIMU, []hardware.IMU, []TrackingWheel, []TrackingWheel) {
	t.Helper()
	imu := &hardware.MockIMU{}
	vertical := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(0.1)),
	}
	horizontal := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.05)),
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.15)),
	}
	return []*hardware.MockIMU{imu}, []hardware.IMU{imu}, vertical, horizontal
}

func TestCalibrateNominal(t *testing.T) {
	_, imus, vertical, horizontal := fullSensorSet(t)
	o := New(DefaultConfig(), imus, vertical, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationNominal, o.Calibrate(time.Second))

	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotNil(t, o.active)
	assert.Len(t, o.active.vertical, 1)
	assert.Len(t, o.active.horizontal, 2)
	assert.IsType(t, &imuHeading{}, o.active.heading)
}

func TestCalibrateIMURetrySucceeds(t *testing.T) {
	imu := &hardware.MockIMU{CalibrateErrors: []error{hardware.ErrDisconnected, nil}}
	vertical := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), 0)}
	horizontal := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1))}

	o := New(DefaultConfig(), []hardware.IMU{imu}, vertical, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationRetried, o.Calibrate(time.Second))
	assert.Equal(t, 2, imu.CalibrateCalls())
}

func TestCalibrateIMUExcludedWithRedundancy(t *testing.T) {
	good := &hardware.MockIMU{}
	bad := &hardware.MockIMU{CalibrateErrors: []error{hardware.ErrDisconnected, hardware.ErrDisconnected}}
	vertical := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), 0)}
	horizontal := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1))}

	o := New(DefaultConfig(), []hardware.IMU{good, bad}, vertical, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationSensorExcluded, o.Calibrate(time.Second))

	o.mu.Lock()
	heading, ok := o.active.heading.(*imuHeading)
	o.mu.Unlock()
	require.True(t, ok)
	assert.Len(t, heading.imus, 1)
}

func TestCalibrateWheelExcludedWithRedundancy(t *testing.T) {
	_, imus, _, _ := fullSensorSet(t)
	vertical := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{ResetError: hardware.ErrDisconnected}, units.Metres(0.07), units.Metres(0.1)),
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1)),
	}
	horizontal := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1))}

	o := New(DefaultConfig(), imus, vertical, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationSensorExcluded, o.Calibrate(time.Second))

	o.mu.Lock()
	defer o.mu.Unlock()
	assert.Len(t, o.active.vertical, 1)
}

func TestCalibrateWheelPairFallback(t *testing.T) {
	// No inertial sensors, two horizontal wheels at differing offsets:
	// heading must come from the wheel differential.
	_, _, vertical, horizontal := fullSensorSet(t)
	o := New(DefaultConfig(), nil, vertical, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationFallbackHeading, o.Calibrate(time.Second))

	o.mu.Lock()
	defer o.mu.Unlock()
	assert.IsType(t, wheelPairHeading{}, o.active.heading)
}

func TestCalibrateWheelPairNeedsDifferingOffsets(t *testing.T) {
	vertical := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), 0)}
	horizontal := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1)),
		mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1)),
	}

	o := New(DefaultConfig(), nil, vertical, horizontal)
	defer o.Close()

	// Equal offsets carry no rotational information, so heading is lost.
	assert.Equal(t, CalibrationHeadingLost, o.Calibrate(time.Second))

	o.mu.Lock()
	defer o.mu.Unlock()
	assert.IsType(t, noHeading{}, o.active.heading)
}

func TestCalibrateMissingVerticalAxis(t *testing.T) {
	imu := &hardware.MockIMU{}
	horizontal := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1))}

	o := New(DefaultConfig(), []hardware.IMU{imu}, nil, horizontal)
	defer o.Close()

	assert.Equal(t, CalibrationAxisLost, o.Calibrate(time.Second))
}

func TestCalibrateNothingUsable(t *testing.T) {
	bad := &hardware.MockIMU{CalibrateErrors: []error{hardware.ErrDisconnected, hardware.ErrDisconnected}}
	o := New(DefaultConfig(), []hardware.IMU{bad}, nil, nil)
	defer o.Close()

	assert.Equal(t, CalibrationHeadingLost, o.Calibrate(time.Second))
}

func TestCalibrateReturnsWithinBudget(t *testing.T) {
	// Every sensor hangs well past the budget; calibrate must still
	// return by the wall-clock deadline plus scheduling overhead.
	hang := 2 * time.Second
	imu := &hardware.MockIMU{
		CalibrateLatency: hang,
		CalibrateErrors:  []error{hardware.ErrDisconnected, hardware.ErrDisconnected},
	}
	vertical := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{ResetLatency: hang}, units.Metres(0.07), 0),
	}
	horizontal := []TrackingWheel{
		mustWheel(t, &hardware.MockEncoder{ResetLatency: hang}, units.Metres(0.07), units.Metres(-0.1)),
	}

	o := New(DefaultConfig(), []hardware.IMU{imu}, vertical, horizontal)
	defer o.Close()

	budget := 100 * time.Millisecond
	start := time.Now()
	sev := o.Calibrate(budget)
	elapsed := time.Since(start)

	assert.Equal(t, CalibrationHeadingLost, sev)
	assert.Less(t, elapsed, budget+100*time.Millisecond,
		"calibrate exceeded its wall-clock budget: %v", elapsed)
}

func TestRecalibrateSwapsConfiguration(t *testing.T) {
	imu := &hardware.MockIMU{}
	vertical := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), 0)}
	horizontal := []TrackingWheel{mustWheel(t, &hardware.MockEncoder{}, units.Metres(0.07), units.Metres(-0.1))}

	o := New(Config{TickPeriod: time.Millisecond}, []hardware.IMU{imu}, vertical, horizontal)
	defer o.Close()

	require.Equal(t, CalibrationNominal, o.Calibrate(time.Second))
	o.mu.Lock()
	first := o.active
	o.mu.Unlock()

	// Second calibration while the loop is running replaces the whole
	// configuration atomically.
	require.Equal(t, CalibrationNominal, o.Calibrate(time.Second))
	o.mu.Lock()
	second := o.active
	o.mu.Unlock()
	assert.NotSame(t, first, second)
}

func TestCalibrateAfterCloseRefusesToStart(t *testing.T) {
	_, imus, vertical, horizontal := fullSensorSet(t)
	o := New(DefaultConfig(), imus, vertical, horizontal)
	o.Close()

	assert.Equal(t, CalibrationHeadingLost, o.Calibrate(time.Second))
	o.mu.Lock()
	defer o.mu.Unlock()
	assert.Nil(t, o.active)
	assert.False(t, o.running)
}

func TestCalibrationResultString(t *testing.T) {
	assert.Equal(t, "nominal", CalibrationNominal.String())
	assert.Equal(t, "heading untrackable", CalibrationHeadingLost.String())
	assert.Equal(t, "unknown", CalibrationResult(42).String())
}
