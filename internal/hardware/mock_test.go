package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liam830666/LemLib/internal/units"
)

func TestMockEncoderResetAndRead(t *testing.T) {
	enc := &MockEncoder{}
	enc.SetAngle(units.Degrees(720))

	a, err := enc.Angle()
	require.NoError(t, err)
	assert.InDelta(t, 720.0, a.Degrees(), 1e-9)

	require.NoError(t, enc.Reset())
	a, err = enc.Angle()
	require.NoError(t, err)
	assert.Zero(t, a.Radians())
	assert.Equal(t, 1, enc.Resets())
}

func TestMockEncoderErrorInjection(t *testing.T) {
	enc := &MockEncoder{ResetError: ErrDisconnected, ReadError: ErrDisconnected}

	// Reset errors are one-shot.
	assert.ErrorIs(t, enc.Reset(), ErrDisconnected)
	assert.NoError(t, enc.Reset())

	// Read errors persist until cleared.
	_, err := enc.Angle()
	assert.ErrorIs(t, err, ErrDisconnected)
	_, err = enc.Angle()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestMockIMUScriptedCalibration(t *testing.T) {
	imu := &MockIMU{CalibrateErrors: []error{ErrDisconnected, nil}}

	assert.Error(t, imu.Calibrate())
	assert.False(t, imu.IsCalibrated())

	require.NoError(t, imu.Calibrate())
	assert.True(t, imu.IsCalibrated())
	assert.Equal(t, 2, imu.CalibrateCalls())

	imu.AddHeading(units.Degrees(45))
	h, err := imu.Heading()
	require.NoError(t, err)
	assert.InDelta(t, 45.0, h.Degrees(), 1e-9)
}
