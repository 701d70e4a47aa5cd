package hardware

import (
	"sync"
	"time"

	"github.com/liam830666/LemLib/internal/units"
)

// MockEncoder implements Encoder with settable readings and injectable
// errors and latency. The simulator and the package tests drive it; it is
// safe for concurrent use since the fusion loop reads from its own
// goroutine.
type MockEncoder struct {
	mu sync.Mutex

	angle units.Angle

	// ResetError is returned by the next Reset call if set.
	ResetError error
	// ReadError is returned by every Angle call while set.
	ReadError error
	// ResetLatency delays each Reset call, for exercising calibration
	// deadlines.
	ResetLatency time.Duration

	resets int
}

func (e *MockEncoder) Reset() error {
	e.mu.Lock()
	latency := e.ResetLatency
	e.mu.Unlock()
	if latency > 0 {
		time.Sleep(latency)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.resets++
	if e.ResetError != nil {
		err := e.ResetError
		e.ResetError = nil
		return err
	}
	e.angle = 0
	return nil
}

func (e *MockEncoder) Angle() (units.Angle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ReadError != nil {
		return 0, e.ReadError
	}
	return e.angle, nil
}

// SetAngle overwrites the cumulative rotation reading.
func (e *MockEncoder) SetAngle(a units.Angle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.angle = a
}

// AddAngle advances the cumulative rotation reading.
func (e *MockEncoder) AddAngle(a units.Angle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.angle += a
}

// Resets reports how many times Reset was called.
func (e *MockEncoder) Resets() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resets
}

// MockIMU implements IMU with scripted calibration outcomes and settable
// heading readings.
type MockIMU struct {
	mu sync.Mutex

	heading    units.Angle
	calibrated bool

	// CalibrateErrors is consumed one entry per Calibrate call; a nil
	// entry (or an exhausted slice) means success. Lets tests script
	// fail-then-succeed retry sequences.
	CalibrateErrors []error
	// CalibrateLatency delays each Calibrate call.
	CalibrateLatency time.Duration
	// ReadError is returned by every Heading call while set.
	ReadError error

	calibrateCalls int
}

func (m *MockIMU) Calibrate() error {
	m.mu.Lock()
	latency := m.CalibrateLatency
	m.mu.Unlock()
	if latency > 0 {
		time.Sleep(latency)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calibrateCalls++
	if len(m.CalibrateErrors) > 0 {
		err := m.CalibrateErrors[0]
		m.CalibrateErrors = m.CalibrateErrors[1:]
		if err != nil {
			return err
		}
	}
	m.calibrated = true
	m.heading = 0
	return nil
}

func (m *MockIMU) IsCalibrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calibrated
}

func (m *MockIMU) Heading() (units.Angle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadError != nil {
		return 0, m.ReadError
	}
	return m.heading, nil
}

// SetHeading overwrites the cumulative heading reading.
func (m *MockIMU) SetHeading(a units.Angle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heading = a
}

// AddHeading advances the cumulative heading reading.
func (m *MockIMU) AddHeading(a units.Angle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heading += a
}

// CalibrateCalls reports how many times Calibrate was called.
func (m *MockIMU) CalibrateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calibrateCalls
}
