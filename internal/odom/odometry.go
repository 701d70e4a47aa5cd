package odom

import (
	"sync"
	"time"

	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/units"
)

// Config holds the estimator parameters.
type Config struct {
	// TickPeriod is the fixed period of the fusion update loop.
	TickPeriod time.Duration
}

// DefaultConfig returns the production-default estimator parameters.
func DefaultConfig() Config {
	return Config{TickPeriod: 10 * time.Millisecond}
}

// DefaultCalibrationBudget is the default maxDuration for Calibrate.
const DefaultCalibrationBudget = 3 * time.Second

// wheelState tracks one active wheel's last observed cumulative reading
// so the loop can form per-tick deltas.
type wheelState struct {
	wheel TrackingWheel
	last  units.Length
}

// read returns the distance delta since the previous tick and advances
// the last observed reading. A failed read keeps the previous reading, so
// the delta is zero this tick and the cumulative value catches up once
// the sensor recovers.
func (ws *wheelState) read() units.Length {
	cur, err := ws.wheel.DistanceTraveled()
	if err != nil {
		return 0
	}
	delta := cur - ws.last
	ws.last = cur
	return delta
}

// activeConfig is the sensor set selected by the most recent calibration.
// It is immutable once installed and replaced wholesale by the next
// calibration, under the estimator mutex, so the loop never sees a
// half-updated set.
type activeConfig struct {
	vertical   []*wheelState
	horizontal []*wheelState
	heading    headingSource
}

// TrackingWheelOdometry fuses tracking wheel and inertial readings into a
// continuously updated pose estimate. Construct with New, bring sensors
// online with Calibrate, then read with Pose and overwrite with SetPose.
//
// The estimator holds non-owning sensor references; the caller must keep
// the sensors alive for the estimator's lifetime. Close stops the
// background loop.
type TrackingWheelOdometry struct {
	cfg        Config
	imus       []hardware.IMU
	vertical   []TrackingWheel
	horizontal []TrackingWheel

	// mu guards pose and active as one shared-state unit: the loop's
	// read-modify-write, external pose access, and configuration swaps
	// are all mutually exclusive.
	mu     sync.Mutex
	pose   units.Pose
	active *activeConfig

	running bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates an estimator over the given sensors. Any of the three sets
// may be empty; calibration decides what is usable.
func New(cfg Config, imus []hardware.IMU, vertical, horizontal []TrackingWheel) *TrackingWheelOdometry {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultConfig().TickPeriod
	}
	return &TrackingWheelOdometry{
		cfg:        cfg,
		imus:       imus,
		vertical:   vertical,
		horizontal: horizontal,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// install swaps in a freshly calibrated configuration and starts the
// update loop on first use.
func (o *TrackingWheelOdometry) install(ac *activeConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.active = ac
	if !o.running {
		o.running = true
		go o.run()
	}
}

func (o *TrackingWheelOdometry) run() {
	defer close(o.done)
	ticker := time.NewTicker(o.cfg.TickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			o.tick()
		}
	}
}

// tick performs one fusion update. It runs under the estimator mutex for
// its full duration: sensor reads are non-blocking cached samples, and
// holding the lock makes the read-modify-write atomic with respect to
// Pose, SetPose and configuration swaps.
func (o *TrackingWheelOdometry) tick() {
	o.mu.Lock()
	defer o.mu.Unlock()
	ac := o.active
	if ac == nil {
		return
	}

	vertDeltas := make([]units.Length, len(ac.vertical))
	for i, ws := range ac.vertical {
		vertDeltas[i] = ws.read()
	}
	horizDeltas := make([]units.Length, len(ac.horizontal))
	for i, ws := range ac.horizontal {
		horizDeltas[i] = ws.read()
	}

	dTheta := ac.heading.delta(horizDeltas)

	forward := axisDisplacement(ac.vertical, vertDeltas, dTheta)
	lateral := axisDisplacement(ac.horizontal, horizDeltas, dTheta)

	o.pose = integrate(o.pose, lateral, forward, dTheta)
}

// Pose returns a consistent snapshot of the current pose estimate.
func (o *TrackingWheelOdometry) Pose() units.Pose {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pose
}

// SetPose overwrites the pose estimate, e.g. for re-localization at a
// known position. The next tick's deltas apply on top of the new value.
func (o *TrackingWheelOdometry) SetPose(p units.Pose) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pose = p
}

// Close stops the background loop and waits for it to exit. The
// estimator cannot be restarted afterwards. Close is idempotent.
func (o *TrackingWheelOdometry) Close() {
	o.mu.Lock()
	if o.closed {
		wasRunning := o.running
		o.mu.Unlock()
		if wasRunning {
			<-o.done
		}
		return
	}
	o.closed = true
	wasRunning := o.running
	o.mu.Unlock()

	close(o.stop)
	if wasRunning {
		<-o.done
	}
}
