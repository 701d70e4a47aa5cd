// Command odomsim runs the odometry estimator against a simulated
// differential-drive robot, records the pose trail, and serves the debug
// HTTP API. Useful for exercising the full stack without hardware.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/liam830666/LemLib/api"
	"github.com/liam830666/LemLib/internal/config"
	"github.com/liam830666/LemLib/internal/hardware"
	"github.com/liam830666/LemLib/internal/monitoring"
	"github.com/liam830666/LemLib/internal/odom"
	"github.com/liam830666/LemLib/internal/sim"
	"github.com/liam830666/LemLib/internal/trail"
	"github.com/liam830666/LemLib/internal/units"
	"github.com/liam830666/LemLib/internal/version"
)

func main() {
	configPath := flag.String("config", "odomsim.yml", "path to the yaml configuration")
	flag.Parse()

	monitoring.Logf("odomsim %s starting", version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("odomsim: %v", err)
	}
	tick, _ := cfg.TickDuration()
	budget, _ := cfg.CalibrationBudget()

	vertSpecs := wheelSpecs(cfg.VerticalWheels)
	horizSpecs := wheelSpecs(cfg.HorizontalWheels)
	simulator := sim.New(cfg.IMUs, vertSpecs, horizSpecs)

	vertical, err := buildWheels(simulator.VerticalEncoders(), vertSpecs)
	if err != nil {
		log.Fatalf("odomsim: vertical wheels: %v", err)
	}
	horizontal, err := buildWheels(simulator.HorizontalEncoders(), horizSpecs)
	if err != nil {
		log.Fatalf("odomsim: horizontal wheels: %v", err)
	}

	estimator := odom.New(odom.Config{TickPeriod: tick}, simulator.IMUs(), vertical, horizontal)
	defer estimator.Close()

	severity := estimator.Calibrate(budget)
	monitoring.Logf("odomsim: calibration severity %d (%s)", severity, severity)

	recorder, err := trail.Open(cfg.TrailDB, "odomsim")
	if err != nil {
		log.Fatalf("odomsim: trail: %v", err)
	}
	defer recorder.Close()
	monitoring.Logf("odomsim: recording session %s to %s", recorder.SessionID(), cfg.TrailDB)

	server := api.NewServer(estimator, recorder, budget)
	go func() {
		monitoring.Logf("odomsim: serving debug api on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, server.ServeMux()); err != nil {
			log.Fatalf("odomsim: http: %v", err)
		}
	}()

	drive(cfg, simulator, estimator, recorder, tick)

	final := estimator.Pose()
	truth := simulator.Truth()
	monitoring.Logf("odomsim: done: estimate %s, truth %s", final, truth)
	summary(recorder)
}

// drive advances the simulator in real time for the configured duration,
// sampling the estimator into the trail every 10 ticks.
func drive(cfg *config.AppConfig, simulator *sim.Simulator, estimator *odom.TrackingWheelOdometry, recorder *trail.Recorder, tick time.Duration) {
	total := time.Duration(cfg.Sim.DurationSec * float64(time.Second))
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	deadline := time.Now().Add(total)
	i := 0
	for now := range ticker.C {
		if now.After(deadline) {
			return
		}
		simulator.Advance(tick, cfg.Sim.ForwardMPS, cfg.Sim.OmegaRadPS)
		if i%10 == 0 {
			if err := recorder.Record(now, estimator.Pose()); err != nil {
				monitoring.Logf("odomsim: trail write failed: %v", err)
			}
		}
		i++
	}
}

func summary(recorder *trail.Recorder) {
	samples, err := recorder.Samples()
	if err != nil {
		monitoring.Logf("odomsim: summary failed: %v", err)
		return
	}
	s := trail.Summarize(samples)
	monitoring.Logf("odomsim: %d samples over %s: %.2fm path, %.2fm displacement, p50 %.2f m/s, p95 %.2f m/s",
		s.Samples, s.Duration.Round(time.Millisecond), s.PathLength, s.Displacement, s.SpeedP50, s.SpeedP95)
}

func wheelSpecs(wheels []config.WheelConfig) []sim.WheelSpec {
	specs := make([]sim.WheelSpec, 0, len(wheels))
	for _, w := range wheels {
		specs = append(specs, sim.WheelSpec{
			Diameter: units.Metres(w.DiameterM),
			Offset:   units.Metres(w.OffsetM),
		})
	}
	return specs
}

func buildWheels(encoders []*hardware.MockEncoder, specs []sim.WheelSpec) ([]odom.TrackingWheel, error) {
	wheels := make([]odom.TrackingWheel, 0, len(specs))
	for i, spec := range specs {
		w, err := odom.NewTrackingWheel(encoders[i], spec.Diameter, spec.Offset)
		if err != nil {
			return nil, err
		}
		wheels = append(wheels, w)
	}
	return wheels, nil
}
