// Package config loads the odomsim yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// WheelConfig describes one tracking wheel. Dimensions are in metres;
// offset follows the estimator's sign convention.
type WheelConfig struct {
	DiameterM float64 `yaml:"diameter_m" validate:"gt=0"`
	OffsetM   float64 `yaml:"offset_m"`
}

// SimConfig describes the simulated trajectory driven by odomsim.
type SimConfig struct {
	ForwardMPS  float64 `yaml:"forward_mps"`
	OmegaRadPS  float64 `yaml:"omega_rad_ps"`
	DurationSec float64 `yaml:"duration_sec" validate:"gt=0"`
}

// AppConfig is the root odomsim configuration.
type AppConfig struct {
	TickPeriod       string        `yaml:"tick_period"` // duration string like "10ms"
	CalibrationTime  string        `yaml:"calibration_time"`
	ListenAddr       string        `yaml:"listen_addr"`
	TrailDB          string        `yaml:"trail_db"`
	IMUs             int           `yaml:"imus" validate:"gte=0"`
	VerticalWheels   []WheelConfig `yaml:"vertical_wheels" validate:"dive"`
	HorizontalWheels []WheelConfig `yaml:"horizontal_wheels" validate:"dive"`
	Sim              SimConfig     `yaml:"sim"`
}

// Load reads and validates the configuration file, applying defaults for
// omitted fields.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}
	if _, err := cfg.TickDuration(); err != nil {
		return nil, err
	}
	if _, err := cfg.CalibrationBudget(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		TickPeriod:      "10ms",
		CalibrationTime: "3s",
		ListenAddr:      "127.0.0.1:8077",
		TrailDB:         "trail.db",
		Sim: SimConfig{
			ForwardMPS:  0.5,
			OmegaRadPS:  0.4,
			DurationSec: 30,
		},
	}
}

// TickDuration parses the loop period.
func (c *AppConfig) TickDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.TickPeriod)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid tick_period %q", c.TickPeriod)
	}
	return d, nil
}

// CalibrationBudget parses the calibration time budget.
func (c *AppConfig) CalibrationBudget() (time.Duration, error) {
	d, err := time.ParseDuration(c.CalibrationTime)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid calibration_time %q", c.CalibrationTime)
	}
	return d, nil
}
