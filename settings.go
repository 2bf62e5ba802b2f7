package rebound

import (
	"fmt"
	"os"

	"github.com/driftengine/rebound/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Settings holds the world-level simulation tunables. They can be built in
// code from DefaultSettings or loaded from a YAML file.
type Settings struct {
	// Gravity acceleration (m/s²)
	Gravity mgl64.Vec2 `yaml:"gravity"`

	VelocityIterations int `yaml:"velocity_iterations"`
	PositionIterations int `yaml:"position_iterations"`

	Sleeping               bool    `yaml:"sleeping"`
	SleepTimeThreshold     float64 `yaml:"sleep_time_threshold"`
	SleepVelocityThreshold float64 `yaml:"sleep_velocity_threshold"`
	WakeEnergyThreshold    float64 `yaml:"wake_energy_threshold"`

	Solver constraint.Config `yaml:"solver"`
}

// DefaultSettings returns the tuning a typical scene starts from
func DefaultSettings() Settings {
	return Settings{
		Gravity:                mgl64.Vec2{0, -9.81},
		VelocityIterations:     8,
		PositionIterations:     4,
		Sleeping:               false,
		SleepTimeThreshold:     0.5,
		SleepVelocityThreshold: 0.05,
		WakeEnergyThreshold:    0.02,
		Solver: constraint.Config{
			MixRestitution:  constraint.MixSqrt,
			MixFriction:     constraint.MixSqrt,
			Persistence:     3,
			MatchTolerance:  0.05,
			Baumgarte:       0.2,
			PenetrationSlop: 0.002,
			WarmStarting:    true,
		},
	}
}

// LoadSettings reads a YAML settings file over the defaults, so a file only
// needs to name the values it changes
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("reading settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return settings, fmt.Errorf("settings file %s: %w", path, err)
	}

	return settings, nil
}

func (s Settings) validate() error {
	if s.VelocityIterations < 1 {
		return fmt.Errorf("velocity_iterations must be at least 1, got %d", s.VelocityIterations)
	}
	if s.PositionIterations < 0 {
		return fmt.Errorf("position_iterations must not be negative, got %d", s.PositionIterations)
	}
	if s.Solver.Persistence < 0 {
		return fmt.Errorf("collision_persistence must not be negative, got %d", s.Solver.Persistence)
	}
	if s.Solver.MatchTolerance < 0 {
		return fmt.Errorf("contact_match_tolerance must not be negative, got %g", s.Solver.MatchTolerance)
	}
	return nil
}
