// Package config loads the demo driver's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the demo scenarios.
type Config struct {
	// Publishers is the number of concurrent publishing goroutines in
	// the stress scenario.
	Publishers int `yaml:"publishers"`

	// EventsPerPublisher is how many events each publisher emits.
	EventsPerPublisher int `yaml:"events_per_publisher"`

	// DelayMS is the delay used by the delayed-publication scenario.
	DelayMS int `yaml:"delay_ms"`

	// ScheduleAheadMS is how far in the future the at-time scenario
	// schedules its event.
	ScheduleAheadMS int `yaml:"schedule_ahead_ms"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`

	// RecordPath, when set, appends every StatusMessage and ScoreChanged
	// event as a JSON line to this file. Other demo event types are not
	// recorded.
	RecordPath string `yaml:"record_path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Publishers:         4,
		EventsPerPublisher: 20000,
		DelayMS:            200,
		ScheduleAheadMS:    500,
	}
}

// Load reads a YAML configuration file. Fields absent from the file
// keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Publishers < 1 {
		return fmt.Errorf("publishers must be at least 1, got %d", c.Publishers)
	}
	if c.EventsPerPublisher < 1 {
		return fmt.Errorf("events_per_publisher must be at least 1, got %d", c.EventsPerPublisher)
	}
	if c.DelayMS < 0 {
		return fmt.Errorf("delay_ms must not be negative, got %d", c.DelayMS)
	}
	if c.ScheduleAheadMS < 0 {
		return fmt.Errorf("schedule_ahead_ms must not be negative, got %d", c.ScheduleAheadMS)
	}
	return nil
}
