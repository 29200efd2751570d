package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Publishers < 1 {
		t.Errorf("Publishers = %d, want at least 1", cfg.Publishers)
	}
	if cfg.EventsPerPublisher < 1 {
		t.Errorf("EventsPerPublisher = %d, want at least 1", cfg.EventsPerPublisher)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
publishers: 2
events_per_publisher: 100
delay_ms: 10
schedule_ahead_ms: 20
verbose: true
record_path: /tmp/events.jsonl
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.Publishers != 2 {
		t.Errorf("Publishers = %d, want 2", cfg.Publishers)
	}
	if cfg.EventsPerPublisher != 100 {
		t.Errorf("EventsPerPublisher = %d, want 100", cfg.EventsPerPublisher)
	}
	if cfg.DelayMS != 10 || cfg.ScheduleAheadMS != 20 {
		t.Errorf("delays = %d/%d, want 10/20", cfg.DelayMS, cfg.ScheduleAheadMS)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.RecordPath != "/tmp/events.jsonl" {
		t.Errorf("RecordPath = %q", cfg.RecordPath)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "publishers: 2\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.Publishers != 2 {
		t.Errorf("Publishers = %d, want 2", cfg.Publishers)
	}
	def := Default()
	if cfg.EventsPerPublisher != def.EventsPerPublisher {
		t.Errorf("EventsPerPublisher = %d, want default %d", cfg.EventsPerPublisher, def.EventsPerPublisher)
	}
	if cfg.DelayMS != def.DelayMS {
		t.Errorf("DelayMS = %d, want default %d", cfg.DelayMS, def.DelayMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "publishers: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero publishers", "publishers: 0\n"},
		{"negative events", "events_per_publisher: -1\n"},
		{"negative delay", "delay_ms: -5\n"},
		{"negative schedule", "schedule_ahead_ms: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
