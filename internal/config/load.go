// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// Load reads a YAML file and applies defaults.
// It does not validate; call Validate, then Normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills zero values only.
func ApplyDefaults(cfg *Config) {
	d := &cfg.Dashboard

	if d.Listen == "" {
		d.Listen = ":8080"
	}
	if d.Channels == 0 {
		d.Channels = channel.ReferenceCount
	}

	if d.Telemetry.IntervalMs == 0 {
		d.Telemetry.IntervalMs = 1000
	}
	if d.Telemetry.SeedSamples == nil {
		n := telemetry.ReferenceSeedSamples
		d.Telemetry.SeedSamples = &n
	}
	if d.Telemetry.Source.Kind == "" {
		d.Telemetry.Source.Kind = SourceSimulator
	}
	if d.Telemetry.Source.TimeoutMs == 0 {
		d.Telemetry.Source.TimeoutMs = 1000
	}

	if d.Device.FetchTimeoutMs == 0 {
		d.Device.FetchTimeoutMs = 5000
	}
	if mr := d.Device.MaskRegister; mr != nil && mr.TimeoutMs == 0 {
		mr.TimeoutMs = 1000
	}

	if d.Metrics.Path == "" {
		d.Metrics.Path = "/metrics"
	}
}
