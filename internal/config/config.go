// internal/config/config.go
package config

import "github.com/tamzrod/ntc-dashboard/internal/logger"

type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type DashboardConfig struct {
	Listen   string `yaml:"listen"`
	Channels int    `yaml:"channels"`

	Logging   logger.Config   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Device    DeviceConfig    `yaml:"device"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	IntervalMs int `yaml:"interval_ms"`

	// SeedSamples is the seeded history per channel; nil => reference history.
	SeedSamples *int `yaml:"seed_samples"`

	Source SourceConfig `yaml:"source"`
}

const (
	SourceSimulator = "simulator"
	SourceModbus    = "modbus"
)

type SourceConfig struct {
	Kind string `yaml:"kind"`

	// simulator
	Seed int64 `yaml:"seed"`

	// modbus
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Address   uint16 `yaml:"address"` // first input register; one per channel
}

// ---- DEVICE ----

type DeviceConfig struct {
	URL               string `yaml:"url"`     // device base url; empty => fixture only
	Fixture           string `yaml:"fixture"` // record file; empty => built-in test fixture
	FallbackToFixture bool   `yaml:"fallback_to_fixture"`
	FetchTimeoutMs    int    `yaml:"fetch_timeout_ms"`

	// Optional Modbus mirror of the enable mask (opt-in).
	MaskRegister *MaskRegisterConfig `yaml:"mask_register"`
}

type MaskRegisterConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"` // two holding registers, high word first
	TimeoutMs int    `yaml:"timeout_ms"`

	// StatusAddress mirrors source health into three holding registers; nil => off.
	StatusAddress *uint16 `yaml:"status_address"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
