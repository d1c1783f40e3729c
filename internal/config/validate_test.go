// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a defaulted config quickly
func base() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ---- tests ----

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(base()))
}

func TestApplyDefaults(t *testing.T) {
	cfg := base()
	d := cfg.Dashboard

	assert.Equal(t, ":8080", d.Listen)
	assert.Equal(t, 8, d.Channels)
	assert.Equal(t, 1000, d.Telemetry.IntervalMs)
	require.NotNil(t, d.Telemetry.SeedSamples)
	assert.Equal(t, 12, *d.Telemetry.SeedSamples)
	assert.Equal(t, SourceSimulator, d.Telemetry.Source.Kind)
	assert.Equal(t, 5000, d.Device.FetchTimeoutMs)
	assert.Equal(t, "/metrics", d.Metrics.Path)
}

func TestApplyDefaults_KeepsExplicitZeroSeed(t *testing.T) {
	zero := 0
	cfg := &Config{Dashboard: DashboardConfig{Telemetry: TelemetryConfig{SeedSamples: &zero}}}
	ApplyDefaults(cfg)
	assert.Equal(t, 0, *cfg.Dashboard.Telemetry.SeedSamples)
}

func TestValidate_ChannelRange(t *testing.T) {
	for _, n := range []int{-1, 33} {
		cfg := base()
		cfg.Dashboard.Channels = n
		assert.Error(t, Validate(cfg), "channels=%d", n)
	}

	cfg := base()
	cfg.Dashboard.Channels = 32
	assert.NoError(t, Validate(cfg))
}

func TestValidate_UnknownSourceKind(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Telemetry.Source.Kind = "serial"
	assert.Error(t, Validate(cfg))
}

func TestValidate_ModbusRequiresEndpoint(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Telemetry.Source.Kind = "Modbus"
	assert.Error(t, Validate(cfg))

	cfg.Dashboard.Telemetry.Source.Endpoint = "127.0.0.1:502"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ModbusRegisterSpace(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Telemetry.Source.Kind = SourceModbus
	cfg.Dashboard.Telemetry.Source.Endpoint = "127.0.0.1:502"
	cfg.Dashboard.Telemetry.Source.Address = 0xFFFC // 4 registers left, 8 needed
	assert.Error(t, Validate(cfg))
}

func TestValidate_DeviceURL(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Device.URL = "ftp://192.168.4.1"
	assert.Error(t, Validate(cfg))

	cfg.Dashboard.Device.URL = "http://192.168.4.1/"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_FallbackNeedsURL(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Device.FallbackToFixture = true
	assert.Error(t, Validate(cfg))
}

func TestValidate_MaskRegister(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Device.MaskRegister = &MaskRegisterConfig{Address: 10}
	assert.Error(t, Validate(cfg))

	cfg.Dashboard.Device.MaskRegister.Endpoint = "127.0.0.1:502"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_StatusBlockOverlap(t *testing.T) {
	cfg := base()
	overlap := uint16(9) // 9..11 overlaps 10..11
	cfg.Dashboard.Device.MaskRegister = &MaskRegisterConfig{
		Endpoint:      "127.0.0.1:502",
		Address:       10,
		StatusAddress: &overlap,
	}
	assert.Error(t, Validate(cfg))

	touching := uint16(12)
	cfg.Dashboard.Device.MaskRegister.StatusAddress = &touching
	assert.NoError(t, Validate(cfg))

	below := uint16(7) // 7..9
	cfg.Dashboard.Device.MaskRegister.StatusAddress = &below
	assert.NoError(t, Validate(cfg))
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := base()
	cfg.Dashboard.Telemetry.Source.Kind = "SIMULATOR"
	cfg.Dashboard.Device.URL = "http://device/"

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "SIMULATOR", cfg.Dashboard.Telemetry.Source.Kind)
	assert.Equal(t, "http://device/", cfg.Dashboard.Device.URL)

	Normalize(cfg)
	assert.Equal(t, SourceSimulator, cfg.Dashboard.Telemetry.Source.Kind)
	assert.Equal(t, "http://device", cfg.Dashboard.Device.URL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	raw := `
dashboard:
  listen: ":9090"
  channels: 6
  logging:
    level: debug
  telemetry:
    interval_ms: 250
    source:
      kind: modbus
      endpoint: "10.0.0.5:502"
      unit_id: 3
      address: 100
  device:
    url: "http://192.168.4.1"
    fallback_to_fixture: true
  metrics:
    enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	d := cfg.Dashboard
	assert.Equal(t, ":9090", d.Listen)
	assert.Equal(t, 6, d.Channels)
	assert.Equal(t, "debug", d.Logging.Level)
	assert.Equal(t, 250, d.Telemetry.IntervalMs)
	assert.Equal(t, uint8(3), d.Telemetry.Source.UnitID)
	assert.Equal(t, uint16(100), d.Telemetry.Source.Address)
	assert.True(t, d.Device.FallbackToFixture)
	assert.True(t, d.Metrics.Enabled)
	assert.Equal(t, "/metrics", d.Metrics.Path)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard: [1, 2"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
