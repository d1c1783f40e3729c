// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	d := cfg.Dashboard

	if d.Listen == "" {
		return fmt.Errorf("dashboard.listen is required")
	}

	// ------------------------------------------------------------
	// CHANNEL COUNT (one value for buffer, registry and form)
	// ------------------------------------------------------------

	if d.Channels < 1 || d.Channels > channel.MaxChannels {
		return fmt.Errorf(
			"dashboard.channels must be within 1..%d, got %d",
			channel.MaxChannels,
			d.Channels,
		)
	}

	// ------------------------------------------------------------
	// TELEMETRY
	// ------------------------------------------------------------

	t := d.Telemetry

	if t.IntervalMs <= 0 {
		return fmt.Errorf("telemetry.interval_ms must be > 0, got %d", t.IntervalMs)
	}
	if t.SeedSamples != nil && *t.SeedSamples < 0 {
		return fmt.Errorf("telemetry.seed_samples must be >= 0, got %d", *t.SeedSamples)
	}

	switch strings.ToLower(t.Source.Kind) {
	case SourceSimulator:
	case SourceModbus:
		if t.Source.Endpoint == "" {
			return fmt.Errorf("telemetry.source: kind %q requires endpoint", SourceModbus)
		}
		if t.Source.TimeoutMs <= 0 {
			return fmt.Errorf("telemetry.source.timeout_ms must be > 0, got %d", t.Source.TimeoutMs)
		}
		// one register per channel must fit the 16-bit address space
		if int(t.Source.Address)+d.Channels > 0x10000 {
			return fmt.Errorf(
				"telemetry.source: address %d + %d channels exceeds register space",
				t.Source.Address,
				d.Channels,
			)
		}
	default:
		return fmt.Errorf("telemetry.source.kind %q is not supported", t.Source.Kind)
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	dev := d.Device

	if dev.URL != "" {
		u, err := url.Parse(dev.URL)
		if err != nil {
			return fmt.Errorf("device.url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("device.url must be http(s), got %q", dev.URL)
		}
		if u.Host == "" {
			return fmt.Errorf("device.url has no host: %q", dev.URL)
		}
	}
	if dev.URL == "" && dev.FallbackToFixture {
		return fmt.Errorf("device.fallback_to_fixture is set but device.url is empty")
	}
	if dev.FetchTimeoutMs <= 0 {
		return fmt.Errorf("device.fetch_timeout_ms must be > 0, got %d", dev.FetchTimeoutMs)
	}

	if mr := dev.MaskRegister; mr != nil {
		if mr.Endpoint == "" {
			return fmt.Errorf("device.mask_register: endpoint is required")
		}
		if mr.Address == 0xFFFF {
			return fmt.Errorf("device.mask_register: address %d leaves no room for two registers", mr.Address)
		}
		if sa := mr.StatusAddress; sa != nil {
			if int(*sa)+3 > 0x10000 {
				return fmt.Errorf("device.mask_register: status_address %d leaves no room for three registers", *sa)
			}
			// [sa, sa+2] must not overlap [address, address+1]
			if *sa <= mr.Address+1 && mr.Address <= *sa+2 {
				return fmt.Errorf(
					"device.mask_register: status block at %d overlaps mask at %d",
					*sa,
					mr.Address,
				)
			}
		}
	}

	// ------------------------------------------------------------
	// METRICS
	// ------------------------------------------------------------

	if d.Metrics.Enabled && !strings.HasPrefix(d.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", d.Metrics.Path)
	}

	return nil
}
