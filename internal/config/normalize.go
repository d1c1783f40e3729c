// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Dashboard

	d.Telemetry.Source.Kind = strings.ToLower(d.Telemetry.Source.Kind)

	// Device base URL is joined with fixed paths later.
	d.Device.URL = strings.TrimRight(d.Device.URL, "/")
}
