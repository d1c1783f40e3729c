// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	cfg "github.com/tamzrod/ntc-dashboard/internal/config"
	pmodbus "github.com/tamzrod/ntc-dashboard/internal/poller/modbus"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// Build constructs a Poller for the configured telemetry source.
// The returned closer releases the source transport, if any.
// Modbus connects once here (fail fast at startup).
func Build(t cfg.TelemetryConfig, reg *channel.Registry, sink Sink) (*Poller, func() error, error) {
	var (
		src    Source
		closer = func() error { return nil }
	)

	switch t.Source.Kind {
	case cfg.SourceSimulator:
		src = telemetry.NewGenerator(reg, t.Source.Seed)

	case cfg.SourceModbus:
		client, err := pmodbus.New(pmodbus.Config{
			Endpoint:   t.Source.Endpoint,
			UnitID:     t.Source.UnitID,
			Timeout:    time.Duration(t.Source.TimeoutMs) * time.Millisecond,
			Address:    t.Source.Address,
			ChannelIDs: reg.IDs(),
		})
		if err != nil {
			return nil, nil, err
		}
		src = client
		closer = client.Close

	default:
		return nil, nil, fmt.Errorf("poller: unsupported source kind %q", t.Source.Kind)
	}

	p, err := New(
		Config{
			Source:   t.Source.Kind,
			Interval: time.Duration(t.IntervalMs) * time.Millisecond,
		},
		src,
		sink,
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	return p, closer, nil
}
