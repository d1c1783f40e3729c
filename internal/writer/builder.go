// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/ntc-dashboard/internal/config"
	"github.com/tamzrod/ntc-dashboard/internal/device"
	wmodbus "github.com/tamzrod/ntc-dashboard/internal/writer/modbus"
)

// Build wires the configured destinations for form submits.
// Assumes config has already passed validation.
//
// Targets, in order:
//   - "device": HTTP settings form, when device.url is set
//   - "mask_register": Modbus mask mirror, when device.mask_register is set
//
// The StatusWriter is nil unless mask_register.status_address is set.
func Build(dev cfg.DeviceConfig, channels int) (Writer, StatusWriter, func() error, error) {
	var (
		targets []Target
		sw      StatusWriter
		closers []func() error
	)

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	if dev.URL != "" {
		sub, err := device.NewSubmitter(device.HTTPConfig{
			BaseURL: dev.URL,
			Timeout: time.Duration(dev.FetchTimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		targets = append(targets, Target{Name: "device", Writer: sub})
	}

	if mr := dev.MaskRegister; mr != nil {
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: mr.Endpoint,
			Timeout:  time.Duration(mr.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, c.Close)

		targets = append(targets, Target{
			Name: "mask_register",
			Writer: NewMaskWriter(MaskPlan{
				UnitID:   mr.UnitID,
				Address:  mr.Address,
				Channels: channels,
			}, c),
		})

		if mr.StatusAddress != nil {
			sw = NewStatusWriter(StatusPlan{UnitID: mr.UnitID, Address: *mr.StatusAddress}, c)
		}
	}

	return New(targets...), sw, closeAll, nil
}
