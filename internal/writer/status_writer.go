// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/ntc-dashboard/internal/status"
)

// registerStatusWriter mirrors source health into holding registers.
type registerStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status mirror.
// The first write, and the first after any failure, re-asserts the full block.
func NewStatusWriter(plan StatusPlan, cli endpointClient) StatusWriter {
	return &registerStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true,
		last:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// WriteStatus writes the full block once, then only slots that changed.
func (sw *registerStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return errors.New("status writer: no client")
	}

	// ------------------------------------------------------------
	// Full block write (re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, sw.plan.Address, status.Registers(s)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []error

	write := func(slot int, v uint16) {
		addr := sw.plan.Address + uint16(slot)
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, addr, []uint16{v}); err != nil {
			errs = append(errs, fmt.Errorf("slot%d: %w", slot, err))
		}
	}

	if sw.last.Health != s.Health {
		write(status.SlotHealthCode, s.Health)
	}
	if sw.last.LastErrorCode != s.LastErrorCode {
		write(status.SlotLastErrorCode, s.LastErrorCode)
	}
	if sw.last.SecondsInError != s.SecondsInError {
		write(status.SlotSecondsInError, s.SecondsInError)
	}

	if len(errs) > 0 {
		// Partial failure: re-assert on next call.
		sw.needFull = true
		return fmt.Errorf("status writer: %w", errors.Join(errs...))
	}

	sw.last = s
	return nil
}
