// internal/writer/types.go
package writer

import (
	"context"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/status"
)

// Writer pushes a committed form record to one destination.
type Writer interface {
	WriteConfig(ctx context.Context, rec configsync.Record) error
}

// StatusWriter is the delivery-only contract for source health.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// Target is one named destination.
type Target struct {
	Name   string
	Writer Writer
}

// MaskPlan places the enable mask in holding registers.
type MaskPlan struct {
	UnitID   uint8
	Address  uint16 // high word at Address, low word at Address+1
	Channels int
}

// StatusPlan places the health block in holding registers.
type StatusPlan struct {
	UnitID  uint8
	Address uint16
}

// endpointClient is the exact contract the Modbus writers use.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
