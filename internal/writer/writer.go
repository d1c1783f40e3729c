// internal/writer/writer.go
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/mask"
)

type fanout struct {
	targets []Target
}

// New fans one record out to every target.
// Every target is attempted; failures are joined.
// With no targets, WriteConfig is a no-op.
func New(targets ...Target) Writer {
	return &fanout{targets: append([]Target(nil), targets...)}
}

func (w *fanout) WriteConfig(ctx context.Context, rec configsync.Record) error {
	var errs []error

	for _, t := range w.targets {
		if t.Writer == nil {
			errs = append(errs, fmt.Errorf("writer: target %s has no writer", t.Name))
			continue
		}
		if err := t.Writer.WriteConfig(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("writer: target=%s: %w", t.Name, err))
		}
	}

	return errors.Join(errs...)
}

// ---- mask mirror ----

type maskWriter struct {
	plan MaskPlan
	cli  endpointClient
}

// NewMaskWriter writes the record's sensor mask into two holding registers.
func NewMaskWriter(plan MaskPlan, cli endpointClient) Writer {
	return &maskWriter{plan: plan, cli: cli}
}

func (w *maskWriter) WriteConfig(ctx context.Context, rec configsync.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.cli == nil {
		return errors.New("writer: mask mirror has no client")
	}

	m, err := mask.FromInt(rec.SensorMask, w.plan.Channels)
	if err != nil {
		return err
	}

	regs := []uint16{uint16(m >> 16), uint16(m)}
	if err := w.cli.WriteRegisters(w.plan.UnitID, w.plan.Address, regs); err != nil {
		return fmt.Errorf(
			"writer: mask unit=%d addr=%d err=%w",
			w.plan.UnitID, w.plan.Address, err,
		)
	}
	return nil
}
