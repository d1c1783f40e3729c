// internal/status/status_test.go
package status

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/ntc-dashboard/internal/ntc"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

type codedErr uint16

func (c codedErr) Error() string { return "coded" }
func (c codedErr) Code() uint16  { return uint16(c) }

func TestTracker_StartsUnknown(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, HealthUnknown, tr.Snapshot().Health)
	assert.Equal(t, "unknown", tr.View().HealthName)
}

func TestTracker_ErrorThenRecovery(t *testing.T) {
	tr := NewTracker()

	snap, changed := tr.Observe(fmt.Errorf("read: %w", ntc.ErrNoSignal))
	assert.True(t, changed)
	assert.Equal(t, HealthError, snap.Health)
	assert.Equal(t, ErrCodeNoSignal, snap.LastErrorCode)

	// same error again is not a change
	_, changed = tr.Observe(fmt.Errorf("read: %w", ntc.ErrNoSignal))
	assert.False(t, changed)

	tr.Tick()
	tr.Tick()
	assert.Equal(t, uint16(2), tr.Snapshot().SecondsInError)
	assert.Contains(t, tr.View().LastError, "no signal")

	snap, changed = tr.Observe(nil)
	assert.True(t, changed)
	assert.Equal(t, Snapshot{Health: HealthOK}, snap)
	assert.Empty(t, tr.View().LastError)
}

func TestTracker_TickOnlyWhileNotOK(t *testing.T) {
	tr := NewTracker()
	tr.Observe(nil)

	_, changed := tr.Tick()
	assert.False(t, changed)
	assert.Equal(t, uint16(0), tr.Snapshot().SecondsInError)
}

func TestTracker_TickIgnoredBeforeFirstPoll(t *testing.T) {
	tr := NewTracker()

	_, changed := tr.Tick()
	assert.False(t, changed)
	assert.Equal(t, Snapshot{Health: HealthUnknown}, tr.Snapshot())
}

func TestTracker_TickCountsWhileStale(t *testing.T) {
	tr := NewTracker()
	tr.snap.Health = HealthStale

	_, changed := tr.Tick()
	assert.True(t, changed)
	assert.Equal(t, uint16(1), tr.Snapshot().SecondsInError)
}

func TestTracker_TickSaturates(t *testing.T) {
	tr := NewTracker()
	tr.Observe(errors.New("x"))
	tr.snap.SecondsInError = SecondsInErrorMax - 1

	_, changed := tr.Tick()
	assert.True(t, changed)
	_, changed = tr.Tick()
	assert.False(t, changed)
	assert.Equal(t, SecondsInErrorMax, tr.Snapshot().SecondsInError)
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want uint16
	}{
		{"nil", nil, ErrCodeNone},
		{"generic", errors.New("x"), ErrCodeGeneric},
		{"timeout", fmt.Errorf("fetch: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"shape", fmt.Errorf("%w: missing ch1", telemetry.ErrInvalidTickShape), ErrCodeTickShape},
		{"range", ntc.ErrOutOfRange, ErrCodeOutOfRange},
		{"modbus", fmt.Errorf("read: %w", &modbus.ModbusError{ExceptionCode: modbus.ExceptionCodeIllegalDataAddress}), 0x102},
		{"coder", fmt.Errorf("w: %w", codedErr(77)), 77},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorCode(tc.err))
		})
	}
}

func TestHealthName(t *testing.T) {
	assert.Equal(t, "ok", HealthName(HealthOK))
	assert.Equal(t, "stale", HealthName(HealthStale))
	assert.Equal(t, "disabled", HealthName(HealthDisabled))
	assert.Equal(t, "invalid", HealthName(99))
}

func TestRegisters(t *testing.T) {
	regs := Registers(Snapshot{Health: HealthError, LastErrorCode: 4, SecondsInError: 9})
	assert.Equal(t, []uint16{HealthError, 4, 9}, regs)
}
