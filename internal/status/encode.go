// internal/status/encode.go
package status

import (
	"context"
	"errors"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/ntc-dashboard/internal/ntc"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// View is the API rendering of a Snapshot.
type View struct {
	Snapshot
	HealthName string `json:"health_name"`
	LastError  string `json:"last_error,omitempty"`
}

// Encode converts a Snapshot into its API view.
// No IO. No side effects.
func Encode(s Snapshot) View {
	return View{
		Snapshot:   s,
		HealthName: HealthName(s.Health),
	}
}

// HealthName maps a health code to its API name.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	default:
		return "invalid"
	}
}

// ErrorCode extracts a best-effort uint16 code from an error.
// Known failures map to fixed codes; otherwise any Code()-style method is honoured.
// If the error exposes nothing, returns ErrCodeGeneric.
func ErrorCode(err error) uint16 {
	if err == nil {
		return ErrCodeNone
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return ErrCodeModbusBase + uint16(me.ExceptionCode)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, telemetry.ErrInvalidTickShape):
		return ErrCodeTickShape
	case errors.Is(err, ntc.ErrNoSignal):
		return ErrCodeNoSignal
	case errors.Is(err, ntc.ErrOutOfRange):
		return ErrCodeOutOfRange
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}

	return ErrCodeGeneric
}

// Registers converts a Snapshot into its register block.
func Registers(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerBlock)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError

	return regs
}
