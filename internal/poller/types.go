// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// PollResult is the outcome of one poll cycle.
type PollResult struct {
	Source string
	At     time.Time

	// Latency covers the source read only.
	Latency time.Duration

	// Length is the buffer length after a committed tick.
	Length int

	Tick telemetry.Tick
	Err  error // non-nil means nothing was appended
}
