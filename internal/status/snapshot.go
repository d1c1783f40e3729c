// internal/status/snapshot.go
package status

import "sync"

// Snapshot is the current health of one telemetry source.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16 `json:"health"`
	LastErrorCode  uint16 `json:"last_error_code"`
	SecondsInError uint16 `json:"seconds_in_error"`
}

// Tracker owns a Snapshot and applies poll outcomes to it.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	lastErr string
}

// NewTracker starts in HealthUnknown.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Observe applies one poll outcome.
// Returns the new snapshot and whether anything changed.
func (t *Tracker) Observe(err error) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snap

	if err == nil {
		// Recovery / OK
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = ErrCodeNone
		t.snap.SecondsInError = 0
		t.lastErr = ""
	} else {
		t.snap.Health = HealthError
		t.snap.LastErrorCode = ErrorCode(err)
		t.lastErr = err.Error()
		// seconds_in_error increments on Tick only.
	}

	return t.snap, t.snap != prev
}

// Tick advances the seconds-in-error counter while in error or stale.
// Call at 1 Hz. Saturates at SecondsInErrorMax.
func (t *Tracker) Tick() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Health != HealthError && t.snap.Health != HealthStale {
		return t.snap, false
	}
	if t.snap.SecondsInError >= SecondsInErrorMax {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// View returns the current state with the last error text.
func (t *Tracker) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v := Encode(t.snap)
	v.LastError = t.lastErr
	return v
}
