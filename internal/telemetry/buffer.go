// internal/telemetry/buffer.go
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/duration"
)

var (
	// ErrInvalidTickShape reports a tick that does not carry exactly one value per channel.
	ErrInvalidTickShape = errors.New("telemetry: invalid tick shape")

	ErrInvalidSample = errors.New("telemetry: invalid sample")
	ErrInvalidSeed   = errors.New("telemetry: invalid seed")
)

// Tick is one logical time step: channel id -> value.
type Tick map[string]float64

// Seed is optional pre-existing history, channel id -> values.
// Every channel must be present with the same length.
type Seed map[string][]float64

// Buffer is the append-only, per-channel sample store.
// Every channel's sequence has the same length at all observable times.
type Buffer struct {
	mu     sync.RWMutex
	meta   []channel.Channel
	series [][]float64
	length int
}

// NewBuffer creates a buffer for the registry's channels.
// A nil seed starts every channel empty.
func NewBuffer(reg *channel.Registry, seed Seed) (*Buffer, error) {
	meta := reg.Channels()

	b := &Buffer{
		meta:   meta,
		series: make([][]float64, len(meta)),
	}

	if seed == nil {
		return b, nil
	}

	if len(seed) != len(meta) {
		return nil, fmt.Errorf("%w: got %d channels, want %d", ErrInvalidSeed, len(seed), len(meta))
	}

	n := -1
	for i, ch := range meta {
		vals, ok := seed[ch.ID]
		if !ok {
			return nil, fmt.Errorf("%w: missing channel %s", ErrInvalidSeed, ch.ID)
		}
		if n >= 0 && len(vals) != n {
			return nil, fmt.Errorf("%w: channel %s has %d samples, want %d", ErrInvalidSeed, ch.ID, len(vals), n)
		}
		n = len(vals)

		b.series[i] = append(make([]float64, 0, len(vals)), vals...)
	}
	b.length = n

	return b, nil
}

// AppendTick appends one value to every channel as a single step and
// returns the length that step produced.
// All-or-nothing: a rejected tick leaves the buffer unchanged.
func (b *Buffer) AppendTick(t Tick) (int, error) {
	if err := b.checkShape(t); err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, ch := range b.meta {
		b.series[i] = append(b.series[i], t[ch.ID])
	}
	b.length++

	return b.length, nil
}

func (b *Buffer) checkShape(t Tick) error {
	var missing []string
	for _, ch := range b.meta {
		v, ok := t[ch.ID]
		if !ok {
			missing = append(missing, ch.ID)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: channel %s value %v", ErrInvalidSample, ch.ID, v)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing channels %s", ErrInvalidTickShape, strings.Join(missing, ","))
	}

	// All known ids present, so any surplus entry is unknown.
	if len(t) != len(b.meta) {
		var extra []string
		for id := range t {
			if !b.known(id) {
				extra = append(extra, id)
			}
		}
		sort.Strings(extra)
		return fmt.Errorf("%w: unknown channels %s", ErrInvalidTickShape, strings.Join(extra, ","))
	}

	return nil
}

func (b *Buffer) known(id string) bool {
	for _, ch := range b.meta {
		if ch.ID == id {
			return true
		}
	}
	return false
}

// Len is the number of steps every channel holds.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.length
}

// Series is one channel's history as handed to a renderer.
type Series struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}

// Snapshot is a copy of the buffer at one instant.
// It shares no memory with the buffer.
type Snapshot struct {
	Length int      `json:"length"`
	Series []Series `json:"series"`
}

// Snapshot copies every series under the read lock.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Length: b.length,
		Series: make([]Series, len(b.meta)),
	}
	for i, ch := range b.meta {
		vals := make([]float64, len(b.series[i]))
		copy(vals, b.series[i])

		s.Series[i] = Series{
			ID:     ch.ID,
			Name:   ch.Name,
			Color:  ch.Color,
			Values: vals,
		}
	}
	return s
}

// Labels formats the x axis, one label per step.
func (s Snapshot) Labels() []string {
	out := make([]string, s.Length)
	for i := range out {
		out[i] = duration.Format(uint64(i))
	}
	return out
}
