// internal/channel/registry.go
package channel

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// MaxChannels is the widest registry a 32-bit enable mask can describe.
const MaxChannels = 32

// ReferenceCount is the channel count of the reference device (one per palette colour).
const ReferenceCount = 8

// Palette assigns display colours by registry index, wrapping past the end.
var Palette = [...]string{
	"#EF4444", "#F97316", "#EAB308", "#22C55E",
	"#14B8A6", "#3B82F6", "#6366F1", "#A855F7",
}

var (
	ErrInvalidCount   = errors.New("channel: invalid channel count")
	ErrUnknownChannel = errors.New("channel: unknown channel")
)

// Channel describes one sensor input.
// ID, Index, Name and Color never change after the registry is built.
type Channel struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

// Registry is the fixed, ordered set of channels.
// Registry index is the channel's bit position in the enable mask.
type Registry struct {
	mu       sync.RWMutex
	channels []Channel
	byID     map[string]int
}

// NewRegistry creates count channels, all enabled.
func NewRegistry(count int) (*Registry, error) {
	if count < 1 || count > MaxChannels {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidCount, count, MaxChannels)
	}

	r := &Registry{
		channels: make([]Channel, count),
		byID:     make(map[string]int, count),
	}

	for i := 0; i < count; i++ {
		ch := Channel{
			ID:      "ch" + strconv.Itoa(i),
			Index:   i,
			Name:    "Channel " + strconv.Itoa(i),
			Color:   Palette[i%len(Palette)],
			Enabled: true,
		}
		r.channels[i] = ch
		r.byID[ch.ID] = i
	}

	return r, nil
}

func (r *Registry) Count() int {
	return len(r.channels)
}

// Channels returns a copy of all channels in registry order.
func (r *Registry) Channels() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Channel, len(r.channels))
	copy(out, r.channels)
	return out
}

func (r *Registry) Channel(i int) (Channel, bool) {
	if i < 0 || i >= len(r.channels) {
		return Channel{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channels[i], true
}

// IDs returns channel ids in registry order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.channels))
	for i := range r.channels {
		out[i] = r.channels[i].ID
	}
	return out
}

func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.byID[id]
	return i, ok
}

// Flags returns the enabled flag of every channel in registry order.
func (r *Registry) Flags() []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bool, len(r.channels))
	for i := range r.channels {
		out[i] = r.channels[i].Enabled
	}
	return out
}

func (r *Registry) SetEnabled(i int, enabled bool) error {
	if i < 0 || i >= len(r.channels) {
		return fmt.Errorf("%w: index %d (have %d)", ErrUnknownChannel, i, len(r.channels))
	}

	r.mu.Lock()
	r.channels[i].Enabled = enabled
	r.mu.Unlock()
	return nil
}

// SetFlags replaces every enabled flag at once.
// All-or-nothing: a length mismatch changes nothing.
func (r *Registry) SetFlags(flags []bool) error {
	if len(flags) != len(r.channels) {
		return fmt.Errorf("%w: got %d flags for %d channels", ErrUnknownChannel, len(flags), len(r.channels))
	}

	r.mu.Lock()
	for i, f := range flags {
		r.channels[i].Enabled = f
	}
	r.mu.Unlock()
	return nil
}
