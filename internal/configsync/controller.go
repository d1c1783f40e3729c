// internal/configsync/controller.go
package configsync

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/mask"
)

// State of the settings form.
type State int

const (
	// StateLoading: no config loaded yet, form disabled, no mask exposed.
	StateLoading State = iota
	// StateReady: form enabled, mask derived from the channel flags.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNotReady       = errors.New("configsync: config not loaded")
	ErrUnknownChannel = channel.ErrUnknownChannel
)

// View is everything the form renders.
type View struct {
	State string `json:"state"`
	Credentials
	Channels []channel.Channel `json:"channels"`
	Flags    []bool            `json:"flags"`
	mask.Projection
}

// Observer is told about every committed change.
type Observer func(View)

// Controller keeps the channel flags and the enable mask in step.
// The flags are authoritative; the mask is always recomputed from them.
type Controller struct {
	mu    sync.Mutex
	reg   *channel.Registry
	state State
	creds Credentials
	mask  uint32

	log       zerolog.Logger
	observers []Observer
}

func NewController(reg *channel.Registry, log zerolog.Logger) *Controller {
	return &Controller{
		reg:   reg,
		state: StateLoading,
		log:   log.With().Str("component", "configsync").Logger(),
	}
}

// Observe registers fn. Observers run after the change is committed,
// outside the controller lock.
func (c *Controller) Observe(fn Observer) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadConfig populates the form from rec and moves to Ready.
// The displayed mask is re-encoded from the decoded flags, never echoed from rec.
// On error nothing changes.
func (c *Controller) LoadConfig(rec Record) error {
	n := c.reg.Count()

	m, err := mask.FromInt(rec.SensorMask, n)
	if err != nil {
		return err
	}
	flags, err := mask.Decode(m, n)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if err := c.reg.SetFlags(flags); err != nil {
		c.mu.Unlock()
		return err
	}
	c.creds = rec.Credentials()
	c.mask = mask.Encode(c.reg.Flags())
	c.state = StateReady

	v := c.viewLocked()
	obs := c.observers
	c.mu.Unlock()

	c.log.Info().
		Str("mask", v.Hex).
		Str("sta_ssid", v.StaSSID).
		Msg("config loaded")

	notify(obs, v)
	return nil
}

// OnChannelToggle sets one channel's flag and recomputes the mask.
func (c *Controller) OnChannelToggle(index int, enabled bool) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if err := c.reg.SetEnabled(index, enabled); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mask = mask.Encode(c.reg.Flags())

	v := c.viewLocked()
	obs := c.observers
	c.mu.Unlock()

	c.log.Debug().
		Int("channel", index).
		Bool("enabled", enabled).
		Str("mask", v.Hex).
		Msg("channel toggled")

	notify(obs, v)
	return nil
}

// SetCredentials replaces the form's text fields.
func (c *Controller) SetCredentials(creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.creds = creds

	v := c.viewLocked()
	obs := c.observers
	c.mu.Unlock()

	notify(obs, v)
	return nil
}

// View returns the current form state; ErrNotReady while loading.
func (c *Controller) View() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return View{State: c.state.String()}, ErrNotReady
	}
	return c.viewLocked(), nil
}

// Record re-serialises the form for submission to the device.
func (c *Controller) Record() (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return Record{}, ErrNotReady
	}
	return Record{
		StaSSID:    c.creds.StaSSID,
		StaPass:    c.creds.StaPass,
		APSSID:     c.creds.APSSID,
		APPass:     c.creds.APPass,
		SensorMask: int64(c.mask),
	}, nil
}

func (c *Controller) viewLocked() View {
	return View{
		State:       c.state.String(),
		Credentials: c.creds,
		Channels:    c.reg.Channels(),
		Flags:       c.reg.Flags(),
		Projection:  mask.Project(c.mask, c.reg.Count()),
	}
}

func notify(obs []Observer, v View) {
	for _, fn := range obs {
		fn(v)
	}
}
