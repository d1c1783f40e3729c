// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/ntc-dashboard/internal/ntc"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// registerReader is the slice of modbus.Client the source uses.
type registerReader interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// Client implements poller.Source over Modbus TCP.
// One input register per channel, starting at Address, holding a raw 12-bit ADC count.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	reader  registerReader
	address uint16
	ids     []string
	convert func(uint16) (float64, error)
}

// Config is minimal transport config.
type Config struct {
	Endpoint   string
	UnitID     uint8
	Timeout    time.Duration
	Address    uint16
	ChannelIDs []string
}

// New creates a connected Modbus TCP source.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus source: endpoint required")
	}
	if len(cfg.ChannelIDs) == 0 {
		return nil, errors.New("modbus source: no channels")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	c := newClient(modbus.NewClient(h), cfg.Address, cfg.ChannelIDs)
	c.handler = h
	return c, nil
}

func newClient(r registerReader, address uint16, ids []string) *Client {
	return &Client{
		reader:  r,
		address: address,
		ids:     append([]string(nil), ids...),
		convert: ntc.RawToCelsius,
	}
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadTick reads every channel in one request.
// Any short read or conversion failure fails the whole tick.
func (c *Client) ReadTick(ctx context.Context) (telemetry.Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	raw, err := c.reader.ReadInputRegisters(c.address, uint16(len(c.ids)))
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("modbus source: read input registers: %w", err)
	}

	regs := unpackRegisters(raw)
	if len(regs) < len(c.ids) {
		return nil, fmt.Errorf("modbus source: short read: got %d registers, want %d", len(regs), len(c.ids))
	}

	tick := make(telemetry.Tick, len(c.ids))
	for i, id := range c.ids {
		v, err := c.convert(regs[i])
		if err != nil {
			return nil, fmt.Errorf("modbus source: channel %s raw=%d: %w", id, regs[i], err)
		}
		tick[id] = v
	}
	return tick, nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
