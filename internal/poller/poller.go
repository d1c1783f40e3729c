// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// Source supplies one full tick per call.
type Source interface {
	ReadTick(ctx context.Context) (telemetry.Tick, error)
}

// Sink receives committed ticks and reports the resulting length.
// *telemetry.Buffer satisfies it.
type Sink interface {
	AppendTick(t telemetry.Tick) (int, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Source   string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg  Config
	src  Source
	sink Sink
}

// New creates a poller with immutable config.
func New(cfg Config, src Source, sink Sink) (*Poller, error) {
	if cfg.Source == "" {
		return nil, errors.New("poller: source name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if src == nil || sink == nil {
		return nil, errors.New("poller: source and sink required")
	}
	return &Poller{cfg: cfg, src: src, sink: sink}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a failed read or a rejected tick appends nothing.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Source: p.cfg.Source,
		At:     time.Now(),
	}

	tick, err := p.src.ReadTick(ctx)
	res.Latency = time.Since(res.At)
	if err != nil {
		res.Err = err
		return res
	}

	n, err := p.sink.AppendTick(tick)
	if err != nil {
		res.Err = err
		return res
	}

	// Commit
	res.Tick = tick
	res.Length = n
	return res
}
