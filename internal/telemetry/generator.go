// internal/telemetry/generator.go
package telemetry

import (
	"context"
	"math/rand"
	"sync"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
)

// ReferenceSeedSamples is the length of the seeded history on a fresh dashboard.
const ReferenceSeedSamples = 12

// ReferenceSeed builds n samples per channel: channel i holds 22+i, 23+i, ...
func ReferenceSeed(reg *channel.Registry, n int) Seed {
	seed := make(Seed, reg.Count())
	for i, id := range reg.IDs() {
		vals := make([]float64, n)
		for k := range vals {
			vals[k] = float64(22 + i + k)
		}
		seed[id] = vals
	}
	return seed
}

// Generator is a placeholder traffic source: one random base in [0,100)
// per tick, offset by each channel's index.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	ids []string
}

func NewGenerator(reg *channel.Registry, seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		ids: reg.IDs(),
	}
}

// Next produces one full tick.
func (g *Generator) Next() Tick {
	g.mu.Lock()
	base := float64(g.rng.Intn(100))
	g.mu.Unlock()

	t := make(Tick, len(g.ids))
	for i, id := range g.ids {
		t[id] = base + float64(i)
	}
	return t
}

// ReadTick lets the generator drive a poller.
func (g *Generator) ReadTick(ctx context.Context) (Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Next(), nil
}
