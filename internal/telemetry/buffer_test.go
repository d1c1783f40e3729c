// internal/telemetry/buffer_test.go
package telemetry

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
)

func newRegistry(t *testing.T, n int) *channel.Registry {
	t.Helper()
	reg, err := channel.NewRegistry(n)
	require.NoError(t, err)
	return reg
}

func fullTick(reg *channel.Registry, v float64) Tick {
	t := make(Tick, reg.Count())
	for i, id := range reg.IDs() {
		t[id] = v + float64(i)
	}
	return t
}

func assertEqualLengths(t *testing.T, s Snapshot) {
	t.Helper()
	for _, ser := range s.Series {
		assert.Len(t, ser.Values, s.Length, "channel %s", ser.ID)
	}
}

func TestAppendTick_GrowsAllChannelsByK(t *testing.T) {
	reg := newRegistry(t, channel.ReferenceCount)

	b, err := NewBuffer(reg, ReferenceSeed(reg, ReferenceSeedSamples))
	require.NoError(t, err)
	require.Equal(t, 12, b.Len())

	const k = 25
	for i := 0; i < k; i++ {
		n, err := b.AppendTick(fullTick(reg, float64(i)))
		require.NoError(t, err)
		assert.Equal(t, 12+i+1, n)
	}

	s := b.Snapshot()
	assert.Equal(t, 12+k, s.Length)
	assertEqualLengths(t, s)

	// last appended value sits at the tail of each channel
	assert.Equal(t, float64(k-1+3), s.Series[3].Values[s.Length-1])
}

func TestAppendTick_MissingChannelLeavesBufferUnchanged(t *testing.T) {
	reg := newRegistry(t, 6)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)
	_, err = b.AppendTick(fullTick(reg, 1))
	require.NoError(t, err)

	before := b.Snapshot()

	tick := fullTick(reg, 2)
	delete(tick, "ch4")

	n, err := b.AppendTick(tick)
	require.ErrorIs(t, err, ErrInvalidTickShape)
	assert.Equal(t, 0, n)
	assert.Equal(t, before, b.Snapshot())
}

func TestAppendTick_ExtraChannelRejected(t *testing.T) {
	reg := newRegistry(t, 2)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	tick := fullTick(reg, 2)
	tick["ch9"] = 1

	_, err = b.AppendTick(tick)
	require.ErrorIs(t, err, ErrInvalidTickShape)
	assert.Contains(t, err.Error(), "ch9")
	assert.Equal(t, 0, b.Len())
}

func TestAppendTick_NonFiniteRejected(t *testing.T) {
	reg := newRegistry(t, 2)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	_, err = b.AppendTick(Tick{"ch0": 1, "ch1": math.NaN()})
	require.ErrorIs(t, err, ErrInvalidSample)
	assert.Equal(t, 0, b.Len())
}

func TestSnapshot_IsIsolatedFromLaterAppends(t *testing.T) {
	reg := newRegistry(t, 3)

	b, err := NewBuffer(reg, ReferenceSeed(reg, 2))
	require.NoError(t, err)

	s := b.Snapshot()
	s.Series[0].Values[0] = -100

	_, err = b.AppendTick(fullTick(reg, 50))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Length)
	assert.Len(t, s.Series[0].Values, 2)
	assert.Equal(t, float64(22), b.Snapshot().Series[0].Values[0])
}

func TestSnapshot_CarriesChannelMetadata(t *testing.T) {
	reg := newRegistry(t, 2)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	s := b.Snapshot()
	require.Len(t, s.Series, 2)
	assert.Equal(t, "ch1", s.Series[1].ID)
	assert.Equal(t, "Channel 1", s.Series[1].Name)
	assert.Equal(t, channel.Palette[1], s.Series[1].Color)
}

func TestSnapshot_Labels(t *testing.T) {
	s := Snapshot{Length: 62}
	labels := s.Labels()

	require.Len(t, labels, 62)
	assert.Equal(t, "0 s", labels[0])
	assert.Equal(t, "1 m 1 s", labels[61])
}

func TestNewBuffer_RejectsRaggedSeed(t *testing.T) {
	reg := newRegistry(t, 2)

	_, err := NewBuffer(reg, Seed{"ch0": {1, 2}, "ch1": {1}})
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = NewBuffer(reg, Seed{"ch0": {1}})
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = NewBuffer(reg, Seed{"ch0": {1}, "chX": {1}})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestReferenceSeed(t *testing.T) {
	reg := newRegistry(t, channel.ReferenceCount)
	seed := ReferenceSeed(reg, ReferenceSeedSamples)

	assert.Equal(t, float64(22), seed["ch0"][0])
	assert.Equal(t, float64(33), seed["ch0"][11])
	assert.Equal(t, float64(29), seed["ch7"][0])
	assert.Equal(t, float64(40), seed["ch7"][11])
}

func TestAppendTick_ConcurrentReadersSeeEqualLengths(t *testing.T) {
	reg := newRegistry(t, channel.ReferenceCount)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, _ = b.AppendTick(fullTick(reg, float64(i)))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			assertEqualLengths(t, b.Snapshot())
		}
	}()

	wg.Wait()
	assert.Equal(t, 500, b.Len())
}

func TestAppendTick_ConcurrentWritersGetDistinctLengths(t *testing.T) {
	reg := newRegistry(t, 3)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	const writers, perWriter = 4, 100
	lengths := make(chan int, writers*perWriter)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				n, err := b.AppendTick(fullTick(reg, float64(i)))
				if assert.NoError(t, err) {
					lengths <- n
				}
			}
		}()
	}
	wg.Wait()
	close(lengths)

	seen := make(map[int]bool, writers*perWriter)
	for n := range lengths {
		assert.False(t, seen[n], "length %d returned twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, writers*perWriter)
	assert.Equal(t, writers*perWriter, b.Len())
}

func TestGenerator_FullTicksWithIndexOffset(t *testing.T) {
	reg := newRegistry(t, channel.ReferenceCount)
	g := NewGenerator(reg, 42)

	b, err := NewBuffer(reg, nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		tick, err := g.ReadTick(context.Background())
		require.NoError(t, err)

		base := tick["ch0"]
		assert.GreaterOrEqual(t, base, float64(0))
		assert.Less(t, base, float64(100))
		assert.Equal(t, base+7, tick["ch7"])

		_, err = b.AppendTick(tick)
		require.NoError(t, err)
	}
}

func TestGenerator_CancelledContext(t *testing.T) {
	reg := newRegistry(t, 1)
	g := NewGenerator(reg, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ReadTick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
