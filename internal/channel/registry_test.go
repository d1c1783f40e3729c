// internal/channel/registry_test.go
package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_ReferenceLayout(t *testing.T) {
	r, err := NewRegistry(ReferenceCount)
	require.NoError(t, err)
	require.Equal(t, 8, r.Count())

	chs := r.Channels()
	for i, ch := range chs {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, Palette[i], ch.Color)
		assert.True(t, ch.Enabled)
	}

	assert.Equal(t, "ch3", chs[3].ID)
	assert.Equal(t, "Channel 3", chs[3].Name)

	i, ok := r.Index("ch5")
	require.True(t, ok)
	assert.Equal(t, 5, i)
}

func TestNewRegistry_PaletteWraps(t *testing.T) {
	r, err := NewRegistry(10)
	require.NoError(t, err)

	ch, ok := r.Channel(9)
	require.True(t, ok)
	assert.Equal(t, Palette[1], ch.Color)
}

func TestNewRegistry_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -1, MaxChannels + 1} {
		_, err := NewRegistry(n)
		assert.ErrorIs(t, err, ErrInvalidCount, "count %d", n)
	}
}

func TestSetFlags_AllOrNothing(t *testing.T) {
	r, err := NewRegistry(4)
	require.NoError(t, err)

	err = r.SetFlags([]bool{false, false})
	require.ErrorIs(t, err, ErrUnknownChannel)
	assert.Equal(t, []bool{true, true, true, true}, r.Flags())

	require.NoError(t, r.SetFlags([]bool{false, true, false, true}))
	assert.Equal(t, []bool{false, true, false, true}, r.Flags())
}

func TestSetEnabled_OutOfRange(t *testing.T) {
	r, err := NewRegistry(2)
	require.NoError(t, err)

	assert.ErrorIs(t, r.SetEnabled(2, false), ErrUnknownChannel)
	assert.ErrorIs(t, r.SetEnabled(-1, false), ErrUnknownChannel)

	require.NoError(t, r.SetEnabled(1, false))
	assert.Equal(t, []bool{true, false}, r.Flags())
}

func TestChannels_ReturnsCopy(t *testing.T) {
	r, err := NewRegistry(2)
	require.NoError(t, err)

	chs := r.Channels()
	chs[0].Enabled = false

	assert.Equal(t, []bool{true, true}, r.Flags())
}
