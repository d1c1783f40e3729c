// internal/mask/codec_test.go
package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Reference(t *testing.T) {
	m := Encode([]bool{true, false, true, false, false, false})

	assert.Equal(t, uint32(5), m)
	assert.Equal(t, "0x5", ToHex(m))
	assert.Equal(t, "0b000101", ToBinary(m, 6))
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for v := uint32(0); v < 1<<uint(n); v++ {
			flags, err := Decode(v, n)
			require.NoError(t, err)
			require.Len(t, flags, n)
			require.Equal(t, v, Encode(flags))

			again, err := Decode(Encode(flags), n)
			require.NoError(t, err)
			require.Equal(t, flags, again)
		}
	}
}

func TestDecode_FullWidth(t *testing.T) {
	flags, err := Decode(^uint32(0), MaxBits)
	require.NoError(t, err)
	assert.Len(t, flags, MaxBits)
	assert.Equal(t, ^uint32(0), Encode(flags))
}

func TestDecode_Overflow(t *testing.T) {
	_, err := Decode(0b1000000, 6)
	assert.ErrorIs(t, err, ErrMaskOverflow)

	_, err = Decode(1, 0)
	assert.ErrorIs(t, err, ErrMaskOverflow)

	_, err = Decode(0, MaxBits+1)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestFromInt(t *testing.T) {
	m, err := FromInt(10, 6)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), m)

	_, err = FromInt(-1, 6)
	assert.ErrorIs(t, err, ErrMaskOverflow)

	_, err = FromInt(64, 6)
	assert.ErrorIs(t, err, ErrMaskOverflow)

	_, err = FromInt(1<<40, MaxBits)
	assert.ErrorIs(t, err, ErrMaskOverflow)
}

func TestToHex(t *testing.T) {
	assert.Equal(t, "0x0", ToHex(0))
	assert.Equal(t, "0x2A", ToHex(42))
	assert.Equal(t, "0xFF", ToHex(255))
}

func TestToBinary(t *testing.T) {
	assert.Equal(t, "0b000000", ToBinary(0, 6))
	assert.Equal(t, "0b001011", ToBinary(11, 6))
	assert.Equal(t, "0b101", ToBinary(5, 0))
	// width narrower than the value never truncates
	assert.Equal(t, "0b11111111", ToBinary(255, 6))
}

func TestProject(t *testing.T) {
	p := Project(11, 6)
	assert.Equal(t, Projection{Mask: 11, Hex: "0xB", Binary: "0b001011"}, p)
}
