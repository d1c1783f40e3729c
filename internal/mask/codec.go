// internal/mask/codec.go
package mask

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxBits is the width of a mask.
const MaxBits = 32

var (
	// ErrMaskOverflow reports a mask that does not fit the channel count.
	// High bits are never truncated silently.
	ErrMaskOverflow = errors.New("mask: overflow")

	ErrInvalidWidth = errors.New("mask: invalid channel count")
)

// Encode sets bit i iff flags[i] is true.
// Flags past MaxBits cannot be represented and are ignored.
func Encode(flags []bool) uint32 {
	var m uint32
	for i, f := range flags {
		if i >= MaxBits {
			break
		}
		if f {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Decode expands mask into channelCount flags, bit i -> flag i.
func Decode(m uint32, channelCount int) ([]bool, error) {
	if channelCount < 0 || channelCount > MaxBits {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, channelCount)
	}
	if channelCount < MaxBits && m>>uint(channelCount) != 0 {
		return nil, fmt.Errorf("%w: %s needs more than %d bits", ErrMaskOverflow, ToHex(m), channelCount)
	}

	out := make([]bool, channelCount)
	for i := range out {
		out[i] = m&(1<<uint(i)) != 0
	}
	return out, nil
}

// FromInt narrows a wire integer (JSON, form field) to a mask for channelCount channels.
// Negative values and values wider than channelCount fail with ErrMaskOverflow.
func FromInt(v int64, channelCount int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative mask %d", ErrMaskOverflow, v)
	}
	if v > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: %d exceeds %d bits", ErrMaskOverflow, v, MaxBits)
	}

	m := uint32(v)
	if _, err := Decode(m, channelCount); err != nil {
		return 0, err
	}
	return m, nil
}

// ToHex renders mask as uppercase hex with a 0x prefix and no padding.
func ToHex(m uint32) string {
	return "0x" + strings.ToUpper(strconv.FormatUint(uint64(m), 16))
}

// ToBinary renders mask with a 0b prefix, left-padded with zeros to width digits.
func ToBinary(m uint32, width int) string {
	b := strconv.FormatUint(uint64(m), 2)
	if pad := width - len(b); pad > 0 {
		b = strings.Repeat("0", pad) + b
	}
	return "0b" + b
}

// Projection is the display form of a mask.
type Projection struct {
	Mask   uint32 `json:"sensor_mask"`
	Hex    string `json:"sensor_mask_hex"`
	Binary string `json:"sensor_mask_binary"`
}

// Project renders mask for a registry of width channels.
func Project(m uint32, width int) Projection {
	return Projection{
		Mask:   m,
		Hex:    ToHex(m),
		Binary: ToBinary(m, width),
	}
}
