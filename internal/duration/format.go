// internal/duration/format.go
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format renders a step count (1 step = 1 second) as a "d h m s" label.
//
// Seconds are always present. A higher unit is prepended only when the
// quotient feeding it is non-zero, and once it is present every lower unit
// is kept even when zero: 5 -> "5 s", 3605 -> "1 h 0 m 5 s".
func Format(totalSeconds uint64) string {
	n := totalSeconds

	label := strconv.FormatUint(n%60, 10) + " s"
	n /= 60

	if n > 0 {
		label = strconv.FormatUint(n%60, 10) + " m " + label
		n /= 60

		if n > 0 {
			label = strconv.FormatUint(n%24, 10) + " h " + label
			n /= 24

			if n > 0 {
				label = strconv.FormatUint(n, 10) + " d " + label
			}
		}
	}

	return label
}

// Tooltip is the shared-tooltip header for one step.
func Tooltip(step uint64) string {
	return "T+ " + Format(step)
}

var ErrInvalidLabel = errors.New("duration: invalid label")

var unitSeconds = map[string]uint64{
	"d": 86400,
	"h": 3600,
	"m": 60,
	"s": 1,
}

// Parse sums a label produced by Format back into seconds.
// Units must appear at most once and the label must end in seconds.
func Parse(label string) (uint64, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if fields[len(fields)-1] != "s" {
		return 0, fmt.Errorf("%w: %q does not end in seconds", ErrInvalidLabel, label)
	}

	seen := make(map[string]bool, 4)

	var total uint64
	for i := 0; i < len(fields); i += 2 {
		unit := fields[i+1]

		mult, ok := unitSeconds[unit]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidLabel, unit)
		}
		if seen[unit] {
			return 0, fmt.Errorf("%w: duplicate unit %q", ErrInvalidLabel, unit)
		}
		seen[unit] = true

		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidLabel, err)
		}

		total += v * mult
	}

	return total, nil
}
