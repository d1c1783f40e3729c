// internal/ntc/ntc.go
package ntc

import (
	"errors"
	"math"
)

// Front-end and thermistor constants of the sensor board.
// Protocol-locked: the device reports raw 12-bit ADC counts at 0 dB attenuation.
const (
	FixedResistorOhms   = 1000.0
	SupplyMillivolts    = 3300.0
	FullScaleMillivolts = 1100.0
	MaxRaw              = 4095

	Beta     = 3950.0
	R25Ohms  = 100000.0
	T0Kelvin = 298.15
)

var (
	ErrNoSignal   = errors.New("ntc: no signal")
	ErrOutOfRange = errors.New("ntc: raw value out of range")
)

// RawToCelsius converts one ADC sample using the beta equation.
func RawToCelsius(raw uint16) (float64, error) {
	if raw == 0 {
		return 0, ErrNoSignal
	}
	if raw > MaxRaw {
		return 0, ErrOutOfRange
	}

	mv := float64(raw) * FullScaleMillivolts / MaxRaw
	r := FixedResistorOhms * (SupplyMillivolts/mv - 1)

	kelvin := 1 / (1/T0Kelvin + math.Log(r/R25Ohms)/Beta)
	return kelvin - 273.15, nil
}
