// internal/configsync/record.go
package configsync

import (
	"errors"
	"fmt"
)

// Device string limits (bytes).
const (
	SSIDMaxLen     = 32
	PasswordMaxLen = 64
)

var ErrInvalidRecord = errors.New("configsync: invalid record")

// Record is the device configuration as served at /config.json.
// SensorMask is kept wide so that out-of-range wire values can be rejected
// instead of wrapped.
type Record struct {
	StaSSID    string `json:"sta_ssid" yaml:"sta_ssid"`
	StaPass    string `json:"sta_pass" yaml:"sta_pass"`
	APSSID     string `json:"ap_ssid" yaml:"ap_ssid"`
	APPass     string `json:"ap_pass" yaml:"ap_pass"`
	SensorMask int64  `json:"sensor_mask" yaml:"sensor_mask"`
}

// Credentials are the free-text fields of the settings form.
type Credentials struct {
	StaSSID string `json:"sta_ssid"`
	StaPass string `json:"sta_pass"`
	APSSID  string `json:"ap_ssid"`
	APPass  string `json:"ap_pass"`
}

func (r Record) Credentials() Credentials {
	return Credentials{
		StaSSID: r.StaSSID,
		StaPass: r.StaPass,
		APSSID:  r.APSSID,
		APPass:  r.APPass,
	}
}

// Validate checks the credentials against device limits.
// It does not check the mask; that needs the channel count.
func (c Credentials) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"sta_ssid", c.StaSSID, SSIDMaxLen},
		{"sta_pass", c.StaPass, PasswordMaxLen},
		{"ap_ssid", c.APSSID, SSIDMaxLen},
		{"ap_pass", c.APPass, PasswordMaxLen},
	}

	for _, f := range fields {
		if len(f.value) > f.max {
			return fmt.Errorf("%w: %s longer than %d bytes", ErrInvalidRecord, f.name, f.max)
		}
	}
	return nil
}
