// internal/device/submit.go
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
)

// Submitter posts the settings form to the device.
// The device stores the record and restarts after answering.
type Submitter struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewSubmitter(cfg HTTPConfig) (*Submitter, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("device: base url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Submitter{
		url:     strings.TrimRight(cfg.BaseURL, "/") + "/settings",
		timeout: cfg.Timeout,
		client:  cfg.Client,
	}, nil
}

// EncodeForm renders rec the way the device's settings parser expects.
func EncodeForm(rec configsync.Record) url.Values {
	v := url.Values{}
	v.Set("sta_ssid", rec.StaSSID)
	v.Set("sta_pass", rec.StaPass)
	v.Set("ap_ssid", rec.APSSID)
	v.Set("ap_pass", rec.APPass)
	v.Set("sensor_mask", strconv.FormatInt(rec.SensorMask, 10))
	return v
}

func (s *Submitter) WriteConfig(ctx context.Context, rec configsync.Record) error {
	if err := rec.Credentials().Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body := EncodeForm(rec).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("device submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("device submit: status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
