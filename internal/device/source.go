// internal/device/source.go
package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
)

// ErrConfigLoad wraps every failure of a config source.
var ErrConfigLoad = errors.New("device: config load failure")

// Source yields the device configuration record.
type Source interface {
	Fetch(ctx context.Context) (configsync.Record, error)
}

// ---- HTTP ----

// HTTPSource fetches <base>/config.json from the device.
type HTTPSource struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("device: base url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &HTTPSource{
		url:     strings.TrimRight(cfg.BaseURL, "/") + "/config.json",
		timeout: cfg.Timeout,
		client:  cfg.Client,
	}, nil
}

// Fetch is bounded by the source timeout even when ctx has no deadline.
func (s *HTTPSource) Fetch(ctx context.Context) (configsync.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return configsync.Record{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return configsync.Record{}, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	// The device labels the body text/plain; only the status is checked.
	if resp.StatusCode != http.StatusOK {
		return configsync.Record{}, fmt.Errorf("get %s: unexpected status %s", s.url, resp.Status)
	}

	var rec configsync.Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&rec); err != nil {
		return configsync.Record{}, fmt.Errorf("decode %s: %w", s.url, err)
	}
	return rec, nil
}

// ---- FIXTURE ----

// TestFixture is the record served when no device is reachable.
var TestFixture = configsync.Record{
	StaSSID:    "TestSSID",
	StaPass:    "TestPassword",
	APSSID:     "TestAPSSID",
	APPass:     "TestAPPassword",
	SensorMask: 0b00101010,
}

// FixtureSource always returns the same record.
type FixtureSource struct {
	rec configsync.Record
}

func NewFixtureSource(rec configsync.Record) *FixtureSource {
	return &FixtureSource{rec: rec}
}

// LoadFixtureFile reads a record from YAML (or JSON, a YAML subset).
func LoadFixtureFile(path string) (*FixtureSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec configsync.Record
	if err := yaml.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("device: fixture %s: %w", path, err)
	}
	return NewFixtureSource(rec), nil
}

func (s *FixtureSource) Fetch(ctx context.Context) (configsync.Record, error) {
	if err := ctx.Err(); err != nil {
		return configsync.Record{}, err
	}
	return s.rec, nil
}

// ---- FALLBACK ----

// Fallback tries primary, then secondary. Both feed the same Load path.
type Fallback struct {
	Primary   Source
	Secondary Source
}

func (f Fallback) Fetch(ctx context.Context) (configsync.Record, error) {
	rec, err := f.Primary.Fetch(ctx)
	if err == nil {
		return rec, nil
	}

	rec, ferr := f.Secondary.Fetch(ctx)
	if ferr != nil {
		return configsync.Record{}, errors.Join(err, ferr)
	}
	return rec, nil
}
