// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/device"
	"github.com/tamzrod/ntc-dashboard/internal/mask"
	"github.com/tamzrod/ntc-dashboard/internal/metrics"
	"github.com/tamzrod/ntc-dashboard/internal/status"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

const maxBodyBytes = 64 << 10

// ---- config ----

// handleConfigJSON serves the form record the way the device does.
func (s *Server) handleConfigJSON(w http.ResponseWriter, _ *http.Request) {
	rec, err := s.opts.Controller.Record()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	v, err := s.opts.Controller.View()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleToggleChannel(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, "invalid channel index", http.StatusBadRequest)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Enabled == nil {
		writeError(w, "enabled is required", http.StatusBadRequest)
		return
	}

	if err := s.opts.Controller.OnChannelToggle(index, *req.Enabled); err != nil {
		writeErr(w, err)
		return
	}
	s.opts.Metrics.MaskChanged()

	s.handleGetConfig(w, r)
}

// handleReload re-runs the config source load.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.opts.Source == nil {
		writeError(w, "no config source configured", http.StatusNotImplemented)
		return
	}

	err := device.Load(r.Context(), s.opts.Source, s.opts.Controller)
	s.opts.Metrics.ConfigLoad(LoadResult(err))
	if err != nil {
		s.logger.Warn().Err(err).Msg("config reload failed")
		writeErr(w, err)
		return
	}

	s.handleGetConfig(w, r)
}

// LoadResult classifies a device.Load outcome for metrics.
func LoadResult(err error) string {
	switch {
	case err == nil:
		return metrics.LoadOK
	case errors.Is(err, device.ErrConfigLoad):
		return metrics.LoadFailed
	default:
		return metrics.LoadRejected
	}
}

// settingsFields must all be present on a settings submit.
var settingsFields = []string{"sta_ssid", "sta_pass", "ap_ssid", "ap_pass"}

// handleSettings accepts the settings form, pushes it to the device and
// commits it only once the device has taken it.
// sensor_mask is optional; without it the current mask is kept.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, fmt.Sprintf("invalid form: %v", err), http.StatusBadRequest)
		return
	}

	for _, f := range settingsFields {
		if !r.PostForm.Has(f) {
			writeError(w, fmt.Sprintf("missing field %q", f), http.StatusBadRequest)
			return
		}
	}

	current, err := s.opts.Controller.Record()
	if err != nil {
		writeErr(w, err)
		return
	}

	rec := configsync.Record{
		StaSSID:    r.PostForm.Get("sta_ssid"),
		StaPass:    r.PostForm.Get("sta_pass"),
		APSSID:     r.PostForm.Get("ap_ssid"),
		APPass:     r.PostForm.Get("ap_pass"),
		SensorMask: current.SensorMask,
	}
	if raw := r.PostForm.Get("sensor_mask"); raw != "" {
		m, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, fmt.Sprintf("invalid sensor_mask %q", raw), http.StatusBadRequest)
			return
		}
		rec.SensorMask = m
	}

	// Candidate is checked in full before the device sees it.
	if err := rec.Credentials().Validate(); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := mask.FromInt(rec.SensorMask, s.opts.Registry.Count()); err != nil {
		writeErr(w, err)
		return
	}

	err = s.opts.Writer.WriteConfig(r.Context(), rec)
	s.opts.Metrics.ConfigWrite(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("settings push failed, form unchanged")
		writeError(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := s.opts.Controller.LoadConfig(rec); err != nil {
		writeErr(w, err)
		return
	}
	if rec.SensorMask != current.SensorMask {
		s.opts.Metrics.MaskChanged()
	}

	s.logger.Info().
		Str("sta_ssid", rec.StaSSID).
		Int64("sensor_mask", rec.SensorMask).
		Msg("settings saved")

	s.handleGetConfig(w, r)
}

// ---- channels & telemetry ----

func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Registry.Channels())
}

// TelemetryResponse is a buffer snapshot with its x-axis labels.
type TelemetryResponse struct {
	telemetry.Snapshot
	Labels []string `json:"labels"`
}

func (s *Server) handleGetTelemetry(w http.ResponseWriter, _ *http.Request) {
	snap := s.opts.Buffer.Snapshot()
	writeJSON(w, http.StatusOK, TelemetryResponse{Snapshot: snap, Labels: snap.Labels()})
}

// handleAppendTick accepts one externally produced tick.
func (s *Server) handleAppendTick(w http.ResponseWriter, r *http.Request) {
	var tick telemetry.Tick
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&tick); err != nil {
		writeError(w, fmt.Sprintf("invalid tick: %v", err), http.StatusBadRequest)
		return
	}

	n, err := s.opts.Buffer.AppendTick(tick)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.opts.Metrics.SetBufferLength(n)
	s.PublishTick(tick, n)

	writeJSON(w, http.StatusAccepted, map[string]int{"length": n})
}

// PublishTick pushes a committed tick to stream subscribers.
func (s *Server) PublishTick(tick telemetry.Tick, length int) {
	s.hub.Publish(StreamMessage{
		Type:      MessageTick,
		Data:      NewTickData(tick, length),
		Timestamp: time.Now(),
	})
}

// ---- status ----

// PublishStatus pushes a health change to stream subscribers.
func (s *Server) PublishStatus(v status.View) {
	s.hub.Publish(StreamMessage{Type: MessageStatus, Data: v, Timestamp: time.Now()})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Tracker.View())
}
