// internal/server/server.go

// Package server exposes the dashboard over HTTP and a websocket stream.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/device"
	"github.com/tamzrod/ntc-dashboard/internal/metrics"
	"github.com/tamzrod/ntc-dashboard/internal/status"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
	"github.com/tamzrod/ntc-dashboard/internal/writer"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	shutdownTimeout          = 5 * time.Second
)

// Options carries the components the server fronts.
// Source, Writer, Tracker, Metrics and Gatherer are optional.
type Options struct {
	Registry   *channel.Registry
	Buffer     *telemetry.Buffer
	Controller *configsync.Controller
	Source     device.Source
	Writer     writer.Writer
	Tracker    *status.Tracker
	Metrics    *metrics.Recorder

	// Gatherer backs MetricsPath; nil disables the endpoint.
	Gatherer    prometheus.Gatherer
	MetricsPath string

	// AllowedOrigin is sent as Access-Control-Allow-Origin; empty => "*".
	AllowedOrigin string

	Logger zerolog.Logger
}

// Server owns the router and the stream hub.
type Server struct {
	opts    Options
	router  *mux.Router
	handler http.Handler
	hub     *Hub
	logger  zerolog.Logger
}

func New(opts Options) (*Server, error) {
	if opts.Registry == nil || opts.Buffer == nil || opts.Controller == nil {
		return nil, errors.New("server: registry, buffer and controller required")
	}
	if opts.Writer == nil {
		opts.Writer = writer.New()
	}
	if opts.Tracker == nil {
		opts.Tracker = status.NewTracker()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}

	s := &Server{
		opts:   opts,
		router: mux.NewRouter(),
		logger: opts.Logger.With().Str("component", "server").Logger(),
	}
	s.hub = NewHub(s.logger, opts.Metrics)

	// Every committed form change is pushed to stream subscribers.
	opts.Controller.Observe(func(v configsync.View) {
		s.hub.Publish(StreamMessage{Type: MessageConfig, Data: v, Timestamp: time.Now()})
	})

	s.setupRoutes()
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
