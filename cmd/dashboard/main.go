// cmd/dashboard/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/tamzrod/ntc-dashboard/internal/channel"
	"github.com/tamzrod/ntc-dashboard/internal/config"
	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/device"
	"github.com/tamzrod/ntc-dashboard/internal/logger"
	"github.com/tamzrod/ntc-dashboard/internal/metrics"
	"github.com/tamzrod/ntc-dashboard/internal/poller"
	"github.com/tamzrod/ntc-dashboard/internal/server"
	"github.com/tamzrod/ntc-dashboard/internal/status"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
	"github.com/tamzrod/ntc-dashboard/internal/writer"
)

const defaultConfigPath = "./dashboard.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("dashboard %s: %v", cmd, err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: dashboard <command> [flags]

commands:
  run       -config <file>   serve the dashboard
  validate  -config <file>   check a configuration file`)
}

// loadConfig runs Load, Validate and Normalize in that order.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := loadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "Path to dashboard configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	d := cfg.Dashboard

	lg, err := logger.New(d.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Core state
	// --------------------

	reg, err := channel.NewRegistry(d.Channels)
	if err != nil {
		return err
	}

	buf, err := telemetry.NewBuffer(reg, telemetry.ReferenceSeed(reg, *d.Telemetry.SeedSamples))
	if err != nil {
		return err
	}

	ctrl := configsync.NewController(reg, lg)
	tracker := status.NewTracker()

	// --------------------
	// Metrics
	// --------------------

	var (
		rec      *metrics.Recorder
		gatherer prometheus.Gatherer
	)
	if d.Metrics.Enabled {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec = metrics.New(promReg)
		gatherer = promReg
	}
	rec.SetBufferLength(buf.Len())

	// --------------------
	// Device config source + writers
	// --------------------

	src, err := buildSource(d.Device)
	if err != nil {
		return fmt.Errorf("config source: %w", err)
	}

	w, statusWriter, closeWriters, err := writer.Build(d.Device, d.Channels)
	if err != nil {
		return fmt.Errorf("writer build failed: %w", err)
	}
	defer closeWriters()

	// --------------------
	// HTTP
	// --------------------

	srv, err := server.New(server.Options{
		Registry:    reg,
		Buffer:      buf,
		Controller:  ctrl,
		Source:      src,
		Writer:      w,
		Tracker:     tracker,
		Metrics:     rec,
		Gatherer:    gatherer,
		MetricsPath: d.Metrics.Path,
		Logger:      lg,
	})
	if err != nil {
		return err
	}

	// Initial config load. The form stays Loading until it succeeds.
	go func() {
		err := device.Load(ctx, src, ctrl)
		rec.ConfigLoad(server.LoadResult(err))
		if err != nil {
			lg.Error().Err(err).Msg("initial config load failed")
		}
	}()

	// --------------------
	// Telemetry pipeline
	// --------------------

	p, closePoller, err := poller.Build(d.Telemetry, reg, buf)
	if err != nil {
		return fmt.Errorf("poller build failed: %w", err)
	}
	defer closePoller()

	out := make(chan poller.PollResult)

	pl := &pipeline{
		log:          logger.WithComponent(lg, "pipeline"),
		tracker:      tracker,
		metrics:      rec,
		publisher:    srv,
		statusWriter: statusWriter,
	}

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	go pl.run(ctx, out, secTicker.C)
	go p.Run(ctx, out)

	lg.Info().
		Int("channels", reg.Count()).
		Str("source", d.Telemetry.Source.Kind).
		Str("device", d.Device.URL).
		Msg("dashboard starting")

	if err := srv.Start(ctx, d.Listen); err != nil {
		return err
	}
	lg.Info().Msg("dashboard stopped")
	return nil
}

// buildSource picks the device config source.
// No URL => fixture only; fallback_to_fixture => HTTP then fixture.
func buildSource(dev config.DeviceConfig) (device.Source, error) {
	var fixture device.Source = device.NewFixtureSource(device.TestFixture)
	if dev.Fixture != "" {
		fs, err := device.LoadFixtureFile(dev.Fixture)
		if err != nil {
			return nil, err
		}
		fixture = fs
	}

	if dev.URL == "" {
		return fixture, nil
	}

	httpSrc, err := device.NewHTTPSource(device.HTTPConfig{
		BaseURL: dev.URL,
		Timeout: time.Duration(dev.FetchTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	if dev.FallbackToFixture {
		return device.Fallback{Primary: httpSrc, Secondary: fixture}, nil
	}
	return httpSrc, nil
}

// ---- pipeline ----

type publisher interface {
	PublishTick(tick telemetry.Tick, length int)
	PublishStatus(v status.View)
}

// pipeline is the runner-owned consumer of poll results.
// It owns source health and the 1 Hz seconds-in-error clock.
type pipeline struct {
	log          zerolog.Logger
	tracker      *status.Tracker
	metrics      *metrics.Recorder
	publisher    publisher
	statusWriter writer.StatusWriter // nil => no register mirror
}

func (p *pipeline) run(ctx context.Context, in <-chan poller.PollResult, seconds <-chan time.Time) {
	// Full block write on start if mirrored.
	p.writeStatus(p.tracker.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			p.metrics.ObservePoll(res.Latency, res.Length, res.Err)

			if res.Err == nil {
				p.publisher.PublishTick(res.Tick, res.Length)
			} else if !errors.Is(res.Err, context.Canceled) {
				p.log.Warn().
					Err(res.Err).
					Str("source", res.Source).
					Dur("latency", res.Latency).
					Msg("poll failed, nothing appended")
			}

			snap, changed := p.tracker.Observe(res.Err)
			if changed {
				p.statusChanged(snap)
			}

		case <-seconds:
			// Tick 1 Hz while not OK.
			if snap, changed := p.tracker.Tick(); changed {
				p.statusChanged(snap)
			}
		}
	}
}

func (p *pipeline) statusChanged(snap status.Snapshot) {
	p.metrics.SetSourceHealth(snap.Health)
	p.publisher.PublishStatus(p.tracker.View())
	p.writeStatus(snap)
}

func (p *pipeline) writeStatus(snap status.Snapshot) {
	if p.statusWriter == nil {
		return
	}
	if err := p.statusWriter.WriteStatus(snap); err != nil {
		p.log.Error().Err(err).Msg("status write failed")
	}
}
