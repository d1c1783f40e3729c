// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config load results.
const (
	LoadOK       = "ok"
	LoadFailed   = "failed"
	LoadRejected = "rejected"
)

// Recorder holds the dashboard's Prometheus collectors.
// A nil *Recorder records nothing.
type Recorder struct {
	ticksAppended prometheus.Counter
	ticksRejected prometheus.Counter
	bufferLength  prometheus.Gauge
	maskChanges   prometheus.Counter
	configLoads   *prometheus.CounterVec
	configWrites  *prometheus.CounterVec
	pollLatency   prometheus.Histogram
	sourceHealth  prometheus.Gauge
	streamClients prometheus.Gauge
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ticksAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ntc_ticks_appended_total",
			Help: "Ticks committed to the telemetry buffer.",
		}),
		ticksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ntc_ticks_rejected_total",
			Help: "Polls that appended nothing (read failure or invalid tick shape).",
		}),
		bufferLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ntc_buffer_length",
			Help: "Samples per channel currently held.",
		}),
		maskChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ntc_mask_changes_total",
			Help: "Committed changes to the sensor enable mask.",
		}),
		configLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ntc_config_loads_total",
			Help: "Device configuration loads by result.",
		}, []string{"result"}),
		configWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ntc_config_writes_total",
			Help: "Settings submits pushed to the device by result.",
		}, []string{"result"}),
		pollLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ntc_poll_latency_seconds",
			Help:    "Time to read one tick from the telemetry source.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		sourceHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ntc_source_health",
			Help: "Telemetry source health code (0 unknown, 1 ok, 2 error, 3 stale, 4 disabled).",
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ntc_stream_clients",
			Help: "Connected telemetry stream subscribers.",
		}),
	}

	reg.MustRegister(
		r.ticksAppended,
		r.ticksRejected,
		r.bufferLength,
		r.maskChanges,
		r.configLoads,
		r.configWrites,
		r.pollLatency,
		r.sourceHealth,
		r.streamClients,
	)
	return r
}

// ObservePoll records one poll outcome.
func (r *Recorder) ObservePoll(latency time.Duration, length int, err error) {
	if r == nil {
		return
	}
	r.pollLatency.Observe(latency.Seconds())
	if err != nil {
		r.ticksRejected.Inc()
		return
	}
	r.ticksAppended.Inc()
	r.bufferLength.Set(float64(length))
}

func (r *Recorder) SetBufferLength(n int) {
	if r == nil {
		return
	}
	r.bufferLength.Set(float64(n))
}

func (r *Recorder) MaskChanged() {
	if r == nil {
		return
	}
	r.maskChanges.Inc()
}

// ConfigLoad counts one load by result (LoadOK, LoadFailed, LoadRejected).
func (r *Recorder) ConfigLoad(result string) {
	if r == nil {
		return
	}
	r.configLoads.WithLabelValues(result).Inc()
}

func (r *Recorder) ConfigWrite(err error) {
	if r == nil {
		return
	}
	result := LoadOK
	if err != nil {
		result = LoadFailed
	}
	r.configWrites.WithLabelValues(result).Inc()
}

func (r *Recorder) SetSourceHealth(code uint16) {
	if r == nil {
		return
	}
	r.sourceHealth.Set(float64(code))
}

func (r *Recorder) SetStreamClients(n int) {
	if r == nil {
		return
	}
	r.streamClients.Set(float64(n))
}
