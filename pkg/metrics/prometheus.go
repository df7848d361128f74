package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	postsClassified *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	daysEmitted     prometheus.Gauge
	lastRunUnix     prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		postsClassified: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_posts_classified_total",
				Help: "Total posts classified, by label",
			},
			[]string{"label"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpulse_errors_total",
				Help: "Total errors encountered, by kind",
			},
			[]string{"kind"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendpulse_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		daysEmitted: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trendpulse_days_emitted",
				Help: "Daily signal rows emitted by the last run",
			},
		),
		lastRunUnix: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trendpulse_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run",
			},
		),
	}
}

// RecordPost counts one classified post for its label.
func (r *Recorder) RecordPost(label string) {
	r.postsClassified.WithLabelValues(label).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}

// RecordRun marks a completed run and its emitted day count.
func (r *Recorder) RecordRun(daysEmitted int) {
	r.daysEmitted.Set(float64(daysEmitted))
	r.lastRunUnix.Set(float64(time.Now().Unix()))
}
