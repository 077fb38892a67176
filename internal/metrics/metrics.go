// Package metrics exposes sync run statistics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shorts_analytics"

// Metrics holds the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	syncRuns      *prometheus.CounterVec
	syncDuration  prometheus.Histogram
	videos        *prometheus.CounterVec
	archives      *prometheus.CounterVec
	quotaUnits    *prometheus.CounterVec
	lastSyncEpoch prometheus.Gauge
}

// New creates a registry with the Go and process collectors plus the
// sync collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Sync runs by final status.",
		}, []string{"status"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_run_duration_seconds",
			Help:      "Wall-clock duration of sync runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		videos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_videos_total",
			Help:      "Videos handled by sync runs by outcome.",
		}, []string{"outcome"}),
		archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_snapshots_total",
			Help:      "Stats history writes by outcome.",
		}, []string{"outcome"}),
		quotaUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "youtube_quota_units_total",
			Help:      "Approximate YouTube Data API quota units spent, by method.",
		}, []string{"method"}),
		lastSyncEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_sync_timestamp_seconds",
			Help:      "Unix time of the last successful sync run.",
		}),
	}

	reg.MustRegister(m.syncRuns, m.syncDuration, m.videos, m.archives, m.quotaUnits, m.lastSyncEpoch)
	return m
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.syncRuns.WithLabelValues(status).Inc()
	m.syncDuration.Observe(duration.Seconds())
	if status == "success" {
		m.lastSyncEpoch.SetToCurrentTime()
	}
}

func (m *Metrics) RecordVideo(outcome string) {
	m.videos.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordArchive(outcome string) {
	m.archives.WithLabelValues(outcome).Inc()
}

// RecordQuota matches the YouTube client's quota observer signature.
func (m *Metrics) RecordQuota(method string, units int) {
	m.quotaUnits.WithLabelValues(method).Add(float64(units))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
