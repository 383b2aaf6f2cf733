package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"renderhq/janus/pkg/report"
)

// Metrics tracks run-level Prometheus metrics for daemon mode.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	entriesExamined prometheus.Counter
	actionsTotal    *prometheus.CounterVec
	bytesSaved      prometheus.Counter
	bytesArchived   prometheus.Counter
	failuresTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics. If registry is nil a
// fresh one is used.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "runs_total",
				Help:      "Total number of cleanup runs by result",
			},
			[]string{"result", "dry_run"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "janus",
				Name:      "run_duration_seconds",
				Help:      "Duration of cleanup runs in seconds",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
			},
		),

		entriesExamined: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "entries_examined_total",
				Help:      "Total number of candidate entries examined",
			},
		),

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "actions_total",
				Help:      "Completed actions by kind",
			},
			[]string{"action"},
		),

		bytesSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "bytes_saved_total",
				Help:      "Bytes freed from primary storage",
			},
		),

		bytesArchived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "bytes_archived_total",
				Help:      "Bytes relocated to cold storage",
			},
		),

		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janus",
				Name:      "failures_total",
				Help:      "Failed entry actions by error kind",
			},
			[]string{"error_kind"},
		),
	}

	registry.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.entriesExamined,
		m.actionsTotal,
		m.bytesSaved,
		m.bytesArchived,
		m.failuresTotal,
	)
	return m
}

// Registry returns the Prometheus registry, for serving /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records a completed run's report.
func (m *Metrics) RecordRun(r *report.Report) {
	if m == nil {
		return
	}

	result := "success"
	if r.ErrorsCount > 0 {
		result = "partial_failure"
	}
	dryRun := "false"
	if r.DryRun {
		dryRun = "true"
	}

	m.runsTotal.WithLabelValues(result, dryRun).Inc()
	m.runDuration.Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	m.entriesExamined.Add(float64(r.EntriesExamined))

	// A simulated run frees and relocates nothing; only runs_total carries
	// the dry_run label.
	if r.DryRun {
		return
	}

	m.bytesSaved.Add(float64(r.BytesSaved))
	m.bytesArchived.Add(float64(r.BytesArchived))

	for _, o := range r.Outcomes {
		if o.Success {
			m.actionsTotal.WithLabelValues(o.Action).Inc()
		} else {
			m.failuresTotal.WithLabelValues(o.ErrorKind).Inc()
		}
	}
}

// RecordFatal records a run that aborted before producing a report.
func (m *Metrics) RecordFatal(startedAt time.Time, dryRun bool) {
	if m == nil {
		return
	}
	label := "false"
	if dryRun {
		label = "true"
	}
	m.runsTotal.WithLabelValues("fatal", label).Inc()
	m.runDuration.Observe(time.Since(startedAt).Seconds())
}
