package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sales-analytics/internal/model"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RunMetrics records what pipeline runs did.
// A nil *RunMetrics is valid and records nothing.
type RunMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	snapshot prometheus.Counter
}

// NewRunMetrics registers the pipeline metrics on the provided registerer.
func NewRunMetrics(reg prometheus.Registerer) *RunMetrics {
	if reg == nil {
		return &RunMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_rows_total",
		Help: "Rows seen by the cleaner, by kind.",
	}, []string{"kind"})
	snapshot := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_snapshot_failures_total",
		Help: "Cleaned snapshot writes that failed.",
	})
	reg.MustRegister(runs, duration, rows, snapshot)
	return &RunMetrics{
		runs:     runs,
		duration: duration,
		rows:     rows,
		snapshot: snapshot,
	}
}

// ObserveStage records how long a stage took.
func (m *RunMetrics) ObserveStage(stage string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(stage)).Observe(d.Seconds())
}

// IncRun counts a finished run.
func (m *RunMetrics) IncRun(outcome string) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddCleanStats adds the row counters of one cleaning pass.
func (m *RunMetrics) AddCleanStats(s model.CleanStats) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues("raw").Add(float64(s.RawRows))
	m.rows.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	m.rows.WithLabelValues("bad_date").Add(float64(s.BadDates))
	m.rows.WithLabelValues("bad_amount").Add(float64(s.BadAmounts))
	m.rows.WithLabelValues("dropped").Add(float64(s.Dropped))
	m.rows.WithLabelValues("kept").Add(float64(s.Kept))
}

// IncSnapshotFailure counts a failed snapshot write.
func (m *RunMetrics) IncSnapshotFailure() {
	if m == nil || m.snapshot == nil {
		return
	}
	m.snapshot.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
