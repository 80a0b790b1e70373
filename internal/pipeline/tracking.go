package pipeline

import (
	"time"

	"sales-analytics/internal/metrics"
)

// Stage names, in execution order.
const (
	StageLoad    = "load"
	StageClean   = "clean"
	StageCompute = "compute"
	StageCharts  = "charts"
	StageReport  = "report"
)

// StageMetrics represents timing for a single pipeline stage
type StageMetrics struct {
	Stage     string        `json:"stage"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Records   int           `json:"records"`
	Failed    bool          `json:"failed,omitempty"`
}

// RunTracker records stage timings for one run. It is owned by that run and
// is not safe for concurrent use.
type RunTracker struct {
	RunID     string         `json:"run_id"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Status    string         `json:"status"`
	Stages    []StageMetrics `json:"stages"`

	metrics *metrics.RunMetrics
	now     func() time.Time
}

// NewRunTracker creates a tracker for runID reporting into m (which may be nil).
func NewRunTracker(runID string, m *metrics.RunMetrics) *RunTracker {
	t := &RunTracker{
		RunID:   runID,
		Status:  "running",
		metrics: m,
		now:     time.Now,
	}
	t.StartTime = t.now()
	return t
}

// StartStage marks the start of a pipeline stage
func (t *RunTracker) StartStage(stage string) {
	t.Stages = append(t.Stages, StageMetrics{Stage: stage, StartTime: t.now()})
}

// EndStage closes the most recently started stage
func (t *RunTracker) EndStage(records int) {
	if len(t.Stages) == 0 {
		return
	}
	s := &t.Stages[len(t.Stages)-1]
	s.EndTime = t.now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.Records = records
	t.metrics.ObserveStage(s.Stage, s.Duration)
}

// Complete marks the run as successful
func (t *RunTracker) Complete() {
	t.finish("completed", metrics.OutcomeSuccess)
}

// Fail marks the run as failed. A stage still open is closed as failed.
func (t *RunTracker) Fail() {
	t.FailStage()
	t.finish("failed", metrics.OutcomeFailure)
}

// FailStage closes the most recently started stage if it is still open.
func (t *RunTracker) FailStage() {
	if len(t.Stages) == 0 || !t.Stages[len(t.Stages)-1].EndTime.IsZero() {
		return
	}
	t.EndStage(0)
	t.Stages[len(t.Stages)-1].Failed = true
}

func (t *RunTracker) finish(status, outcome string) {
	t.EndTime = t.now()
	t.Status = status
	t.metrics.IncRun(outcome)
}

// Duration is the wall time of the run so far, or in total once finished.
func (t *RunTracker) Duration() time.Duration {
	if t.EndTime.IsZero() {
		return t.now().Sub(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}
