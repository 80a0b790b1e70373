package pipeline

import (
	"context"
	"errors"
	"fmt"

	"sales-analytics/internal/metrics"
	"sales-analytics/internal/model"
	"sales-analytics/pkg/logger"
)

// Reporter renders the text summary of a run.
type Reporter interface {
	WriteReport(path string, bundle model.MetricsBundle) error
}

// Visualizer renders chart images into dir and returns the written paths.
type Visualizer interface {
	RenderAll(dir string, bundle model.MetricsBundle, monthly []model.MonthlyPoint, amounts []float64) ([]string, error)
}

// RunOptions locates the inputs and outputs of one run.
type RunOptions struct {
	InputPath    string
	SnapshotPath string
	ReportPath   string
	// FiguresDir receives the charts. Empty skips the charts stage.
	FiguresDir string
}

// RunResult is everything one run produced.
type RunResult struct {
	RunID       string              `json:"run_id"`
	Stats       model.CleanStats    `json:"clean_stats"`
	Bundle      model.MetricsBundle `json:"metrics"`
	Artifacts   []string            `json:"artifacts"`
	SnapshotErr error               `json:"-"`
	Tracker     *RunTracker         `json:"tracking"`
}

// Runner sequences load, clean, compute, charts and report. It holds no
// per-run state, so one Runner may serve many runs as long as each run has
// its own RunOptions paths.
type Runner struct {
	Log        *logger.Logger
	Metrics    *metrics.RunMetrics
	Reporter   Reporter
	Visualizer Visualizer
}

// ------------------- Pipeline Runner -------------------
func (r *Runner) Run(ctx context.Context, runID string, opts RunOptions) (result *RunResult, err error) {
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	ctx = log.WithRunID(ctx, runID)
	tracker := NewRunTracker(runID, r.Metrics)
	result = &RunResult{RunID: runID, Tracker: tracker}

	defer func() {
		if err != nil {
			tracker.Fail()
			log.Error(ctx, "pipeline run failed", err)
			return
		}
		tracker.Complete()
		log.InfoFields(ctx, "pipeline run completed", map[string]any{
			"duration_ms": tracker.Duration().Milliseconds(),
			"artifacts":   len(result.Artifacts),
		})
	}()

	log.InfoFields(ctx, "starting pipeline run", map[string]any{"source": opts.InputPath})

	// --- LOAD STAGE ---
	tracker.StartStage(StageLoad)
	raw, err := Load(ctx, opts.InputPath)
	if err != nil {
		return result, fmt.Errorf("load: %w", err)
	}
	tracker.EndStage(raw.Len())

	// --- CLEAN STAGE ---
	tracker.StartStage(StageClean)
	records, stats, err := NewCleaner(opts.SnapshotPath).Clean(ctx, raw)
	result.Stats = stats
	r.Metrics.AddCleanStats(stats)
	if err != nil {
		if !errors.Is(err, ErrSnapshotWriteFailed) {
			return result, fmt.Errorf("clean: %w", err)
		}
		result.SnapshotErr = err
		r.Metrics.IncSnapshotFailure()
		log.Warn(log.WithStage(ctx, StageClean), "cleaned snapshot not written, continuing", err)
	} else if opts.SnapshotPath != "" {
		result.Artifacts = append(result.Artifacts, opts.SnapshotPath)
	}
	tracker.EndStage(len(records))
	log.InfoFields(log.WithStage(ctx, StageClean), "cleaning finished", map[string]any{
		"raw_rows":         stats.RawRows,
		"duplicates":       stats.Duplicates,
		"bad_dates":        stats.BadDates,
		"bad_amounts":      stats.BadAmounts,
		"defaulted_status": stats.DefaultedStatus,
		"kept":             stats.Kept,
	})
	if _, verr := model.CustomersFromRecords(records); verr != nil {
		log.Warn(log.WithStage(ctx, StageClean), "customer identities failed validation", verr)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// --- COMPUTE STAGE ---
	tracker.StartStage(StageCompute)
	bundle, err := Compute(records)
	result.Bundle = bundle
	if err != nil {
		return result, fmt.Errorf("compute: %w", err)
	}
	tracker.EndStage(bundle.RecordCount())

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// --- CHARTS STAGE ---
	if opts.FiguresDir != "" && r.Visualizer != nil {
		tracker.StartStage(StageCharts)
		paths, err := r.Visualizer.RenderAll(opts.FiguresDir, bundle, MonthlyRevenue(records), OrderAmounts(records))
		if err != nil {
			return result, fmt.Errorf("charts: %w", err)
		}
		result.Artifacts = append(result.Artifacts, paths...)
		tracker.EndStage(len(paths))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// --- REPORT STAGE ---
	if opts.ReportPath != "" && r.Reporter != nil {
		tracker.StartStage(StageReport)
		if err := r.Reporter.WriteReport(opts.ReportPath, bundle); err != nil {
			return result, fmt.Errorf("report: %w", err)
		}
		result.Artifacts = append(result.Artifacts, opts.ReportPath)
		tracker.EndStage(1)
	}

	return result, nil
}
