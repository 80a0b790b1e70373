package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"

	"sales-analytics/internal/chart"
	"sales-analytics/internal/config"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/pipeline"
	"sales-analytics/internal/report"
	"sales-analytics/pkg/logger"
	"sales-analytics/pkg/utils"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "salesreport"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "salesreport",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := utils.NewOutputManager(cfg.Pipeline.OutputDir).EnsureOutputDirExists(); err != nil {
		logg.Error(ctx, "failed to create output dir", err)
		os.Exit(1)
	}

	runner := &pipeline.Runner{
		Log:      logg,
		Metrics:  metrics.NewRunMetrics(prometheus.NewRegistry()),
		Reporter: report.NewTextReporter(language.English),
	}
	opts := pipeline.RunOptions{
		InputPath:    cfg.Pipeline.InputPath,
		SnapshotPath: cfg.Pipeline.SnapshotPath,
		ReportPath:   cfg.Pipeline.ReportPath(),
	}
	if cfg.Pipeline.ChartsEnabled {
		runner.Visualizer = chart.NewRenderer(cfg.Pipeline.HistogramBins)
		opts.FiguresDir = cfg.Pipeline.FiguresDir
	}

	result, err := runner.Run(ctx, uuid.NewString(), opts)
	if err != nil {
		os.Exit(1)
	}
	if result.SnapshotErr != nil {
		// the report is still valid; signal the partial failure to scripts
		os.Exit(2)
	}
}
