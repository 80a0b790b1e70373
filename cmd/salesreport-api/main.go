package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"

	"sales-analytics/internal/api"
	"sales-analytics/internal/api/handler"
	"sales-analytics/internal/chart"
	"sales-analytics/internal/config"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/pipeline"
	"sales-analytics/internal/report"
	"sales-analytics/pkg/logger"
	"sales-analytics/pkg/router"
	"sales-analytics/pkg/utils"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "salesreport-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "salesreport-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outputs := utils.NewOutputManager(cfg.Pipeline.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		logg.Error(ctx, "failed to create output dir", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	runner := &pipeline.Runner{
		Log:        logg,
		Metrics:    metrics.NewRunMetrics(reg),
		Reporter:   report.NewTextReporter(language.English),
		Visualizer: chart.NewRenderer(cfg.Pipeline.HistogramBins),
	}
	runs := handler.NewRunHandler(runner, outputs, cfg.API.InputDir, logg, cfg.Pipeline.ReportFile, cfg.Pipeline.ChartsEnabled)

	r := router.New(logg)
	api.RegisterRoutes(r, runs, reg)

	if err := r.Start(ctx, cfg.API.Addr); err != nil {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}
