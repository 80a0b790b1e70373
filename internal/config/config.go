package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "SALES"

const (
	EnvInputPath     = "SALES_INPUT_PATH"
	EnvSnapshotPath  = "SALES_SNAPSHOT_PATH"
	EnvOutputDir     = "SALES_OUTPUT_DIR"
	EnvFiguresDir    = "SALES_FIGURES_DIR"
	EnvReportFile    = "SALES_REPORT_FILE"
	EnvChartsEnabled = "SALES_CHARTS_ENABLED"
	EnvHistogramBins = "SALES_HISTOGRAM_BINS"
	EnvLogLevel      = "SALES_LOG_LEVEL"
	EnvLogFormat     = "SALES_LOG_FORMAT"
	EnvAPIAddr       = "SALES_API_ADDR"
	EnvAPIInputDir   = "SALES_API_INPUT_DIR"
)

type Config struct {
	App      AppConfig
	Pipeline PipelineConfig
	API      APIConfig
}

type AppConfig struct {
	LogLevel  string `envconfig:"SALES_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"SALES_LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

type PipelineConfig struct {
	InputPath     string `envconfig:"SALES_INPUT_PATH" default:"data/sales_data.csv" validate:"required"`
	SnapshotPath  string `envconfig:"SALES_SNAPSHOT_PATH" default:"data/sales_clean.csv" validate:"required"`
	OutputDir     string `envconfig:"SALES_OUTPUT_DIR" default:"output" validate:"required"`
	FiguresDir    string `envconfig:"SALES_FIGURES_DIR" default:"output/figures"`
	ReportFile    string `envconfig:"SALES_REPORT_FILE" default:"report.txt" validate:"required"`
	ChartsEnabled bool   `envconfig:"SALES_CHARTS_ENABLED" default:"true"`
	HistogramBins int    `envconfig:"SALES_HISTOGRAM_BINS" default:"20" validate:"gte=1,lte=500"`
}

// ReportPath is where the batch CLI writes its text report.
func (p PipelineConfig) ReportPath() string {
	return filepath.Join(p.OutputDir, filepath.Base(p.ReportFile))
}

type APIConfig struct {
	Addr string `envconfig:"SALES_API_ADDR" default:":8080" validate:"required"`
	// InputDir is the only directory API run sources are read from.
	InputDir string `envconfig:"SALES_API_INPUT_DIR" default:"data" validate:"required"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
