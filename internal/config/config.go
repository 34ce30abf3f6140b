// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and CO2_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the OWID CO2 CSV file.
	DatasetPath string `koanf:"dataset_path"`

	// TemperaturePath points at the optional monthly temperature CSV file.
	TemperaturePath string `koanf:"temperature_path"`

	// ReloadInterval re-reads the dataset files periodically; zero disables it.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// ForecastHorizon is the default number of predicted years.
	ForecastHorizon int `koanf:"forecast_horizon"`

	// MaxForecastHorizon caps the horizon a request may ask for.
	MaxForecastHorizon int `koanf:"max_forecast_horizon"`

	// ForecastWindow truncates series fed to forecasts to the most recent points.
	ForecastWindow int `koanf:"forecast_window"`

	// ComparisonWindow truncates series used by the climate comparison view.
	ComparisonWindow int `koanf:"comparison_window"`

	// RankingLimit is the default top-K size; MaxRankingLimit caps ?limit.
	RankingLimit    int `koanf:"ranking_limit"`
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// BatchWorkers sets the forecast batch pool size.
	BatchWorkers int `koanf:"batch_workers"`

	// BatchMaxItems caps the number of requests in one batch.
	BatchMaxItems int `koanf:"batch_max_items"`

	// CompareFromYear is the default first year of comparison tables.
	CompareFromYear int `koanf:"compare_from_year"`

	// MaxCompareEntities caps the number of entities in one comparison.
	MaxCompareEntities int `koanf:"max_compare_entities"`
}

// New creates a Config populated with defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DatasetPath:        "data/owid-co2-data.csv",
		TemperaturePath:    "",
		ReloadInterval:     0,
		ForecastHorizon:    5,
		MaxForecastHorizon: 50,
		ForecastWindow:     20,
		ComparisonWindow:   60,
		RankingLimit:       20,
		MaxRankingLimit:    200,
		BatchWorkers:       runtime.NumCPU(),
		BatchMaxItems:      100,
		CompareFromYear:    1950,
		MaxCompareEntities: 5,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReloadInterval < 0:
		return fmt.Errorf("%w: reload_interval must not be negative", ErrInvalidConfig)
	case c.ForecastHorizon < 1:
		return fmt.Errorf("%w: forecast_horizon must be positive, got %d", ErrInvalidConfig, c.ForecastHorizon)
	case c.MaxForecastHorizon < c.ForecastHorizon:
		return fmt.Errorf("%w: max_forecast_horizon must be at least forecast_horizon, got %d", ErrInvalidConfig, c.MaxForecastHorizon)
	case c.ForecastWindow < 0 || c.ComparisonWindow < 0:
		return fmt.Errorf("%w: windows must not be negative", ErrInvalidConfig)
	case c.RankingLimit < 1 || c.MaxRankingLimit < c.RankingLimit:
		return fmt.Errorf("%w: ranking_limit must be in [1, max_ranking_limit]", ErrInvalidConfig)
	case c.BatchWorkers < 1:
		return fmt.Errorf("%w: batch_workers must be positive, got %d", ErrInvalidConfig, c.BatchWorkers)
	case c.BatchMaxItems < 1:
		return fmt.Errorf("%w: batch_max_items must be positive, got %d", ErrInvalidConfig, c.BatchMaxItems)
	case c.MaxCompareEntities < 1:
		return fmt.Errorf("%w: max_compare_entities must be positive, got %d", ErrInvalidConfig, c.MaxCompareEntities)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
