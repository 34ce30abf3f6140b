package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/co2atlas/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ForecastHorizon, convey.ShouldEqual, 5)
				convey.So(cfg.ForecastWindow, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CO2_ADDR", ":8080")
			_ = os.Setenv("CO2_FORECAST_HORIZON", "10")
			_ = os.Setenv("CO2_DATASET_PATH", "/data/co2.csv")
			_ = os.Setenv("CO2_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ForecastHorizon, convey.ShouldEqual, 10)
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/data/co2.csv")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
# service settings
addr: ":9090"
forecast_window: 30
comparison_window: 40
batch_workers: 3
`)
			_ = os.Setenv("CO2_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML and keep defaults for the rest", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ForecastWindow, convey.ShouldEqual, 30)
				convey.So(cfg.ComparisonWindow, convey.ShouldEqual, 40)
				convey.So(cfg.BatchWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.RankingLimit, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nranking_limit: 10\n")
			_ = os.Setenv("CO2_CONFIG", tmpFile)
			_ = os.Setenv("CO2_RANKING_LIMIT", "15")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RankingLimit, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When loading a reload interval from the environment", func() {
			_ = os.Setenv("CO2_RELOAD_INTERVAL", "15m")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the duration is parsed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ReloadInterval, convey.ShouldEqual, 15*time.Minute)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, "addr: [unclosed\n")
			_ = os.Setenv("CO2_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CO2_CONFIG", "/non/existent/co2.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CO2_FORECAST_HORIZON", "soon")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with a horizon cap", func() {
			_ = os.Setenv("CO2_MAX_FORECAST_HORIZON", "12")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the cap is read from the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaxForecastHorizon, convey.ShouldEqual, 12)
			})
		})

		convey.Convey("When loading config with a zero horizon", func() {
			_ = os.Setenv("CO2_FORECAST_HORIZON", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"CO2_CONFIG", "CO2_ADDR", "CO2_LOG_LEVEL", "CO2_LOG_FORMAT",
		"CO2_DATASET_PATH", "CO2_TEMPERATURE_PATH", "CO2_FORECAST_HORIZON", "CO2_MAX_FORECAST_HORIZON",
		"CO2_FORECAST_WINDOW", "CO2_COMPARISON_WINDOW", "CO2_RANKING_LIMIT",
		"CO2_MAX_RANKING_LIMIT", "CO2_BATCH_WORKERS", "CO2_BATCH_MAX_ITEMS",
		"CO2_COMPARE_FROM_YEAR", "CO2_MAX_COMPARE_ENTITIES", "CO2_RELOAD_INTERVAL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "co2-config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
