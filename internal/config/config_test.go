package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/co2atlas/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ForecastHorizon, convey.ShouldEqual, 5)
			convey.So(cfg.MaxForecastHorizon, convey.ShouldEqual, 50)
			convey.So(cfg.ForecastWindow, convey.ShouldEqual, 20)
			convey.So(cfg.ComparisonWindow, convey.ShouldEqual, 60)
			convey.So(cfg.RankingLimit, convey.ShouldEqual, 20)
			convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 200)
			convey.So(cfg.BatchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.CompareFromYear, convey.ShouldEqual, 1950)
			convey.So(cfg.MaxCompareEntities, convey.ShouldEqual, 5)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid fields", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "  " }},
			{"zero horizon", func(c *config.Config) { c.ForecastHorizon = 0 }},
			{"max horizon below default", func(c *config.Config) { c.MaxForecastHorizon = 4 }},
			{"negative window", func(c *config.Config) { c.ForecastWindow = -1 }},
			{"limit above max", func(c *config.Config) { c.RankingLimit = 500 }},
			{"no batch workers", func(c *config.Config) { c.BatchWorkers = 0 }},
			{"no batch items", func(c *config.Config) { c.BatchMaxItems = 0 }},
			{"no compare entities", func(c *config.Config) { c.MaxCompareEntities = 0 }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
		}

		for _, tc := range cases {
			cfg := config.New(context.Background())
			tc.mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+tc.name+" is rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
