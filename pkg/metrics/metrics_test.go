package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("forecast"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.forecasts.WithLabelValues("linear").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_forecast_forecasts_total"], ShouldBeTrue)
				So(names["test_forecast_dataset_rows"], ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "co2atlas")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording forecasts", func() {
			before := testutil.ToFloat64(globalManager.forecasts.WithLabelValues("ema"))
			RecordForecast("ema", 0.3, 20)
			RecordForecast("ema", 0.2, 20)

			Convey("Then the counter grows by method", func() {
				So(testutil.ToFloat64(globalManager.forecasts.WithLabelValues("ema")), ShouldEqual, before+2)
			})
		})

		Convey("When recording forecast errors", func() {
			before := testutil.ToFloat64(globalManager.forecastErrors.WithLabelValues("exponential", "non_positive"))
			RecordForecastError("exponential", "non_positive")

			Convey("Then the error counter grows by method and kind", func() {
				So(testutil.ToFloat64(globalManager.forecastErrors.WithLabelValues("exponential", "non_positive")), ShouldEqual, before+1)
			})
		})

		Convey("When updating the dataset shape", func() {
			UpdateDataset(1200, 60, 3, 1700000000)

			Convey("Then the gauges reflect the snapshot", func() {
				So(testutil.ToFloat64(globalManager.datasetRows), ShouldEqual, 1200)
				So(testutil.ToFloat64(globalManager.datasetEntities), ShouldEqual, 60)
				So(testutil.ToFloat64(globalManager.datasetSkipped), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.datasetLastLoadUnix), ShouldEqual, 1700000000)
			})
		})

		Convey("When recording operational metrics", func() {
			So(func() {
				RecordDatasetLoad("ok", 120)
				RecordDatasetLoad("error", 5)
				RecordBatchJob("ok")
				RecordBatchJob("cancelled")
				RecordBatchLatency(3.5)
				UpdateBatchWorkerCount(4)
				RecordHTTPRequest("/forecast", "GET", "200")
				RecordHTTPRequestDuration("/forecast", "GET", "200", 1.5)
				RecordErrorByEndpoint("/forecast", "GET", "no_data")
				RecordErrorByComponent("dataset", "parse")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			Convey("Then the worker gauge holds the last value", func() {
				So(testutil.ToFloat64(globalManager.batchWorkerCount), ShouldEqual, 4)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordHTTPRequest("/ranking", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then no default Go collectors are present", func() {
				So(err, ShouldBeNil)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "co2atlas_")
				}
			})
		})
	})
}
