// Package metrics provides Prometheus metrics for the co2atlas service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Forecast engine
	forecasts       *prometheus.CounterVec
	forecastErrors  *prometheus.CounterVec
	forecastLatency *prometheus.HistogramVec
	seriesPoints    prometheus.Histogram

	// Dataset store
	datasetRows         prometheus.Gauge
	datasetEntities     prometheus.Gauge
	datasetSkipped      prometheus.Gauge
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetLastLoadUnix prometheus.Gauge

	// Batch pool
	batchJobs        *prometheus.CounterVec
	batchWorkerCount prometheus.Gauge
	batchLatency     prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // service registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "co2atlas",
		subsystem:        "",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.forecasts = auto.NewCounterVec(m.counterOpts("forecasts_total", "Forecasts computed, by method"), []string{"method"})
	m.forecastErrors = auto.NewCounterVec(m.counterOpts("forecast_errors_total", "Forecasts that could not be produced, by method and error kind"), []string{"method", "kind"})
	m.forecastLatency = auto.NewHistogramVec(m.histogramOpts("forecast_latency_milliseconds", "Forecast computation latency in milliseconds", m.histogramBuckets), []string{"method"})
	m.seriesPoints = auto.NewHistogram(m.histogramOpts("series_points", "Number of historical points fed to the forecast engine", []float64{1, 2, 3, 5, 10, 20, 40, 60, 120, 300}))

	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows", "Observation rows in the current dataset snapshot"))
	m.datasetEntities = auto.NewGauge(m.gaugeOpts("dataset_entities", "Distinct entities in the current dataset snapshot"))
	m.datasetSkipped = auto.NewGauge(m.gaugeOpts("dataset_skipped_rows", "Rows rejected by validation during the last load"))
	m.datasetLoads = auto.NewCounterVec(m.counterOpts("dataset_loads_total", "Dataset loads by outcome"), []string{"outcome"})
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts("dataset_load_duration_milliseconds", "Dataset load duration in milliseconds", []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000}))
	m.datasetLastLoadUnix = auto.NewGauge(m.gaugeOpts("dataset_last_load_unix", "Unix timestamp of the last successful dataset load"))

	m.batchJobs = auto.NewCounterVec(m.counterOpts("batch_jobs_total", "Batch forecast jobs by outcome"), []string{"outcome"})
	m.batchWorkerCount = auto.NewGauge(m.gaugeOpts("batch_worker_count", "Configured batch forecast workers"))
	m.batchLatency = auto.NewHistogram(m.histogramOpts("batch_latency_milliseconds", "Batch forecast request latency in milliseconds", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// RecordForecast records a successful forecast and its latency.
func RecordForecast(method string, latencyMs float64, points int) {
	globalManager.forecasts.WithLabelValues(method).Inc()
	globalManager.forecastLatency.WithLabelValues(method).Observe(latencyMs)
	globalManager.seriesPoints.Observe(float64(points))
}

// RecordForecastError records a forecast that failed with the given error kind.
func RecordForecastError(method, kind string) {
	globalManager.forecastErrors.WithLabelValues(method, kind).Inc()
}

// UpdateDataset publishes the shape of a freshly loaded snapshot.
func UpdateDataset(rows, entities, skipped int, loadedAtUnix float64) {
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetEntities.Set(float64(entities))
	globalManager.datasetSkipped.Set(float64(skipped))
	globalManager.datasetLastLoadUnix.Set(loadedAtUnix)
}

// RecordDatasetLoad records a dataset load outcome ("ok" or "error") and duration.
func RecordDatasetLoad(outcome string, durationMs float64) {
	globalManager.datasetLoads.WithLabelValues(outcome).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// RecordBatchJob increments the batch job counter for outcome ("ok", "error", "cancelled").
func RecordBatchJob(outcome string) {
	globalManager.batchJobs.WithLabelValues(outcome).Inc()
}

// RecordBatchLatency records how long a whole batch took.
func RecordBatchLatency(latencyMs float64) {
	globalManager.batchLatency.Observe(latencyMs)
}

// UpdateBatchWorkerCount sets the configured batch worker count.
func UpdateBatchWorkerCount(count int) {
	globalManager.batchWorkerCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
