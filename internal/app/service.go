// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/co2atlas/internal/adapters/dataset"
	"github.com/okian/co2atlas/internal/adapters/mq/queue"
	workerpool "github.com/okian/co2atlas/internal/adapters/mq/worker"
	"github.com/okian/co2atlas/pkg/logger"
)

// DefaultMetric is used when a request names no metric.
const DefaultMetric = "co2"

// Service implements the API dependencies for the CO2 atlas.
type Service struct {
	mu sync.RWMutex

	store      dataset.Store
	batchQueue *queue.InMemoryQueue
	pool       *workerpool.Pool

	// Configuration
	datasetPath        string
	temperaturePath    string
	reloadInterval     time.Duration
	horizon            int
	maxHorizon         int
	forecastWindow     int
	comparisonWindow   int
	rankingLimit       int
	maxRankingLimit    int
	batchWorkers       int
	batchMaxItems      int
	compareFromYear    int
	maxCompareEntities int

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a dataset store instead of building one from paths.
func WithStore(store dataset.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatasetPath sets the OWID CSV loaded on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) { s.datasetPath = path }
}

// WithTemperaturePath sets the monthly temperature CSV loaded with the dataset.
func WithTemperaturePath(path string) Option {
	return func(s *Service) { s.temperaturePath = path }
}

// WithReloadInterval re-reads the dataset periodically.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Service) { s.reloadInterval = d }
}

// WithForecastHorizon sets the default number of predicted years.
func WithForecastHorizon(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.horizon = n
		}
	}
}

// WithMaxForecastHorizon caps the horizon a request may ask for.
func WithMaxForecastHorizon(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHorizon = n
		}
	}
}

// WithWindows sets the default forecast and comparison windows.
func WithWindows(forecastWindow, comparisonWindow int) Option {
	return func(s *Service) {
		if forecastWindow >= 0 {
			s.forecastWindow = forecastWindow
		}
		if comparisonWindow >= 0 {
			s.comparisonWindow = comparisonWindow
		}
	}
}

// WithRankingLimits sets the default and maximum ranking sizes.
func WithRankingLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.rankingLimit = def
			s.maxRankingLimit = maxLimit
		}
	}
}

// WithBatch sets the batch worker count and maximum items per batch.
func WithBatch(workers, maxItems int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.batchWorkers = workers
		}
		if maxItems > 0 {
			s.batchMaxItems = maxItems
		}
	}
}

// WithComparison sets the default first year and entity cap of comparisons.
func WithComparison(fromYear, maxEntities int) Option {
	return func(s *Service) {
		s.compareFromYear = fromYear
		if maxEntities > 0 {
			s.maxCompareEntities = maxEntities
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		horizon:            5,
		maxHorizon:         50,
		forecastWindow:     20,
		comparisonWindow:   60,
		rankingLimit:       20,
		maxRankingLimit:    200,
		batchWorkers:       runtime.NumCPU(),
		batchMaxItems:      100,
		compareFromYear:    1950,
		maxCompareEntities: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxHorizon < s.horizon {
		s.maxHorizon = s.horizon
	}
	return s
}

// Start loads the dataset (when a path is configured) and starts the batch pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting co2atlas service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	if s.store == nil {
		s.store = dataset.NewSnapshotStore(runCtx,
			dataset.WithTemperaturePath(s.temperaturePath),
			dataset.WithReloadInterval(s.reloadInterval),
			dataset.WithLogger(s.logger.Named("dataset")),
		)
	}
	if s.datasetPath != "" {
		if err := s.store.Load(ctx, s.datasetPath); err != nil {
			cancel()
			return fmt.Errorf("load dataset: %w", err)
		}
	}

	s.batchQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.batchWorkers * s.batchMaxItems))
	s.pool = workerpool.NewPool(s.batchWorkers, s.batchQueue, s, s.logger.Named("batch"))
	s.pool.Start(runCtx)

	s.cancel = cancel
	s.started = true
	s.logger.Info(ctx, "co2atlas service started",
		logger.Int("batch_workers", s.batchWorkers),
		logger.Int("forecast_horizon", s.horizon),
		logger.Int("max_forecast_horizon", s.maxHorizon),
		logger.Int("forecast_window", s.forecastWindow),
	)
	return nil
}

// Stop gracefully shuts down the service. The lock is released before the
// pool drains because in-flight jobs read the store through the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	pool, store, cancel := s.pool, s.store, s.cancel
	s.started = false
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping co2atlas service...")

	if pool != nil {
		if err := pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "batch pool shutdown", logger.Error(err))
		}
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if cancel != nil {
		cancel()
	}
	s.logger.Info(ctx, "co2atlas service stopped")
}

// Reload re-reads the dataset.
func (s *Service) Reload(ctx context.Context) error {
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	return store.Reload(ctx)
}

func (s *Service) storeOrErr() (dataset.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return nil, err
	}
	return store.Snapshot(ctx)
}

// Stats describes the service and its current dataset.
type Stats struct {
	Started      bool      `json:"started"`
	Version      string    `json:"version,omitempty"`
	Source       string    `json:"source,omitempty"`
	LoadedAt     time.Time `json:"loaded_at"`
	Rows         int       `json:"rows"`
	Entities     int       `json:"entities"`
	Skipped      int       `json:"skipped"`
	Metrics      int       `json:"metrics"`
	BatchWorkers int       `json:"batch_workers"`
	BatchPending int       `json:"batch_pending"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	st := Stats{Started: s.started, BatchWorkers: s.batchWorkers}
	if s.batchQueue != nil {
		st.BatchPending = s.batchQueue.Len()
	}
	s.mu.RUnlock()

	if snap, err := s.snapshot(ctx); err == nil {
		st.Version = snap.Version
		st.Source = snap.Source
		st.LoadedAt = snap.LoadedAt
		st.Rows = len(snap.Rows)
		st.Entities = snap.Entities
		st.Skipped = snap.Skipped
		st.Metrics = len(snap.Metrics)
	}
	return st
}
