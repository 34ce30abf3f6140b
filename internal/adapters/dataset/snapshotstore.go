package dataset

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/co2atlas/internal/domain/series"
	"github.com/okian/co2atlas/pkg/logger"
	"github.com/okian/co2atlas/pkg/metrics"
)

// SnapshotStore keeps the current snapshot behind an atomic pointer. Loads
// are serialised; reads never wait for a load.
type SnapshotStore struct {
	loadMu          sync.Mutex
	path            string
	temperaturePath string
	reloadInterval  time.Duration

	snapshot atomic.Pointer[Snapshot]

	logger logger.Logger

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSnapshotStore constructs an empty store. When a reload interval is
// configured a background goroutine re-reads the last path until ctx ends
// or Close is called.
func NewSnapshotStore(ctx context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		logger:   logger.Nop(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reloadInterval > 0 {
		s.startPeriodicReload(ctx)
	}
	return s
}

func (s *SnapshotStore) startPeriodicReload(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.Reload(ctx); err != nil {
					s.logger.Warn(ctx, "periodic dataset reload failed", logger.Error(err))
				}
			}
		}
	}()
}

// Close stops the periodic reload goroutine.
func (s *SnapshotStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Snapshot implements Store.Snapshot.
func (s *SnapshotStore) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Load implements Store.Load. On failure the previous snapshot stays current.
func (s *SnapshotStore) Load(ctx context.Context, path string) error {
	if path == "" {
		return ErrNoPath
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	snap, err := s.read(ctx, path)
	ms := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordDatasetLoad("error", ms)
		metrics.RecordErrorByComponent("dataset", "load")
		return err
	}

	s.path = path
	s.snapshot.Store(snap)

	metrics.RecordDatasetLoad("ok", ms)
	metrics.UpdateDataset(len(snap.Rows), snap.Entities, snap.Skipped, float64(snap.LoadedAt.Unix()))
	s.logger.Info(ctx, "dataset loaded",
		logger.String("path", path),
		logger.String("version", snap.Version),
		logger.Int("rows", len(snap.Rows)),
		logger.Int("entities", snap.Entities),
		logger.Int("skipped", snap.Skipped),
		logger.Int("temperature_countries", len(snap.Temperatures)),
	)
	return nil
}

// Reload implements Store.Reload.
func (s *SnapshotStore) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	path := s.path
	s.loadMu.Unlock()
	if path == "" {
		return ErrNotLoaded
	}
	return s.Load(ctx, path)
}

// Publish installs a prepared table as the current snapshot. Used when the
// rows come from somewhere other than a file.
func (s *SnapshotStore) Publish(source string, t Table, temps map[string][]series.Sample) *Snapshot {
	snap := newSnapshot(source, t, temps)
	s.snapshot.Store(snap)
	return snap
}

func (s *SnapshotStore) read(ctx context.Context, path string) (*Snapshot, error) {
	t, err := readObservationsFile(ctx, path)
	if err != nil {
		return nil, err
	}

	var temps map[string][]series.Sample
	if s.temperaturePath != "" {
		temps, err = readTemperaturesFile(ctx, s.temperaturePath)
		if err != nil {
			return nil, err
		}
	}
	return newSnapshot(path, t, temps), nil
}

func newSnapshot(source string, t Table, temps map[string][]series.Sample) *Snapshot {
	entities := make(map[string]struct{})
	for _, o := range t.Rows {
		key := o.EntityCode
		if key == "" {
			key = o.EntityName
		}
		entities[key] = struct{}{}
	}
	return &Snapshot{
		Version:      uuid.NewString(),
		LoadedAt:     time.Now().UTC(),
		Source:       source,
		Rows:         t.Rows,
		Metrics:      t.Metrics,
		Entities:     len(entities),
		Skipped:      t.Skipped,
		Temperatures: temps,
	}
}

func readObservationsFile(ctx context.Context, path string) (Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return Table{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	t, err := ReadObservations(ctx, f)
	if err != nil {
		return Table{}, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return t, nil
}

func readTemperaturesFile(ctx context.Context, path string) (map[string][]series.Sample, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	temps, err := ReadTemperatures(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return temps, nil
}
