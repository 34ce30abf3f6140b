package dataset

import (
	"time"

	"github.com/okian/co2atlas/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithTemperaturePath loads monthly temperatures alongside every dataset load.
func WithTemperaturePath(path string) Option {
	return func(s *SnapshotStore) {
		s.temperaturePath = path
	}
}

// WithReloadInterval re-reads the dataset in the background at interval.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval > 0 {
			s.reloadInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.logger = l
		}
	}
}
