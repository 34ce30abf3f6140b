// Package dataset loads observation CSV files and serves immutable snapshots.
package dataset

import (
	"context"
	"time"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/series"
)

// Snapshot is an immutable view of one dataset load. Readers must not
// mutate any field.
type Snapshot struct {
	Version  string
	LoadedAt time.Time
	Source   string

	Rows     []model.Observation
	Metrics  []string
	Entities int
	Skipped  int

	// Monthly temperature samples keyed by country name; nil when no
	// temperature file is configured.
	Temperatures map[string][]series.Sample
}

// Store provides access to the current dataset snapshot.
type Store interface {
	// Snapshot returns the current snapshot or ErrNotLoaded.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Load reads path and publishes it as the current snapshot.
	Load(ctx context.Context, path string) error

	// Reload re-reads the last loaded path.
	Reload(ctx context.Context) error
}
