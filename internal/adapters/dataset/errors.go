package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrMissingColumn = errors.New("dataset: required column missing")
	ErrNoPath        = errors.New("dataset: no dataset path configured")
	ErrNotLoaded     = errors.New("dataset: not loaded")
)
