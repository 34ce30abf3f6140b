package service

import "errors"

// Sentinel kinds for service errors. Handlers map them to status codes.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNoData           = errors.New("no data")
	ErrTooManyEntities  = errors.New("too many entities")
	ErrBatchTooLarge    = errors.New("batch too large")
	ErrNoTemperature    = errors.New("temperature data not loaded")
	ErrNotStarted       = errors.New("service not started")
	ErrBatchUnavailable = errors.New("batch queue unavailable")
)
