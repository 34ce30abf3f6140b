package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/co2atlas/internal/adapters/dataset"
	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/forecast"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest    = "bad_request"
	codeNoData        = "no_data"
	codeNoForecast    = "no_forecast"
	codeTooMany       = "too_many_entities"
	codeBatchTooLarge = "batch_too_large"
	codeNoTemperature = "no_temperature"
	codeNotReady      = "not_ready"
	codeCancelled     = "cancelled"
	codeInternal      = "internal_error"
)

// classify maps a service or domain error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, forecast.ErrEmptySeries), errors.Is(err, service.ErrNoData):
		return http.StatusNotFound, codeNoData
	case forecast.IsNoForecast(err):
		return http.StatusUnprocessableEntity, codeNoForecast
	case errors.Is(err, service.ErrTooManyEntities):
		return http.StatusBadRequest, codeTooMany
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, codeBatchTooLarge
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, forecast.ErrInvalidHorizon),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrNoTemperature):
		return http.StatusNotFound, codeNoTemperature
	case errors.Is(err, dataset.ErrNotLoaded),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, service.ErrBatchUnavailable):
		return http.StatusServiceUnavailable, codeNotReady
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, codeCancelled
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
