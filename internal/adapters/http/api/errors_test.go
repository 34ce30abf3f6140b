package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/co2atlas/internal/adapters/dataset"
	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/forecast"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty series", forecast.ErrEmptySeries, http.StatusNotFound, codeNoData},
		{"no data", fmt.Errorf("%w: metric", service.ErrNoData), http.StatusNotFound, codeNoData},
		{"insufficient", &forecast.InsufficientDataError{Method: "polynomial", Required: 3, Got: 2}, http.StatusUnprocessableEntity, codeNoForecast},
		{"non positive", &forecast.NonPositiveValueError{Method: "power"}, http.StatusUnprocessableEntity, codeNoForecast},
		{"non finite", &forecast.NonFiniteError{Method: "exponential", Year: 2030}, http.StatusUnprocessableEntity, codeNoForecast},
		{"horizon out of range", forecast.ErrInvalidHorizon, http.StatusBadRequest, codeBadRequest},
		{"unknown method", fmt.Errorf("%w: %w", service.ErrInvalidRequest, &forecast.UnknownMethodError{Method: "x"}), http.StatusBadRequest, codeBadRequest},
		{"bad query", fmt.Errorf("%w: limit", ErrBadRequest), http.StatusBadRequest, codeBadRequest},
		{"too many", service.ErrTooManyEntities, http.StatusBadRequest, codeTooMany},
		{"batch too large", service.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, codeBatchTooLarge},
		{"no temperature", service.ErrNoTemperature, http.StatusNotFound, codeNoTemperature},
		{"not loaded", dataset.ErrNotLoaded, http.StatusServiceUnavailable, codeNotReady},
		{"not started", service.ErrNotStarted, http.StatusServiceUnavailable, codeNotReady},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, codeCancelled},
		{"other", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("classify(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	cases := map[int]string{
		400: "client_error",
		404: "not_found",
		422: "no_forecast",
		500: "server_error",
		503: "unavailable",
		200: "unknown",
	}
	for status, want := range cases {
		if got := getErrorType(status); got != want {
			t.Errorf("getErrorType(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not a complete JSON document: %q", w.Body.String())
	}
	if body.Code != codeInternal {
		t.Errorf("code = %s, want %s", body.Code, codeInternal)
	}
}
