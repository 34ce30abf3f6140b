// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider
	CatalogDependencies
	SeriesDependencies
	BatchDependencies
	RankingDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	log            logger.Logger
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	seriesHandler  *SeriesHandler
	batchHandler   *BatchHandler
	rankingHandler *RankingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		log:            log,
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		seriesHandler:  NewSeriesHandler(deps),
		batchHandler:   NewBatchHandler(deps),
		rankingHandler: NewRankingHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	routes := []struct {
		path     string
		endpoint string
		h        http.HandlerFunc
	}{
		{"/healthz", "healthz", s.healthHandler.HandleHealth},
		{"/stats", "stats", s.statsHandler.HandleStats},
		{"/metrics/list", "metrics_list", s.catalogHandler.HandleMetrics},
		{"/countries", "countries", s.catalogHandler.HandleCountries},
		{"/methods", "methods", s.catalogHandler.HandleMethods},
		{"/series", "series", s.seriesHandler.HandleSeries},
		{"/forecast", "forecast", s.seriesHandler.HandleForecast},
		{"/forecast/batch", "forecast_batch", s.batchHandler.HandlePostBatch},
		{"/climate", "climate", s.seriesHandler.HandleClimate},
		{"/ranking", "ranking", s.rankingHandler.HandleRanking},
		{"/map", "map", s.rankingHandler.HandleMap},
		{"/mix", "mix", s.rankingHandler.HandleMix},
		{"/compare", "compare", s.rankingHandler.HandleCompare},
	}
	for _, rt := range routes {
		mux.Handle(rt.path, RequestIDMiddleware(MetricsMiddleware(rt.h, rt.endpoint), s.log))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing status, so an unencodable value
// answers 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: codeInternal, Message: "response encoding failed"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes the matching error response.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// intQuery parses an optional integer query parameter; absent means zero.
func intQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return n, nil
}

// seriesQuery reads region, code, name, metric and window.
func seriesQuery(r *http.Request) (model.SeriesQuery, error) {
	q := r.URL.Query()
	window, err := intQuery(r, "window")
	if err != nil {
		return model.SeriesQuery{}, err
	}
	return model.SeriesQuery{
		Region: q.Get("region"),
		Code:   q.Get("code"),
		Name:   q.Get("name"),
		Metric: q.Get("metric"),
		Window: window,
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
