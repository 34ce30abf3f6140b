package api

import (
	"context"
	"net/http"

	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/series"
	"github.com/okian/co2atlas/internal/domain/types"
)

// SeriesDependencies builds and projects region series.
type SeriesDependencies interface {
	Series(ctx context.Context, q model.SeriesQuery) (series.TimeSeries, error)
	Forecast(ctx context.Context, req model.ForecastRequest) (forecast.Result, error)
	Climate(ctx context.Context, q model.SeriesQuery) (service.ClimateView, error)
}

// SeriesHandler handles series, forecast and climate requests.
type SeriesHandler struct {
	deps SeriesDependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps SeriesDependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

type seriesResponse struct {
	Query  model.SeriesQuery `json:"query"`
	Points []types.Point     `json:"points"`
}

type forecastResponse struct {
	Method  forecast.Method     `json:"method"`
	Horizon int                 `json:"horizon"`
	Points  []types.TaggedPoint `json:"points"`
}

func newForecastResponse(res forecast.Result) *forecastResponse {
	points := res.Points
	if points == nil {
		points = []types.TaggedPoint{}
	}
	return &forecastResponse{Method: res.Method, Horizon: len(res.Predicted()), Points: points}
}

// HandleSeries handles GET /series.
func (h *SeriesHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := seriesQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	ts, err := h.deps.Series(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	points := []types.Point(ts)
	if points == nil {
		points = []types.Point{}
	}
	writeJSON(w, http.StatusOK, seriesResponse{Query: q, Points: points})
}

// HandleForecast handles GET /forecast. A series with no points answers
// 404 no_data; a series the method cannot fit answers 422 no_forecast.
func (h *SeriesHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := seriesQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	horizon, err := intQuery(r, "horizon")
	if err != nil {
		writeFailure(w, err)
		return
	}
	method := r.URL.Query().Get("method")
	if method == "" {
		method = string(forecast.Linear)
	}
	res, err := h.deps.Forecast(r.Context(), model.ForecastRequest{SeriesQuery: q, Method: method, Horizon: horizon})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newForecastResponse(res))
}

// HandleClimate handles GET /climate.
func (h *SeriesHandler) HandleClimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := seriesQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	view, err := h.deps.Climate(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if view.Points == nil {
		view.Points = []series.JoinedPoint{}
	}
	writeJSON(w, http.StatusOK, view)
}
