package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/isocode"
	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/ranking"
	"github.com/okian/co2atlas/internal/domain/region"
	"github.com/okian/co2atlas/internal/domain/series"
	"github.com/okian/co2atlas/pkg/logger"
	"github.com/okian/co2atlas/pkg/metrics"
)

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Metrics lists the metric columns of the current dataset.
func (s *Service) Metrics(ctx context.Context) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), snap.Metrics...), nil
}

// Countries lists the selectable countries.
func (s *Service) Countries(ctx context.Context) ([]region.Entity, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return region.Countries(snap.Rows), nil
}

func criteria(q model.SeriesQuery) (region.Criteria, error) {
	mode, err := region.ParseMode(q.Region)
	if err != nil {
		return region.Criteria{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	c := region.Criteria{Mode: mode, Code: strings.ToUpper(strings.TrimSpace(q.Code)), Name: strings.TrimSpace(q.Name), Metric: q.Metric}
	if c.Metric == "" {
		c.Metric = DefaultMetric
	}
	switch {
	case mode == region.Country && c.Code == "":
		return c, fmt.Errorf("%w: country code is required", ErrInvalidRequest)
	case mode == region.Continent && c.Name == "":
		return c, fmt.Errorf("%w: continent name is required", ErrInvalidRequest)
	}
	return c, nil
}

func (s *Service) buildSeries(ctx context.Context, q model.SeriesQuery, defaultWindow int) (series.TimeSeries, error) {
	c, err := criteria(q)
	if err != nil {
		return nil, err
	}
	if q.Window < 0 {
		return nil, fmt.Errorf("%w: window must not be negative", ErrInvalidRequest)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	window := q.Window
	if window == 0 {
		window = defaultWindow
	}
	return series.Build(region.Filter(snap.Rows, c), c.Metric, window), nil
}

// Series returns the windowed series for a region; no match is an empty series.
func (s *Service) Series(ctx context.Context, q model.SeriesQuery) (series.TimeSeries, error) {
	return s.buildSeries(ctx, q, s.forecastWindow)
}

// Forecast builds the region's series and projects it. An empty series
// yields forecast.ErrEmptySeries; an unknown method wraps ErrInvalidRequest.
func (s *Service) Forecast(ctx context.Context, req model.ForecastRequest) (forecast.Result, error) {
	method, err := forecast.ParseMethod(req.Method)
	if err != nil {
		metrics.RecordForecastError(strings.ToLower(req.Method), forecast.KindUnknownMethod)
		return forecast.Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.horizon
	}
	if horizon < 0 || horizon > s.maxHorizon {
		metrics.RecordForecastError(string(method), forecast.KindInvalid)
		return forecast.Result{}, fmt.Errorf("%w: horizon must be in [1, %d], got %d", ErrInvalidRequest, s.maxHorizon, horizon)
	}

	ts, err := s.buildSeries(ctx, req.SeriesQuery, s.forecastWindow)
	if err != nil {
		return forecast.Result{}, err
	}

	start := time.Now()
	res, err := forecast.Forecast(ts, method, horizon)
	if err != nil {
		metrics.RecordForecastError(string(method), forecast.ErrorKind(err))
		s.log().Debug(ctx, "no forecast",
			logger.String("method", string(method)),
			logger.Int("points", len(ts)),
			logger.Error(err),
		)
		return forecast.Result{}, err
	}
	metrics.RecordForecast(string(method), float64(time.Since(start).Microseconds())/1000, len(ts))
	return res, nil
}

// RankingQuery selects a ranking. A nil Year ranks by each entity's latest
// value; otherwise rows are restricted to that year first.
type RankingQuery struct {
	Metric string
	Limit  int
	Year   *int
}

// Ranking returns the top entities with their pie-chart shares.
// OWID aggregates are excluded so that shares are over countries.
func (s *Service) Ranking(ctx context.Context, q RankingQuery) ([]ranking.Share, error) {
	limit := q.Limit
	if limit == 0 {
		limit = s.rankingLimit
	}
	if limit < 0 || limit > s.maxRankingLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d]", ErrInvalidRequest, s.maxRankingLimit)
	}
	metric := q.Metric
	if metric == "" {
		metric = DefaultMetric
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rows := countriesOnly(snap.Rows)
	if q.Year != nil {
		rows = region.ByYear(rows, *q.Year)
	}
	return ranking.Shares(ranking.TopK(rows, metric, limit)), nil
}

func countriesOnly(rows []model.Observation) []model.Observation {
	out := make([]model.Observation, 0, len(rows))
	for _, o := range region.CodedOnly(rows) {
		if !o.IsAggregate() {
			out = append(out, o)
		}
	}
	return out
}

// MapView keys one year of values by ISO numeric code.
type MapView struct {
	Metric   string          `json:"metric"`
	Year     int             `json:"year"`
	FromYear int             `json:"from_year"`
	ToYear   int             `json:"to_year"`
	Values   map[int]float64 `json:"values"`
}

// Map returns the values of metric in year (zero means the latest year).
func (s *Service) Map(ctx context.Context, metric string, year int) (MapView, error) {
	if metric == "" {
		metric = DefaultMetric
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return MapView{}, err
	}
	rows := countriesOnly(snap.Rows)
	from, to, ok := ranking.YearRange(rows, metric)
	if !ok {
		return MapView{}, fmt.Errorf("%w: metric %q", ErrNoData, metric)
	}
	if year == 0 {
		year = to
	}

	view := MapView{Metric: metric, Year: year, FromYear: from, ToYear: to, Values: make(map[int]float64)}
	for code, v := range ranking.ValueAtYear(rows, metric, year) {
		if n, ok := isocode.Numeric(code); ok {
			view.Values[n] = v
		}
	}
	return view, nil
}

// Mix returns the per-capita emissions mix of code in year (zero means the
// latest year with any component).
func (s *Service) Mix(ctx context.Context, code string, year int) ([]ranking.MixComponent, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = latestMixYear(snap.Rows, code)
	}
	return ranking.Mix(snap.Rows, code, year, ranking.DefaultMixComponents), nil
}

func latestMixYear(rows []model.Observation, code string) int {
	latest := 0
	for _, o := range rows {
		if o.EntityCode != code || o.Year <= latest {
			continue
		}
		for _, m := range ranking.DefaultMixComponents {
			if _, ok := o.Value(m); ok {
				latest = o.Year
				break
			}
		}
	}
	return latest
}

// Compare pivots metric for up to the configured number of codes.
func (s *Service) Compare(ctx context.Context, codes []string, metric string, fromYear int) (series.Table, error) {
	clean := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		clean = append(clean, c)
	}
	if len(clean) == 0 {
		return series.Table{}, fmt.Errorf("%w: at least one code is required", ErrInvalidRequest)
	}
	if len(clean) > s.maxCompareEntities {
		return series.Table{}, fmt.Errorf("%w: %d > %d", ErrTooManyEntities, len(clean), s.maxCompareEntities)
	}
	if metric == "" {
		metric = DefaultMetric
	}
	if fromYear == 0 {
		fromYear = s.compareFromYear
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return series.Table{}, err
	}
	return series.Pivot(snap.Rows, clean, metric, fromYear), nil
}

// ClimateView pairs a region's metric with the yearly mean temperature.
type ClimateView struct {
	Entity string               `json:"entity"`
	Metric string               `json:"metric"`
	Points []series.JoinedPoint `json:"points"`
}

// Climate joins the region's metric series with yearly temperatures of the
// matching country or continent name, over the comparison window.
func (s *Service) Climate(ctx context.Context, q model.SeriesQuery) (ClimateView, error) {
	c, err := criteria(q)
	if err != nil {
		return ClimateView{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return ClimateView{}, err
	}
	if snap.Temperatures == nil {
		return ClimateView{}, ErrNoTemperature
	}

	rows := region.Filter(snap.Rows, c)
	name := c.Name
	if c.Mode == region.Country {
		if len(rows) == 0 {
			return ClimateView{}, fmt.Errorf("%w: %s", ErrNoData, c.Code)
		}
		name = rows[0].EntityName
	}

	window := q.Window
	if window <= 0 {
		window = s.comparisonWindow
	}
	co2 := series.Build(rows, c.Metric, window)
	temps := series.YearlyMean(snap.Temperatures[name], 0)
	return ClimateView{Entity: name, Metric: c.Metric, Points: series.Join(co2, temps)}, nil
}
