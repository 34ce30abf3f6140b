// Package forecast projects a yearly series a few years ahead with one of
// six interchangeable methods.
//
// Historical points are fitted at positions 0..n-1 regardless of their
// calendar years; predictions are taken at positions n..n+horizon-1 and
// labelled with years last+1..last+horizon. A prediction that is not a
// finite number fails the whole forecast with *NonFiniteError.
package forecast

import (
	"math"
	"strings"

	"github.com/okian/co2atlas/internal/domain/series"
	"github.com/okian/co2atlas/internal/domain/types"
)

// Method identifies a forecasting strategy.
type Method string

const (
	Linear      Method = "linear"
	Polynomial  Method = "polynomial"
	Exponential Method = "exponential"
	Power       Method = "power"
	SMA         Method = "sma"
	EMA         Method = "ema"
)

// Tuning constants of the smoothing and polynomial methods.
const (
	PolynomialDegree = 2
	SMAPeriod        = 5
	EMAAlpha         = 0.2
)

// MethodInfo describes a method for listings.
type MethodInfo struct {
	Method Method `json:"method"`
	Label  string `json:"label"`
}

var registry = map[Method]Model{ //nolint:gochecknoglobals // immutable strategy table
	Linear:      linearModel{},
	Polynomial:  polynomialModel{degree: PolynomialDegree},
	Exponential: exponentialModel{},
	Power:       powerModel{},
	SMA:         smaModel{period: SMAPeriod},
	EMA:         emaModel{alpha: EMAAlpha},
}

var methods = []MethodInfo{ //nolint:gochecknoglobals // display order
	{Linear, "Linear Regression"},
	{Polynomial, "Polynomial Regression"},
	{Exponential, "Exponential Regression"},
	{Power, "Power Regression"},
	{SMA, "Simple Moving Average"},
	{EMA, "Exponential Moving Average"},
}

// Methods lists the supported methods in display order.
func Methods() []MethodInfo {
	return append([]MethodInfo(nil), methods...)
}

// ParseMethod validates a method identifier (case-insensitive).
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry[m]; !ok {
		return "", &UnknownMethodError{Method: s}
	}
	return m, nil
}

// Result is the historical series followed by the predicted points.
type Result struct {
	Method Method              `json:"method"`
	Points []types.TaggedPoint `json:"points"`
}

// Historical returns the observed part of the result.
func (r Result) Historical() []types.TaggedPoint { return r.filter(types.Historical) }

// Predicted returns the forecast part of the result.
func (r Result) Predicted() []types.TaggedPoint { return r.filter(types.Predicted) }

func (r Result) filter(k types.Kind) []types.TaggedPoint {
	out := make([]types.TaggedPoint, 0, len(r.Points))
	for _, p := range r.Points {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Forecast fits method to s and predicts horizon future years.
func Forecast(s series.TimeSeries, method Method, horizon int) (Result, error) {
	model, ok := registry[method]
	if !ok {
		return Result{}, &UnknownMethodError{Method: string(method)}
	}
	if len(s) == 0 {
		return Result{}, ErrEmptySeries
	}
	n := len(s)
	if horizon < 1 || horizon > math.MaxInt-n {
		return Result{}, ErrInvalidHorizon
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	predict, err := model.Fit(xs, s.Values())
	if err != nil {
		return Result{}, err
	}

	points := make([]types.TaggedPoint, 0, n+horizon)
	for _, p := range s {
		points = append(points, types.TaggedPoint{Point: p, Kind: types.Historical})
	}
	last := s[n-1].Year
	for i := 0; i < horizon; i++ {
		v := predict(float64(n + i))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, &NonFiniteError{Method: method, Year: last + 1 + i}
		}
		points = append(points, types.TaggedPoint{
			Point: types.Point{Year: last + 1 + i, Value: v},
			Kind:  types.Predicted,
		})
	}
	return Result{Method: method, Points: points}, nil
}
