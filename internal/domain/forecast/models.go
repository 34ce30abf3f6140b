package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Predictor evaluates a fitted model at a position.
type Predictor func(x float64) float64

// Model fits values observed at positions and returns a Predictor.
// Implementations hold no state between calls.
type Model interface {
	Fit(xs, ys []float64) (Predictor, error)
}

type linearModel struct{}

func (linearModel) Fit(xs, ys []float64) (Predictor, error) {
	if len(xs) < 2 {
		return nil, &InsufficientDataError{Method: Linear, Required: 2, Got: len(xs)}
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return func(x float64) float64 { return intercept + slope*x }, nil
}

// polynomialModel is a least-squares polynomial of the given degree.
// Extrapolation far from the fitted range diverges quickly.
type polynomialModel struct {
	degree int
}

func (m polynomialModel) Fit(xs, ys []float64) (Predictor, error) {
	cols := m.degree + 1
	if len(xs) < cols {
		return nil, &InsufficientDataError{Method: Polynomial, Required: cols, Got: len(xs)}
	}

	a := mat.NewDense(len(xs), cols, nil)
	for i, x := range xs {
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}
	b := mat.NewVecDense(len(ys), append([]float64(nil), ys...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("forecast: polynomial solve: %w", err)
	}
	c := coef.RawVector().Data
	return func(x float64) float64 {
		// Horner
		y := 0.0
		for j := len(c) - 1; j >= 0; j-- {
			y = y*x + c[j]
		}
		return y
	}, nil
}

// positive keeps the points with y > 0, log-transforming y.
func positive(xs, ys []float64) (px, logy []float64) {
	for i, y := range ys {
		if y > 0 {
			px = append(px, xs[i])
			logy = append(logy, math.Log(y))
		}
	}
	return px, logy
}

func logFitGuard(method Method, kept int) error {
	switch kept {
	case 0:
		return &NonPositiveValueError{Method: method}
	case 1:
		return &InsufficientDataError{Method: method, Required: 2, Got: 1}
	default:
		return nil
	}
}

// exponentialModel fits y = a*e^(b*x) on ln(y). Non-positive points are
// dropped and the kept points are renumbered 0..k-1 before fitting;
// predictions still use the caller's positions.
type exponentialModel struct{}

func (exponentialModel) Fit(xs, ys []float64) (Predictor, error) {
	px, logy := positive(xs, ys)
	if err := logFitGuard(Exponential, len(px)); err != nil {
		return nil, err
	}
	for i := range px {
		px[i] = float64(i)
	}
	lnA, b := stat.LinearRegression(px, logy, nil, false)
	a := math.Exp(lnA)
	return func(x float64) float64 { return a * math.Exp(b*x) }, nil
}

// powerModel fits y = a*x^b on ln(x), ln(y) with 1-based positions, so the
// first historical point sits at x = 1.
type powerModel struct{}

func (powerModel) Fit(xs, ys []float64) (Predictor, error) {
	shifted := make([]float64, len(xs))
	for i, x := range xs {
		shifted[i] = x + 1
	}
	px, logy := positive(shifted, ys)
	if err := logFitGuard(Power, len(px)); err != nil {
		return nil, err
	}
	logx := make([]float64, len(px))
	for i, x := range px {
		logx[i] = math.Log(x)
	}
	lnA, b := stat.LinearRegression(logx, logy, nil, false)
	a := math.Exp(lnA)
	return func(x float64) float64 { return a * math.Pow(x+1, b) }, nil
}

func constant(v float64) Predictor {
	return func(float64) float64 { return v }
}

type smaModel struct {
	period int
}

func (m smaModel) Fit(_, ys []float64) (Predictor, error) {
	if len(ys) < 1 {
		return nil, &InsufficientDataError{Method: SMA, Required: 1, Got: 0}
	}
	start := len(ys) - m.period
	if start < 0 {
		start = 0
	}
	return constant(stat.Mean(ys[start:], nil)), nil
}

type emaModel struct {
	alpha float64
}

func (m emaModel) Fit(_, ys []float64) (Predictor, error) {
	if len(ys) < 1 {
		return nil, &InsufficientDataError{Method: EMA, Required: 1, Got: 0}
	}
	ema := ys[0]
	for _, v := range ys {
		ema = v*m.alpha + ema*(1-m.alpha)
	}
	return constant(ema), nil
}
