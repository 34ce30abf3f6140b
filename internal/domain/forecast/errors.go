package forecast

import (
	"errors"
	"fmt"
)

// ErrEmptySeries is returned when there is no historical point to fit.
var ErrEmptySeries = errors.New("forecast: empty series")

// ErrInvalidHorizon is returned for a horizon below one or one whose
// positions would overflow an int.
var ErrInvalidHorizon = errors.New("forecast: horizon out of range")

// InsufficientDataError reports fewer points than a method needs.
type InsufficientDataError struct {
	Method   Method
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("forecast: %s needs at least %d points, got %d", e.Method, e.Required, e.Got)
}

// NonPositiveValueError reports that no positive value is left for a log fit.
type NonPositiveValueError struct {
	Method Method
}

func (e *NonPositiveValueError) Error() string {
	return fmt.Sprintf("forecast: %s has no positive values to fit", e.Method)
}

// NonFiniteError reports a fit whose extrapolation leaves the float64 range.
type NonFiniteError struct {
	Method Method
	Year   int
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("forecast: %s prediction for %d is not finite", e.Method, e.Year)
}

// UnknownMethodError reports an unsupported method identifier.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("forecast: unknown method %q", e.Method)
}

// Error kinds used as metric labels and API error codes.
const (
	KindEmpty         = "empty_series"
	KindInsufficient  = "insufficient_data"
	KindNonPositive   = "non_positive"
	KindNonFinite     = "non_finite"
	KindUnknownMethod = "unknown_method"
	KindInvalid       = "invalid_horizon"
	KindOther         = "other"
)

// ErrorKind classifies a forecast error.
func ErrorKind(err error) string {
	var (
		insufficient *InsufficientDataError
		nonPositive  *NonPositiveValueError
		nonFinite    *NonFiniteError
		unknown      *UnknownMethodError
	)
	switch {
	case errors.Is(err, ErrEmptySeries):
		return KindEmpty
	case errors.Is(err, ErrInvalidHorizon):
		return KindInvalid
	case errors.As(err, &insufficient):
		return KindInsufficient
	case errors.As(err, &nonPositive):
		return KindNonPositive
	case errors.As(err, &nonFinite):
		return KindNonFinite
	case errors.As(err, &unknown):
		return KindUnknownMethod
	default:
		return KindOther
	}
}

// IsNoForecast reports whether err means the series cannot support the
// method, as opposed to a caller mistake.
func IsNoForecast(err error) bool {
	switch ErrorKind(err) {
	case KindInsufficient, KindNonPositive, KindNonFinite:
		return true
	default:
		return false
	}
}
