// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"
)

// AggregatePrefix marks synthetic OWID aggregate codes such as OWID_WRL.
const AggregatePrefix = "OWID_"

// Observation is one dataset row: an entity, a year and its metric values.
// A metric missing from Metrics is null. Rows are never mutated after load.
type Observation struct {
	EntityCode string // ISO alpha-3, OWID_ aggregate, or empty for continents
	EntityName string
	Year       int
	Metrics    map[string]float64
}

// Value returns the metric value and whether it is present.
func (o Observation) Value(metric string) (float64, bool) {
	v, ok := o.Metrics[metric]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// HasCode reports whether the row belongs to a coded entity.
func (o Observation) HasCode() bool { return o.EntityCode != "" }

// IsAggregate reports whether the row is an OWID aggregate (world, income groups).
func (o Observation) IsAggregate() bool {
	return strings.HasPrefix(o.EntityCode, AggregatePrefix)
}

// Validate rejects rows that cannot take part in any view.
func Validate(o Observation) error {
	if strings.TrimSpace(o.EntityName) == "" {
		return ErrMissingName
	}
	if o.Year == 0 {
		return fmt.Errorf("%w: %s", ErrMissingYear, o.EntityName)
	}
	if o.HasCode() && !o.IsAggregate() && !isAlpha3(o.EntityCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCode, o.EntityCode)
	}
	return nil
}

func isAlpha3(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
