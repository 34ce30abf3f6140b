// Package region selects dataset rows for a country or a continent.
package region

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/co2atlas/internal/domain/model"
)

// Mode selects how Criteria match rows.
type Mode int

const (
	// Country matches rows by ISO code.
	Country Mode = iota
	// Continent matches uncoded aggregate rows by name.
	Continent
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Country:
		return "country"
	case Continent:
		return "continent"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "country" or "continent" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "country":
		return Country, nil
	case "continent":
		return Continent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Criteria describes one region selection.
type Criteria struct {
	Mode   Mode
	Code   string // used in Country mode
	Name   string // used in Continent mode
	Metric string
}

// Continents is the fixed list of continent aggregates offered for selection.
var Continents = []string{"Asia", "Europe", "North America", "South America", "Africa", "Oceania"} //nolint:gochecknoglobals // fixed list

// Filter returns the rows matching c that carry a value for c.Metric.
// Input order is preserved and no match yields an empty slice.
func Filter(rows []model.Observation, c Criteria) []model.Observation {
	out := make([]model.Observation, 0)
	for _, o := range rows {
		if _, ok := o.Value(c.Metric); !ok {
			continue
		}
		switch c.Mode {
		case Country:
			if o.EntityCode != c.Code {
				continue
			}
		case Continent:
			if o.HasCode() || o.EntityName != c.Name {
				continue
			}
		default:
			continue
		}
		out = append(out, o)
	}
	return out
}

// ByYear returns the rows observed in year.
func ByYear(rows []model.Observation, year int) []model.Observation {
	out := make([]model.Observation, 0)
	for _, o := range rows {
		if o.Year == year {
			out = append(out, o)
		}
	}
	return out
}

// CodedOnly drops rows without an entity code.
func CodedOnly(rows []model.Observation) []model.Observation {
	out := make([]model.Observation, 0, len(rows))
	for _, o := range rows {
		if o.HasCode() {
			out = append(out, o)
		}
	}
	return out
}

// Entity is a selectable country.
type Entity struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries lists distinct coded countries, excluding OWID aggregates.
// The first name seen for a code wins; the result is sorted by name.
func Countries(rows []model.Observation) []Entity {
	seen := make(map[string]struct{})
	out := make([]Entity, 0)
	for _, o := range rows {
		if !o.HasCode() || o.IsAggregate() {
			continue
		}
		if _, ok := seen[o.EntityCode]; ok {
			continue
		}
		seen[o.EntityCode] = struct{}{}
		out = append(out, Entity{Code: o.EntityCode, Name: o.EntityName})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
