package series

import (
	"sort"

	"github.com/okian/co2atlas/internal/domain/model"
)

// PivotRow holds one year of a comparison table. Entities without a value
// for the year are absent from Values.
type PivotRow struct {
	Year   int                `json:"year"`
	Values map[string]float64 `json:"values"`
}

// Table is a multi-entity comparison keyed by year.
type Table struct {
	Codes []string   `json:"codes"`
	Rows  []PivotRow `json:"rows"`
}

// Pivot builds a year by entity table of metric for the given codes,
// keeping years >= fromYear. Duplicate (code, year) pairs are last-wins.
func Pivot(rows []model.Observation, codes []string, metric string, fromYear int) Table {
	wanted := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		wanted[c] = struct{}{}
	}

	byYear := make(map[int]map[string]float64)
	for _, o := range rows {
		if o.Year < fromYear {
			continue
		}
		if _, ok := wanted[o.EntityCode]; !ok {
			continue
		}
		v, ok := o.Value(metric)
		if !ok {
			continue
		}
		vals, ok := byYear[o.Year]
		if !ok {
			vals = make(map[string]float64, len(codes))
			byYear[o.Year] = vals
		}
		vals[o.EntityCode] = v
	}

	t := Table{Codes: append([]string(nil), codes...), Rows: make([]PivotRow, 0, len(byYear))}
	for y, vals := range byYear {
		t.Rows = append(t.Rows, PivotRow{Year: y, Values: vals})
	}
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Year < t.Rows[j].Year })
	return t
}
