// Package ranking orders entities by their latest observed metric value.
package ranking

import (
	"sort"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/types"
)

// LatestPerEntity returns one entry per coded entity holding the value of
// the last row encountered with the metric present, whatever its year.
// Entries are ordered by value descending; ties keep first-encounter order.
// Ranks run 1..n.
func LatestPerEntity(rows []model.Observation, metric string) []types.Entry {
	index := make(map[string]int)
	entries := make([]types.Entry, 0)
	for _, o := range rows {
		if !o.HasCode() {
			continue
		}
		v, ok := o.Value(metric)
		if !ok {
			continue
		}
		e := types.Entry{EntityCode: o.EntityCode, EntityName: o.EntityName, Value: v, Year: o.Year}
		if i, seen := index[o.EntityCode]; seen {
			entries[i] = e
			continue
		}
		index[o.EntityCode] = len(entries)
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopK returns the first k entries of LatestPerEntity; k <= 0 returns all.
// Callers wanting a specific year pre-filter rows with region.ByYear.
func TopK(rows []model.Observation, metric string, k int) []types.Entry {
	entries := LatestPerEntity(rows, metric)
	if k > 0 && len(entries) > k {
		return entries[:k]
	}
	return entries
}

// ValueAtYear returns the metric value of each coded entity in exactly year.
func ValueAtYear(rows []model.Observation, metric string, year int) map[string]float64 {
	out := make(map[string]float64)
	for _, o := range rows {
		if o.Year != year || !o.HasCode() {
			continue
		}
		if v, ok := o.Value(metric); ok {
			out[o.EntityCode] = v
		}
	}
	return out
}

// YearRange returns the first and last year in which metric is observed.
func YearRange(rows []model.Observation, metric string) (from, to int, ok bool) {
	for _, o := range rows {
		if _, present := o.Value(metric); !present {
			continue
		}
		if !ok || o.Year < from {
			from = o.Year
		}
		if !ok || o.Year > to {
			to = o.Year
		}
		ok = true
	}
	return from, to, ok
}

// Share is an entry with its fraction of the ranking total.
type Share struct {
	types.Entry
	Share float64 `json:"share"`
}

// Shares computes pie-chart fractions; a zero total yields zero shares.
func Shares(entries []types.Entry) []Share {
	total := 0.0
	for _, e := range entries {
		total += e.Value
	}
	out := make([]Share, len(entries))
	for i, e := range entries {
		out[i] = Share{Entry: e}
		if total != 0 {
			out[i].Share = e.Value / total
		}
	}
	return out
}
