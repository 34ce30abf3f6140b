// Package series turns filtered observations into ordered yearly series.
package series

import (
	"math"
	"sort"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/types"
)

// TimeSeries is a list of points with strictly increasing years.
type TimeSeries []types.Point

// Years returns the series years in order.
func (s TimeSeries) Years() []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Year
	}
	return out
}

// Values returns the series values in order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the most recent point; ok is false for an empty series.
func (s TimeSeries) Last() (types.Point, bool) {
	if len(s) == 0 {
		return types.Point{}, false
	}
	return s[len(s)-1], true
}

// Build groups rows by year and sorts them ascending. When several rows share
// a year the last one in input order wins. A positive window keeps only the
// most recent window points. Rows without the metric are ignored.
func Build(rows []model.Observation, metric string, window int) TimeSeries {
	byYear := make(map[int]float64, len(rows))
	for _, o := range rows {
		if v, ok := o.Value(metric); ok {
			byYear[o.Year] = v
		}
	}
	return fromMap(byYear, window)
}

func fromMap(byYear map[int]float64, window int) TimeSeries {
	out := make(TimeSeries, 0, len(byYear))
	for y, v := range byYear {
		out = append(out, types.Point{Year: y, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return Truncate(out, window)
}

// Truncate keeps the most recent window points; window <= 0 keeps all.
func Truncate(s TimeSeries, window int) TimeSeries {
	if window > 0 && len(s) > window {
		return s[len(s)-window:]
	}
	return s
}

// Sample is one sub-yearly reading; NaN values are null.
type Sample struct {
	Year  int
	Value float64
}

// YearlyMean averages samples per year, skipping nulls. Years with no
// non-null sample are omitted.
func YearlyMean(samples []Sample, window int) TimeSeries {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range samples {
		if math.IsNaN(s.Value) {
			continue
		}
		sums[s.Year] += s.Value
		counts[s.Year]++
	}
	means := make(map[int]float64, len(sums))
	for y, sum := range sums {
		means[y] = sum / float64(counts[y])
	}
	return fromMap(means, window)
}

// JoinedPoint pairs a left value with an optional right value for one year.
type JoinedPoint struct {
	Year  int      `json:"year"`
	Left  float64  `json:"left"`
	Right *float64 `json:"right"`
}

// Join aligns right onto the years of left.
func Join(left, right TimeSeries) []JoinedPoint {
	idx := make(map[int]float64, len(right))
	for _, p := range right {
		idx[p.Year] = p.Value
	}
	out := make([]JoinedPoint, 0, len(left))
	for _, p := range left {
		jp := JoinedPoint{Year: p.Year, Left: p.Value}
		if v, ok := idx[p.Year]; ok {
			jp.Right = &v
		}
		out = append(out, jp)
	}
	return out
}
