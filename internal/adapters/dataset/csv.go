package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/series"
)

// OWID column names.
const (
	ColumnCode    = "iso_code"
	ColumnCountry = "country"
	ColumnYear    = "year"
)

// Temperature column names.
const (
	ColumnDate        = "dt"
	ColumnTemperature = "AverageTemperature"
	ColumnTempCountry = "Country"
)

// rows between context checks while parsing
const ctxCheckEvery = 4096

// Table is the parsed content of an observation CSV.
type Table struct {
	Rows    []model.Observation
	Metrics []string // metric columns with at least one numeric cell, sorted
	Skipped int      // rows rejected by parsing or validation
}

// ReadObservations parses the OWID CSV layout. Every column other than
// iso_code, country and year is a metric; empty or non-numeric cells are null.
// Invalid rows are skipped and counted rather than failing the read.
func ReadObservations(ctx context.Context, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("dataset: read header: %w", err)
	}
	idx := indexColumns(header)
	codeIdx, okCode := idx[ColumnCode]
	nameIdx, okName := idx[ColumnCountry]
	yearIdx, okYear := idx[ColumnYear]
	if !okCode || !okName || !okYear {
		return Table{}, fmt.Errorf("%w: need %s, %s and %s", ErrMissingColumn, ColumnCode, ColumnCountry, ColumnYear)
	}

	type metricCol struct {
		name string
		pos  int
	}
	cols := make([]metricCol, 0, len(header))
	for i, h := range header {
		if i == codeIdx || i == nameIdx || i == yearIdx {
			continue
		}
		cols = append(cols, metricCol{name: strings.TrimSpace(h), pos: i})
	}

	var t Table
	seen := make(map[string]struct{})
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Table{}, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				t.Skipped++
				continue
			}
			return Table{}, fmt.Errorf("dataset: read row %d: %w", n+1, err)
		}

		year, err := strconv.Atoi(cell(record, yearIdx))
		if err != nil {
			t.Skipped++
			continue
		}
		o := model.Observation{
			EntityCode: cell(record, codeIdx),
			EntityName: cell(record, nameIdx),
			Year:       year,
			Metrics:    make(map[string]float64),
		}
		for _, c := range cols {
			v, ok := parseNumber(cell(record, c.pos))
			if !ok {
				continue
			}
			o.Metrics[c.name] = v
		}
		if model.Validate(o) != nil {
			t.Skipped++
			continue
		}
		for m := range o.Metrics {
			seen[m] = struct{}{}
		}
		t.Rows = append(t.Rows, o)
	}

	t.Metrics = make([]string, 0, len(seen))
	for m := range seen {
		t.Metrics = append(t.Metrics, m)
	}
	sort.Strings(t.Metrics)
	return t, nil
}

// ReadTemperatures parses monthly readings (dt, AverageTemperature, Country)
// into samples grouped by country name. Empty readings become NaN samples.
func ReadTemperatures(ctx context.Context, r io.Reader) (map[string][]series.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read temperature header: %w", err)
	}
	idx := indexColumns(header)
	dateIdx, okDate := idx[ColumnDate]
	tempIdx, okTemp := idx[ColumnTemperature]
	countryIdx, okCountry := idx[ColumnTempCountry]
	if !okDate || !okTemp || !okCountry {
		return nil, fmt.Errorf("%w: need %s, %s and %s", ErrMissingColumn, ColumnDate, ColumnTemperature, ColumnTempCountry)
	}

	out := make(map[string][]series.Sample)
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read temperature row %d: %w", n+1, err)
		}

		dt := cell(record, dateIdx)
		if len(dt) < 4 {
			continue
		}
		year, err := strconv.Atoi(dt[:4])
		if err != nil {
			continue
		}
		country := cell(record, countryIdx)
		if country == "" {
			continue
		}
		v, ok := parseNumber(cell(record, tempIdx))
		if !ok {
			v = math.NaN()
		}
		out[country] = append(out[country], series.Sample{Year: year, Value: v})
	}
	return out, nil
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
