// Package types contains common types used across the application
package types

// Entry represents a ranking entry
type Entry struct {
	Rank       int     `json:"rank"`
	EntityCode string  `json:"entity_code"`
	EntityName string  `json:"entity_name"`
	Value      float64 `json:"value"`
	Year       int     `json:"year"`
}

// Point is one (year, value) pair of a time series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Kind tags a point as observed or forecast.
type Kind string

const (
	Historical Kind = "historical"
	Predicted  Kind = "predicted"
)

// TaggedPoint is a Point carrying its Kind.
type TaggedPoint struct {
	Point
	Kind Kind `json:"kind"`
}
