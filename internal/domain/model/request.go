package model

// SeriesQuery selects one region's metric series.
type SeriesQuery struct {
	Region string `json:"region"` // country (default) or continent
	Code   string `json:"code,omitempty"`
	Name   string `json:"name,omitempty"`
	Metric string `json:"metric"`
	Window int    `json:"window,omitempty"` // zero means the configured default
}

// ForecastRequest asks for a forecast of a region's metric series.
type ForecastRequest struct {
	SeriesQuery
	Method  string `json:"method"`
	Horizon int    `json:"horizon,omitempty"` // zero means the configured default
}
