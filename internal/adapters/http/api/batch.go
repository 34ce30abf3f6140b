package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/model"
)

const maxBatchBodyBytes = 1 << 20

// BatchDependencies runs many forecasts at once.
type BatchDependencies interface {
	ForecastBatch(ctx context.Context, reqs []model.ForecastRequest) ([]service.BatchItem, error)
}

// BatchHandler handles POST /forecast/batch.
type BatchHandler struct {
	deps BatchDependencies
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps BatchDependencies) *BatchHandler {
	return &BatchHandler{deps: deps}
}

type batchRequest struct {
	Requests []model.ForecastRequest `json:"requests"`
}

type batchResult struct {
	Index    int               `json:"index"`
	Forecast *forecastResponse `json:"forecast,omitempty"`
	Error    *errorResponse    `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

// HandlePostBatch answers with one result per request, in request order.
// Items fail independently; the response is 200 whenever the batch ran.
func (h *BatchHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBodyBytes)
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if len(req.Requests) == 0 {
		writeFailure(w, fmt.Errorf("%w: requests must not be empty", ErrBadRequest))
		return
	}

	items, err := h.deps.ForecastBatch(r.Context(), req.Requests)
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := batchResponse{Results: make([]batchResult, len(items))}
	for i, it := range items {
		resp.Results[i].Index = it.Index
		if it.Err != nil {
			_, code := classify(it.Err)
			resp.Results[i].Error = &errorResponse{Code: code, Message: it.Err.Error()}
			continue
		}
		resp.Results[i].Forecast = newForecastResponse(it.Result)
	}
	writeJSON(w, http.StatusOK, resp)
}
