package api

import (
	"context"
	"net/http"

	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/region"
)

// CatalogDependencies lists what the dataset offers.
type CatalogDependencies interface {
	Metrics(ctx context.Context) ([]string, error)
	Countries(ctx context.Context) ([]region.Entity, error)
}

// CatalogHandler serves the dropdown sources of the dashboard.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type countriesResponse struct {
	Countries  []region.Entity `json:"countries"`
	Continents []string        `json:"continents"`
}

// HandleMetrics handles GET /metrics/list.
func (h *CatalogHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names, err := h.deps.Metrics(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"metrics": names})
}

// HandleCountries handles GET /countries.
func (h *CatalogHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	list, err := h.deps.Countries(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if list == nil {
		list = []region.Entity{}
	}
	writeJSON(w, http.StatusOK, countriesResponse{Countries: list, Continents: region.Continents})
}

// HandleMethods handles GET /methods.
func (h *CatalogHandler) HandleMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]forecast.MethodInfo{"methods": forecast.Methods()})
}
