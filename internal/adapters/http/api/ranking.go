package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/ranking"
	"github.com/okian/co2atlas/internal/domain/series"
)

// RankingDependencies defines the cross-entity views.
type RankingDependencies interface {
	Ranking(ctx context.Context, q service.RankingQuery) ([]ranking.Share, error)
	Map(ctx context.Context, metric string, year int) (service.MapView, error)
	Mix(ctx context.Context, code string, year int) ([]ranking.MixComponent, error)
	Compare(ctx context.Context, codes []string, metric string, fromYear int) (series.Table, error)
}

// RankingHandler handles ranking, map, mix and compare requests.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

type rankingResponse struct {
	Metric  string          `json:"metric"`
	Year    *int            `json:"year,omitempty"`
	Entries []ranking.Share `json:"entries"`
}

type mixResponse struct {
	Code       string                 `json:"code"`
	Components []ranking.MixComponent `json:"components"`
}

// HandleRanking handles GET /ranking?metric=&limit=&year=.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeFailure(w, err)
		return
	}
	q := service.RankingQuery{Metric: r.URL.Query().Get("metric"), Limit: limit}
	if r.URL.Query().Get("year") != "" {
		year, err := intQuery(r, "year")
		if err != nil {
			writeFailure(w, err)
			return
		}
		q.Year = &year
	}
	entries, err := h.deps.Ranking(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if entries == nil {
		entries = []ranking.Share{}
	}
	metric := q.Metric
	if metric == "" {
		metric = service.DefaultMetric
	}
	writeJSON(w, http.StatusOK, rankingResponse{Metric: metric, Year: q.Year, Entries: entries})
}

// HandleMap handles GET /map?metric=&year=.
func (h *RankingHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	year, err := intQuery(r, "year")
	if err != nil {
		writeFailure(w, err)
		return
	}
	view, err := h.deps.Map(r.Context(), r.URL.Query().Get("metric"), year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleMix handles GET /mix?code=&year=.
func (h *RankingHandler) HandleMix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	year, err := intQuery(r, "year")
	if err != nil {
		writeFailure(w, err)
		return
	}
	code := r.URL.Query().Get("code")
	parts, err := h.deps.Mix(r.Context(), code, year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if parts == nil {
		parts = []ranking.MixComponent{}
	}
	writeJSON(w, http.StatusOK, mixResponse{Code: strings.ToUpper(strings.TrimSpace(code)), Components: parts})
}

// HandleCompare handles GET /compare?codes=A,B&metric=&from=.
func (h *RankingHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	from, err := intQuery(r, "from")
	if err != nil {
		writeFailure(w, err)
		return
	}
	var codes []string
	if raw := r.URL.Query().Get("codes"); raw != "" {
		codes = strings.Split(raw, ",")
	}
	table, err := h.deps.Compare(r.Context(), codes, r.URL.Query().Get("metric"), from)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if table.Rows == nil {
		table.Rows = []series.PivotRow{}
	}
	writeJSON(w, http.StatusOK, table)
}
