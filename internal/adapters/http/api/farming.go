// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/leaguelens/internal/app"
)

// FarmingDependencies defines the interface for farming index reads.
type FarmingDependencies interface {
	ComputeView(cfg service.ViewConfig) (*service.View, error)
}

// FarmingHandler handles farming index requests.
type FarmingHandler struct {
	deps FarmingDependencies
}

// NewFarmingHandler creates a new farming handler.
func NewFarmingHandler(deps FarmingDependencies) *FarmingHandler {
	return &FarmingHandler{deps: deps}
}

// HandleGetFarming handles GET /farming requests. cutoff and threshold
// override the cohort size and the good-rank bound.
func (h *FarmingHandler) HandleGetFarming(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_farming"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cfg, err := parseViewConfig(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	if cfg.TopCutoff, err = intParam(r.URL.Query().Get("cutoff")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if cfg.GoodRankThreshold, err = intParam(r.URL.Query().Get("threshold")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	view, err := h.deps.ComputeView(cfg)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  view.Period,
		"metric":  view.Metric,
		"farming": view.Farming,
	})
}
