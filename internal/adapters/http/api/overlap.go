// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/leaguelens/internal/app"
	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/overlap"
)

// OverlapDependencies defines the interface for overlap reads.
type OverlapDependencies interface {
	ComputeView(cfg service.ViewConfig) (*service.View, error)
	Overview(m metric.Metric, topLimit int) ([]overlap.MergedProfile, error)
}

// OverlapHandler handles topic-set overlap requests.
type OverlapHandler struct {
	deps OverlapDependencies
}

// NewOverlapHandler creates a new overlap handler.
func NewOverlapHandler(deps OverlapDependencies) *OverlapHandler {
	return &OverlapHandler{deps: deps}
}

// HandleGetOverlap handles GET /overlap requests. With merged=true it
// returns the combined 7d/30d profile overview instead of the per-window
// topic-set groups.
func (h *OverlapHandler) HandleGetOverlap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overlap"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cfg, err := parseViewConfig(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}

	if r.URL.Query().Get("merged") == "true" {
		merged, err := h.deps.Overview(cfg.Metric, cfg.TopLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": merged})
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
		"period":   view.Period,
		"metric":   view.Metric,
		"topLimit": view.TopLimit,
		"groups":   view.Groups,
	})
}
