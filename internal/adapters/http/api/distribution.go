// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/leaguelens/internal/app"
)

// DistributionDependencies defines the interface for distribution reads.
type DistributionDependencies interface {
	ComputeView(cfg service.ViewConfig) (*service.View, error)
}

// DistributionHandler handles topic-count distribution requests.
type DistributionHandler struct {
	deps DistributionDependencies
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(deps DistributionDependencies) *DistributionHandler {
	return &DistributionHandler{deps: deps}
}

// HandleGetDistribution handles GET /distribution requests.
func (h *DistributionHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distribution"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cfg, err := parseViewConfig(r, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
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
		"period":       view.Period,
		"metric":       view.Metric,
		"topLimit":     view.TopLimit,
		"distribution": view.Distribution,
	})
}
