// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/leaguelens/internal/app"
)

// ProfilesDependencies defines the interface for ranked profile reads.
type ProfilesDependencies interface {
	ComputeView(cfg service.ViewConfig) (*service.View, error)
}

// ProfilesHandler handles ranked profile list requests.
type ProfilesHandler struct {
	deps        ProfilesDependencies
	maxPageSize int
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfilesDependencies, maxPageSize int) *ProfilesHandler {
	return &ProfilesHandler{deps: deps, maxPageSize: maxPageSize}
}

// profilesResponse carries one page of the ranked list plus the filter
// metadata the caller needs to render controls.
type profilesResponse struct {
	Period        string      `json:"period"`
	Metric        string      `json:"metric"`
	TopLimit      int         `json:"topLimit"`
	Page          int         `json:"page"`
	PerPage       int         `json:"perPage"`
	TotalProfiles int         `json:"totalProfiles"`
	CountOptions  interface{} `json:"countOptions"`
	Profiles      interface{} `json:"profiles"`
}

// HandleGetProfiles handles GET /profiles requests with the full query
// surface: period, metric, top, search, topics, count, sort, page, per_page.
func (h *ProfilesHandler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profiles"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cfg, err := parseViewConfig(r, h.maxPageSize)
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
	writeJSON(w, http.StatusOK, profilesResponse{
		Period:        string(view.Period),
		Metric:        string(view.Metric),
		TopLimit:      view.TopLimit,
		Page:          view.Page,
		PerPage:       view.PerPage,
		TotalProfiles: view.TotalProfiles,
		CountOptions:  view.CountOptions,
		Profiles:      view.Profiles,
	})
}
