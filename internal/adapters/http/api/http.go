// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/leaguelens/internal/app"
	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/domain/overlap"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ComputeView builds one analysis view from the published universe.
	ComputeView(cfg service.ViewConfig) (*service.View, error)

	// Overview merges the 7d and 30d universes.
	Overview(m metric.Metric, topLimit int) ([]overlap.MergedProfile, error)

	// Topics lists the published topic catalog.
	Topics() []model.Topic

	// Refresh reloads the snapshot universe.
	Refresh(ctx context.Context) error

	// GetStats exposes service statistics for monitoring.
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	topicsHandler       *TopicsHandler
	profilesHandler     *ProfilesHandler
	distributionHandler *DistributionHandler
	overlapHandler      *OverlapHandler
	farmingHandler      *FarmingHandler
	refreshHandler      *RefreshHandler
}

// NewServer creates a new API server with all handlers. maxPageSize caps
// the per_page query parameter on listing endpoints.
func NewServer(deps Dependencies, maxPageSize int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(deps),
		topicsHandler:       NewTopicsHandler(deps),
		profilesHandler:     NewProfilesHandler(deps, maxPageSize),
		distributionHandler: NewDistributionHandler(deps),
		overlapHandler:      NewOverlapHandler(deps),
		farmingHandler:      NewFarmingHandler(deps),
		refreshHandler:      NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/topics", MetricsMiddleware(s.topicsHandler.HandleGetTopics, "topics"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandleGetProfiles, "profiles"))
	mux.HandleFunc("/distribution", MetricsMiddleware(s.distributionHandler.HandleGetDistribution, "distribution"))
	mux.HandleFunc("/overlap", MetricsMiddleware(s.overlapHandler.HandleGetOverlap, "overlap"))
	mux.HandleFunc("/farming", MetricsMiddleware(s.farmingHandler.HandleGetFarming, "farming"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
