// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/leaguelens/internal/domain/model"
)

// TopicsDependencies defines the interface for topic catalog reads.
type TopicsDependencies interface {
	Topics() []model.Topic
}

// TopicsHandler handles topic catalog requests.
type TopicsHandler struct {
	deps TopicsDependencies
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(deps TopicsDependencies) *TopicsHandler {
	return &TopicsHandler{deps: deps}
}

// HandleGetTopics handles GET /topics requests.
func (h *TopicsHandler) HandleGetTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Topics())
}
