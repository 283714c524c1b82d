package simdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/leaguelens/internal/domain/model"
)

// Server serves a Universe in the upstream document shapes so the loader
// can be pointed at it unchanged.
type Server struct {
	universe *Universe
	now      func() time.Time
}

// NewServer wraps universe in an HTTP handler.
func NewServer(universe *Universe) *Server {
	return &Server{universe: universe, now: time.Now}
}

// Handler returns the route table for the synthetic store.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/%s_topics_raw.json", s.universe.Source), s.handleTopics)
	mux.HandleFunc("/leaderboards/", s.handleLeaderboards)
	return mux
}

// handleTopics serves the topic catalog in the source's raw shape.
func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	switch s.universe.Source {
	case model.SourceWallchain:
		raw := make([]map[string]any, 0, len(s.universe.Topics))
		for _, t := range s.universe.Topics {
			raw = append(raw, map[string]any{
				"companyId":   t.Slug,
				"companyName": t.Title,
				"logoUrl":     t.LogoURL,
				"section":     "active",
			})
		}
		writeDoc(w, raw)
	default:
		raw := make([]map[string]any, 0, len(s.universe.Topics))
		for _, t := range s.universe.Topics {
			raw = append(raw, map[string]any{
				"topicSlug": t.Slug,
				"title":     t.Title,
				"logoUrl":   t.LogoURL,
				"isLeague":  true,
			})
		}
		writeDoc(w, map[string]any{"data": raw})
	}
}

// handleLeaderboards serves per-topic boards and the global document. Board
// paths follow /leaderboards/{slug}/{date}/{source}-{period}.json and only
// today's date exists, which exercises the client's date probe.
func (s *Server) handleLeaderboards(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/leaderboards/")

	if rest == fmt.Sprintf("%s_global/latest.json", s.universe.Source) {
		s.handleGlobal(w)
		return
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}
	slug, date, file := parts[0], parts[1], parts[2]

	if date != s.now().UTC().Format("2006-01-02") {
		http.NotFound(w, r)
		return
	}
	periods, ok := s.universe.Boards[slug]
	if !ok {
		http.NotFound(w, r)
		return
	}
	prefix := fmt.Sprintf("%s-", s.universe.Source)
	if !strings.HasPrefix(file, prefix) || !strings.HasSuffix(file, ".json") {
		http.NotFound(w, r)
		return
	}
	period := model.Period(strings.TrimSuffix(strings.TrimPrefix(file, prefix), ".json"))
	board, ok := periods[period]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeDoc(w, board)
}

// handleGlobal regroups the boards into the precomputed per-profile shape.
func (s *Server) handleGlobal(w http.ResponseWriter) {
	type topicEntry struct {
		TopicSlug    string   `json:"topicSlug"`
		Period       string   `json:"period"`
		RankTotal    *int     `json:"rankTotal,omitempty"`
		RankSignal   *int     `json:"rankSignal,omitempty"`
		RankNoise    *int     `json:"rankNoise,omitempty"`
		TotalPoints  *float64 `json:"totalPoints,omitempty"`
		SignalPoints *float64 `json:"signalPoints,omitempty"`
		NoisePoints  *float64 `json:"noisePoints,omitempty"`
	}
	type globalProfile struct {
		UserID    string       `json:"userId"`
		TwitterID string       `json:"twitterId"`
		Handle    string       `json:"handle"`
		Name      string       `json:"name"`
		AvatarURL string       `json:"avatarUrl"`
		Topics    []topicEntry `json:"topics"`
	}

	byID := make(map[string]*globalProfile)
	order := make([]string, 0, len(s.universe.Profiles))
	for _, p := range s.universe.Profiles {
		byID[p.UserID] = &globalProfile{
			UserID:    p.UserID,
			TwitterID: p.TwitterID,
			Handle:    p.Handle,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Topics:    []topicEntry{},
		}
		order = append(order, p.UserID)
	}

	for slug, periods := range s.universe.Boards {
		for period, board := range periods {
			for _, e := range board {
				gp, ok := byID[e.UserID]
				if !ok {
					continue
				}
				gp.Topics = append(gp.Topics, topicEntry{
					TopicSlug:    slug,
					Period:       string(period),
					RankTotal:    e.RankTotal,
					RankSignal:   e.RankSignal,
					RankNoise:    e.RankNoise,
					TotalPoints:  e.TotalPoints,
					SignalPoints: e.SignalPoints,
					NoisePoints:  e.NoisePoints,
				})
			}
		}
	}

	profiles := make([]globalProfile, 0, len(order))
	for _, id := range order {
		profiles = append(profiles, *byID[id])
	}

	if s.universe.Source == model.SourceWallchain {
		writeDoc(w, map[string]any{
			"generationDate": s.now().UTC().Format("2006-01-02"),
			"profiles":       profiles,
		})
		return
	}
	writeDoc(w, profiles)
}

func writeDoc(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
