// Package service provides the core view service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leaguelens/internal/domain/aggregate"
	"github.com/okian/leaguelens/internal/domain/farming"
	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/domain/overlap"
	"github.com/okian/leaguelens/internal/domain/ranking"
	"github.com/okian/leaguelens/pkg/logger"
	"github.com/okian/leaguelens/pkg/metrics"
)

// Default analysis knobs, overridable per service and per query.
const (
	defaultTopLimit          = 100
	defaultTopCutoff         = 50
	defaultGoodRankThreshold = 300
	defaultPerPage           = 30
)

// SnapshotSource loads the raw snapshot universe for one refresh pass.
type SnapshotSource interface {
	LoadAll(ctx context.Context, periods []model.Period) ([]model.TopicSnapshot, []model.Topic, error)
}

// Service holds the most recently published snapshot universe and computes
// analysis views from it. Recomputation never mutates published data; a
// refresh swaps the whole universe under the lock.
type Service struct {
	mu sync.RWMutex

	source SnapshotSource

	// Published universe
	snapshots   []model.TopicSnapshot
	topics      []model.Topic
	batch       string
	refreshedAt time.Time

	// Newest issued refresh token; only the batch holding it may publish.
	latest string

	// Defaults
	topLimit          int
	topCutoff         int
	goodRankThreshold int
	periods           []model.Period

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTopLimit sets the default qualifying rank cutoff.
func WithTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithFarmingDefaults sets the default farming cohort size and good-rank
// threshold.
func WithFarmingDefaults(topCutoff, goodRankThreshold int) Option {
	return func(s *Service) {
		if topCutoff > 0 {
			s.topCutoff = topCutoff
		}
		if goodRankThreshold > 0 {
			s.goodRankThreshold = goodRankThreshold
		}
	}
}

// WithPeriods sets which aggregation windows a refresh loads.
func WithPeriods(periods []model.Period) Option {
	return func(s *Service) {
		if len(periods) > 0 {
			s.periods = periods
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service reading from source.
func New(source SnapshotSource, opts ...Option) *Service {
	s := &Service{
		source:            source,
		topLimit:          defaultTopLimit,
		topCutoff:         defaultTopCutoff,
		goodRankThreshold: defaultGoodRankThreshold,
		periods:           []model.Period{model.Period7D, model.Period30D, model.PeriodTournament},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start performs the initial snapshot refresh.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting view service")
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error(ctx, "initial refresh failed", logger.Error(err))
		return err
	}
	return nil
}

// Stop marks the service stopped. Held views remain readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "view service stopped")
}

// Refresh reloads the snapshot universe. Concurrent refreshes race for
// publication: each gets a batch token at entry, and only the batch holding
// the newest token may publish. Older batches that finish late are
// discarded so a stale load never overwrites a fresher one.
func (s *Service) Refresh(ctx context.Context) error {
	token := uuid.NewString()
	s.mu.Lock()
	s.latest = token
	periods := s.periods
	s.mu.Unlock()

	start := time.Now()
	snapshots, topics, err := s.source.LoadAll(ctx, periods)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	s.mu.Lock()
	if s.latest != token {
		s.mu.Unlock()
		metrics.RecordStaleBatchDiscard()
		s.logger.Info(ctx, "discarding stale refresh batch", logger.String("batch", token))
		return nil
	}
	s.snapshots = snapshots
	s.topics = topics
	s.batch = token
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	metrics.RecordRefresh()
	metrics.UpdateTopicCount(len(topics))
	s.logger.Info(ctx, "snapshot universe refreshed",
		logger.String("batch", token),
		logger.Int("topics", len(topics)),
		logger.Int("snapshots", len(snapshots)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// ViewConfig selects one analysis view.
type ViewConfig struct {
	Period     model.Period
	Metric     metric.Metric
	TopLimit   int
	Search     string
	Topics     []string
	TopicCount int
	Sort       *ranking.ManualSort
	Page       int
	PerPage    int

	TopCutoff         int
	GoodRankThreshold int
}

// View is one fully computed analysis result.
type View struct {
	Period        model.Period          `json:"period"`
	Metric        metric.Metric         `json:"metric"`
	TopLimit      int                   `json:"topLimit"`
	Profiles      []*model.Profile      `json:"profiles"`
	TotalProfiles int                   `json:"totalProfiles"`
	Page          int                   `json:"page"`
	PerPage       int                   `json:"perPage"`
	CountOptions  []ranking.CountOption `json:"countOptions"`
	Distribution  map[int]int           `json:"distribution"`
	Groups        []model.OverlapGroup  `json:"groups"`
	Farming       []model.FarmingMetric `json:"farming"`
}

// normalize fills defaults and validates the selection.
func (s *Service) normalize(cfg *ViewConfig) error {
	if cfg.Period == "" {
		cfg.Period = model.PeriodTournament
	}
	if !cfg.Period.Valid() {
		return fmt.Errorf("%w: period %q", ErrInvalidQuery, cfg.Period)
	}
	if cfg.Metric == "" {
		cfg.Metric = metric.RankTotal
	}
	if !cfg.Metric.Valid() {
		return fmt.Errorf("%w: metric %q", ErrInvalidQuery, cfg.Metric)
	}
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = s.topLimit
	}
	if cfg.Page <= 0 {
		cfg.Page = 1
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.TopCutoff <= 0 {
		cfg.TopCutoff = s.topCutoff
	}
	if cfg.GoodRankThreshold <= 0 {
		cfg.GoodRankThreshold = s.goodRankThreshold
	}
	return nil
}

// ComputeView builds a complete analysis view from the published universe.
// It is pure with respect to the published data: nothing it touches is
// mutated, so concurrent views never interfere.
func (s *Service) ComputeView(cfg ViewConfig) (*View, error) {
	if err := s.normalize(&cfg); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snapshots := s.snapshots
	topics := s.topics
	s.mu.RUnlock()

	start := time.Now()

	profiles := s.buildProfiles(snapshots, cfg.Period, cfg.Metric, cfg.TopLimit)
	ranked := ranking.Rank(profiles, ranking.Query{
		Search:     cfg.Search,
		Topics:     cfg.Topics,
		TopicCount: cfg.TopicCount,
		Metric:     cfg.Metric,
		TopLimit:   cfg.TopLimit,
		Sort:       cfg.Sort,
	})

	calc := farming.New(
		farming.WithTopCutoff(cfg.TopCutoff),
		farming.WithGoodRankThreshold(cfg.GoodRankThreshold),
	)

	view := &View{
		Period:        cfg.Period,
		Metric:        cfg.Metric,
		TopLimit:      cfg.TopLimit,
		Profiles:      ranking.Paginate(ranked, cfg.Page, cfg.PerPage),
		TotalProfiles: len(ranked),
		Page:          cfg.Page,
		PerPage:       cfg.PerPage,
		CountOptions:  ranking.CountOptions(profiles, cfg.Topics),
		Distribution:  overlap.Distribution(profiles, len(topics)),
		Groups:        overlap.GroupByTopicSet(profiles),
		Farming:       calc.Compute(profiles),
	}

	metrics.RecordViewComputeDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateProfileCount(len(profiles))
	return view, nil
}

// Overview merges the 7d and 30d universes into the combined profile list.
func (s *Service) Overview(m metric.Metric, topLimit int) ([]overlap.MergedProfile, error) {
	if m == "" {
		m = metric.RankTotal
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: metric %q", ErrInvalidQuery, m)
	}
	if topLimit <= 0 {
		topLimit = s.topLimit
	}

	s.mu.RLock()
	snapshots := s.snapshots
	s.mu.RUnlock()

	byPeriod := map[model.Period]map[string]*model.Profile{
		model.Period7D:  s.buildProfiles(snapshots, model.Period7D, m, topLimit),
		model.Period30D: s.buildProfiles(snapshots, model.Period30D, m, topLimit),
	}
	return overlap.MergePeriods(byPeriod), nil
}

// buildProfiles aggregates the raw snapshots into the per-identity profile
// map for one window.
func (s *Service) buildProfiles(snapshots []model.TopicSnapshot, period model.Period, m metric.Metric, topLimit int) map[string]*model.Profile {
	return aggregate.Build(snapshots, period, m, topLimit)
}

// Topics returns the published topic catalog.
func (s *Service) Topics() []model.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Topic, len(s.topics))
	copy(out, s.topics)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"topicCount":    len(s.topics),
		"snapshotCount": len(s.snapshots),
		"topLimit":      s.topLimit,
	}
	if s.batch != "" {
		stats["batch"] = s.batch
		stats["refreshedAt"] = s.refreshedAt.UTC().Format(time.RFC3339)
	}
	return stats
}
