// Package simdata generates a synthetic snapshot store for local
// development and load testing without the real upstream.
package simdata

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/leaguelens/internal/domain/model"
)

// Generation defaults.
const (
	defaultTopicCount   = 6
	defaultProfileCount = 400
	defaultSeed         = 1

	// Share of the profile pool that participates in any one topic.
	participationNumerator   = 2
	participationDenominator = 3

	maxPoints = 500.0
)

// Profile is one synthetic identity reused across topics.
type Profile struct {
	UserID    string
	TwitterID string
	Handle    string
	Name      string
	AvatarURL string
}

// Universe is a complete synthetic snapshot store: a topic catalog plus
// per-topic, per-period leaderboards over a shared profile pool.
type Universe struct {
	Source   model.SourceKind
	Topics   []model.Topic
	Profiles []Profile

	// Boards maps topic slug then period to the ordered leaderboard.
	Boards map[string]map[model.Period][]model.Entry
}

// Generator builds deterministic synthetic universes.
type Generator struct {
	source       model.SourceKind
	topicCount   int
	profileCount int
	seed         int64
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSource sets which upstream family the universe mimics.
func WithSource(s model.SourceKind) Option {
	return func(g *Generator) {
		if s.Valid() {
			g.source = s
		}
	}
}

// WithTopicCount sets the number of topics.
func WithTopicCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.topicCount = n
		}
	}
}

// WithProfileCount sets the size of the shared profile pool.
func WithProfileCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.profileCount = n
		}
	}
}

// WithSeed fixes the random seed so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a Generator with defaults.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		source:       model.SourceXeet,
		topicCount:   defaultTopicCount,
		profileCount: defaultProfileCount,
		seed:         defaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the universe. The same seed always yields the same
// catalog, pool, and boards.
func (g *Generator) Generate() *Universe {
	rng := rand.New(rand.NewSource(g.seed))

	u := &Universe{
		Source: g.source,
		Boards: make(map[string]map[model.Period][]model.Entry),
	}

	for i := 0; i < g.topicCount; i++ {
		slug := fmt.Sprintf("league-%02d", i+1)
		u.Topics = append(u.Topics, model.Topic{
			Slug:    slug,
			Title:   fmt.Sprintf("League %02d", i+1),
			LogoURL: fmt.Sprintf("/logos/%s.png", slug),
		})
	}

	uuidSpace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("simdata-%d", g.seed)))
	for i := 0; i < g.profileCount; i++ {
		handle := fmt.Sprintf("player_%04d", i+1)
		u.Profiles = append(u.Profiles, Profile{
			UserID:    uuid.NewSHA1(uuidSpace, []byte(handle)).String(),
			TwitterID: fmt.Sprintf("%d", 100_000_000+i),
			Handle:    handle,
			Name:      fmt.Sprintf("Player %04d", i+1),
			AvatarURL: fmt.Sprintf("/avatars/%s.jpg", handle),
		})
	}

	for _, topic := range u.Topics {
		u.Boards[topic.Slug] = make(map[model.Period][]model.Entry)
		for _, period := range model.Periods() {
			u.Boards[topic.Slug][period] = g.board(rng, u.Profiles)
		}
	}
	return u
}

// board draws a random subset of the pool and ranks it.
func (g *Generator) board(rng *rand.Rand, pool []Profile) []model.Entry {
	size := len(pool) * participationNumerator / participationDenominator
	if size < 1 {
		size = 1
	}
	picks := rng.Perm(len(pool))[:size]

	entries := make([]model.Entry, 0, size)
	for i, idx := range picks {
		p := pool[idx]
		rank := i + 1
		signal := maxPoints * rng.Float64()
		noise := maxPoints * rng.Float64()
		entries = append(entries, model.Entry{
			UserID:       p.UserID,
			TwitterID:    p.TwitterID,
			Handle:       p.Handle,
			Name:         p.Name,
			AvatarURL:    p.AvatarURL,
			Rank:         model.IntPtr(rank),
			RankTotal:    model.IntPtr(rank),
			RankSignal:   model.IntPtr(rng.Intn(size) + 1),
			RankNoise:    model.IntPtr(rng.Intn(size) + 1),
			TotalPoints:  model.FloatPtr(signal + noise),
			SignalPoints: model.FloatPtr(signal),
			NoisePoints:  model.FloatPtr(noise),
		})
	}
	return entries
}
