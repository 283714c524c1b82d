// Package farming scores how "farmed" each topic's top cohort is: the more
// of a topic's best-ranked profiles are also well ranked in other topics,
// the higher the farming score and the lower the inverse organic index.
package farming

import (
	"math"
	"sort"

	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
)

// Default thresholds mirroring the reference presentation defaults.
const (
	DefaultTopCutoff         = 50
	DefaultGoodRankThreshold = 300
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithTopCutoff sets how many of a topic's best profiles are evaluated.
func WithTopCutoff(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.topCutoff = n
		}
	}
}

// WithGoodRankThreshold sets the rank at or below which a standing in
// another topic counts as "good".
func WithGoodRankThreshold(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.goodRankThreshold = n
		}
	}
}

// Calculator computes per-topic farming metrics over an aggregated profile
// map. It holds no state between calls; options only fix the two knobs.
type Calculator struct {
	topCutoff         int
	goodRankThreshold int
}

// New creates a Calculator with default thresholds.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		topCutoff:         DefaultTopCutoff,
		goodRankThreshold: DefaultGoodRankThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns one FarmingMetric per topic appearing in the profile set,
// ordered by organic index descending (least farmed first, slug ascending on
// ties).
//
// A topic whose top cohort is empty yields farmingScore 0 and organicIndex
// 1.0 by convention: that is absence of evidence of farming, not evidence of
// an organic community, and callers must not conflate the two.
func (c *Calculator) Compute(profiles map[string]*model.Profile) []model.FarmingMetric {
	topics := make(map[string]struct{})
	for _, p := range profiles {
		for slug := range p.Standings {
			topics[slug] = struct{}{}
		}
	}

	metrics := make([]model.FarmingMetric, 0, len(topics))
	for slug := range topics {
		metrics = append(metrics, c.computeTopic(slug, profiles))
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].OrganicIndex != metrics[j].OrganicIndex {
			return metrics[i].OrganicIndex > metrics[j].OrganicIndex
		}
		return metrics[i].TopicSlug < metrics[j].TopicSlug
	})
	return metrics
}

func (c *Calculator) computeTopic(slug string, profiles map[string]*model.Profile) model.FarmingMetric {
	type ranked struct {
		p    *model.Profile
		rank int
	}

	withRank := make([]ranked, 0, len(profiles))
	for _, p := range profiles {
		st, ok := p.Standings[slug]
		if !ok {
			continue
		}
		if rank, ok := metric.Resolve(st, metric.RankTotal); ok {
			withRank = append(withRank, ranked{p: p, rank: rank})
		}
	}
	sort.Slice(withRank, func(i, j int) bool {
		if withRank[i].rank != withRank[j].rank {
			return withRank[i].rank < withRank[j].rank
		}
		return withRank[i].p.ID < withRank[j].p.ID
	})
	if len(withRank) > c.topCutoff {
		withRank = withRank[:c.topCutoff]
	}

	var (
		top        = make([]*model.Profile, 0, len(withRank))
		exclusive  []*model.Profile
		totalCount int
	)
	for _, r := range withRank {
		top = append(top, r.p)
		otherGood := c.otherGoodCount(r.p, slug)
		totalCount += otherGood
		if otherGood == 0 {
			exclusive = append(exclusive, r.p)
		}
	}

	score := 0.0
	if len(top) > 0 {
		score = float64(totalCount) / float64(len(top))
	}

	return model.FarmingMetric{
		TopicSlug:         slug,
		FarmingScore:      round3(score),
		OrganicIndex:      round3(1 / (1 + score)),
		ExclusiveTopCount: len(exclusive),
		ExclusiveProfiles: exclusive,
		TopProfiles:       top,
	}
}

// otherGoodCount counts the topics besides slug in which p holds a resolved
// rank at or below the good-rank threshold.
func (c *Calculator) otherGoodCount(p *model.Profile, slug string) int {
	n := 0
	for other, st := range p.Standings {
		if other == slug {
			continue
		}
		if rank, ok := metric.Resolve(st, metric.RankTotal); ok && rank <= c.goodRankThreshold {
			n++
		}
	}
	return n
}

// round3 keeps display-facing floats stable at three decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
