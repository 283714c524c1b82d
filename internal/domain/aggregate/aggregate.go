// Package aggregate merges per-topic leaderboard snapshots into a single
// cross-topic profile map for one period.
package aggregate

import (
	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
)

// Build folds snapshots into a map keyed by profile identity. Only entries
// whose resolved rank under m is <= topLimit qualify; a profile appears in
// the result iff it has at least one qualifying standing.
//
// Snapshots for a different period than the one requested are ignored, so
// callers can pass a mixed batch straight from the loader. Two entries for
// the same identity and topic overwrite (each snapshot holds at most one
// entry per profile, so last-write-wins is safe).
func Build(snapshots []model.TopicSnapshot, period model.Period, m metric.Metric, topLimit int) map[string]*model.Profile {
	profiles := make(map[string]*model.Profile)
	if topLimit <= 0 {
		return profiles
	}

	for _, snap := range snapshots {
		if snap.Period != period {
			continue
		}
		for _, e := range snap.Entries {
			id := e.Identity()
			if id == "" {
				continue
			}
			rank, ok := metric.ResolveEntry(e, m)
			if !ok || rank > topLimit {
				continue
			}

			p, exists := profiles[id]
			if !exists {
				p = &model.Profile{
					ID:        id,
					Standings: make(map[string]model.Standing),
				}
				profiles[id] = p
			}
			fillDisplay(p, e)
			p.Standings[snap.Topic.Slug] = standingFromEntry(e)
		}
	}
	return profiles
}

// fillDisplay keeps the first non-empty display fields seen for a profile.
func fillDisplay(p *model.Profile, e model.Entry) {
	if p.Handle == "" {
		p.Handle = e.Handle
	}
	if p.Name == "" {
		p.Name = e.Name
	}
	if p.AvatarURL == "" {
		p.AvatarURL = e.AvatarURL
	}
}

func standingFromEntry(e model.Entry) model.Standing {
	return model.Standing{
		Rank:         e.Rank,
		RankTotal:    e.RankTotal,
		RankSignal:   e.RankSignal,
		RankNoise:    e.RankNoise,
		TotalPoints:  e.TotalPoints,
		SignalPoints: e.SignalPoints,
		NoisePoints:  e.NoisePoints,
	}
}
