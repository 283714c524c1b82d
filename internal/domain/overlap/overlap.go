// Package overlap computes cross-topic membership statistics: the
// distribution of "number of topics ranked in", grouping by exact topic-set
// membership, and the per-topic noise/signal ratio ranking.
package overlap

import (
	"sort"
	"strings"

	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
)

// GroupKeyDelimiter joins sorted slugs into the canonical group key.
const GroupKeyDelimiter = " | "

// absentAverageRank stands in for a period the profile has no standings in
// when ordering merged profiles.
const absentAverageRank = 9999

// Distribution counts profiles by how many topics they qualify in. The
// result covers every count from 1 to topicTotal, with explicit zero cells,
// so presentation layers can render the full range without probing for
// missing keys. Counts above topicTotal (possible only with inconsistent
// input) are still recorded.
func Distribution(profiles map[string]*model.Profile, topicTotal int) map[int]int {
	dist := make(map[int]int, topicTotal)
	for n := 1; n <= topicTotal; n++ {
		dist[n] = 0
	}
	for _, p := range profiles {
		n := len(p.Standings)
		if n == 0 {
			continue
		}
		dist[n]++
	}
	return dist
}

// GroupByTopicSet buckets profiles sharing an identical topic set. The group
// key is the sorted slug list joined with GroupKeyDelimiter, so two profiles
// with the same set land together regardless of discovery order. Groups come
// back ordered by size descending, ties broken by key ascending; members are
// ordered by sort name then id.
func GroupByTopicSet(profiles map[string]*model.Profile) []model.OverlapGroup {
	byKey := make(map[string]*model.OverlapGroup)
	for _, p := range profiles {
		topics := p.Topics()
		if len(topics) == 0 {
			continue
		}
		key := strings.Join(topics, GroupKeyDelimiter)
		g, ok := byKey[key]
		if !ok {
			g = &model.OverlapGroup{Key: key, Topics: topics}
			byKey[key] = g
		}
		g.Profiles = append(g.Profiles, p)
	}

	groups := make([]model.OverlapGroup, 0, len(byKey))
	for _, g := range byKey {
		sortProfiles(g.Profiles)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size() != groups[j].Size() {
			return groups[i].Size() > groups[j].Size()
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// AssignRatioRanks computes, per topic, the noise/signal ratio
// (noisePoints/signalPoints*100) for every profile holding both point
// values, and ranks profiles by ascending ratio within that topic (lower
// noise-to-signal is better). Profiles missing either point value, or with
// zero points, get no ratio rank so the division stays well defined.
func AssignRatioRanks(profiles map[string]*model.Profile) {
	type rated struct {
		p     *model.Profile
		ratio float64
	}

	byTopic := make(map[string][]rated)
	for _, p := range profiles {
		for slug, st := range p.Standings {
			if st.NoisePoints == nil || st.SignalPoints == nil {
				continue
			}
			if *st.NoisePoints == 0 || *st.SignalPoints == 0 {
				continue
			}
			ratio := *st.NoisePoints / *st.SignalPoints * 100
			st.Ratio = model.FloatPtr(ratio)
			p.Standings[slug] = st
			byTopic[slug] = append(byTopic[slug], rated{p: p, ratio: ratio})
		}
	}

	for slug, list := range byTopic {
		sort.Slice(list, func(i, j int) bool {
			if list[i].ratio != list[j].ratio {
				return list[i].ratio < list[j].ratio
			}
			return list[i].p.SortName() < list[j].p.SortName()
		})
		for i, r := range list {
			st := r.p.Standings[slug]
			st.RatioRank = model.IntPtr(i + 1)
			r.p.Standings[slug] = st
		}
	}
}

// MergedProfile pairs one identity with its per-period aggregates; periods
// the profile never qualified in are absent from the map.
type MergedProfile struct {
	ID       string                          `json:"id"`
	ByPeriod map[model.Period]*model.Profile `json:"byPeriod"`
}

// TopicCount sums the qualifying topic counts across all periods.
func (m MergedProfile) TopicCount() int {
	n := 0
	for _, p := range m.ByPeriod {
		n += len(p.Standings)
	}
	return n
}

// MergePeriods folds per-period profile maps into one list ordered by total
// topic count descending, then by the summed per-period average rank
// ascending (a period the profile is absent from contributes a large
// sentinel average), then by id for determinism.
func MergePeriods(byPeriod map[model.Period]map[string]*model.Profile) []MergedProfile {
	periods := make([]model.Period, 0, len(byPeriod))
	for per := range byPeriod {
		periods = append(periods, per)
	}

	merged := make(map[string]*MergedProfile)
	for per, profiles := range byPeriod {
		for id, p := range profiles {
			m, ok := merged[id]
			if !ok {
				m = &MergedProfile{ID: id, ByPeriod: make(map[model.Period]*model.Profile)}
				merged[id] = m
			}
			m.ByPeriod[per] = p
		}
	}

	out := make([]MergedProfile, 0, len(merged))
	for _, m := range merged {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].TopicCount(), out[j].TopicCount()
		if ci != cj {
			return ci > cj
		}
		ai, aj := summedAverageRank(out[i], periods), summedAverageRank(out[j], periods)
		if ai != aj {
			return ai < aj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func summedAverageRank(m MergedProfile, periods []model.Period) float64 {
	total := 0.0
	for _, per := range periods {
		p, ok := m.ByPeriod[per]
		if !ok {
			total += absentAverageRank
			continue
		}
		total += averageRank(p)
	}
	return total
}

func averageRank(p *model.Profile) float64 {
	if len(p.Standings) == 0 {
		return absentAverageRank
	}
	sum, n := 0, 0
	for _, st := range p.Standings {
		if r, ok := metric.Resolve(st, metric.RankTotal); ok {
			sum += r
			n++
		}
	}
	if n == 0 {
		return absentAverageRank
	}
	return float64(sum) / float64(n)
}

func sortProfiles(list []*model.Profile) {
	sort.Slice(list, func(i, j int) bool {
		ni, nj := list[i].SortName(), list[j].SortName()
		if ni != nj {
			return ni < nj
		}
		return list[i].ID < list[j].ID
	})
}
