// Package ranking applies the filter and sort pipeline that turns an
// aggregated profile map into a presentation-ready ordered list.
//
// Stage order is fixed: limit filter, text filter, topic filter, topic-count
// filter, sort, and a final defensive drop of profiles left with no
// standings. Sorting is deterministic: every comparison falls through to the
// case-insensitive sort name and then the profile id, so identical inputs
// always produce identical orderings.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/leaguelens/internal/domain/metric"
	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/domain/overlap"
)

// Direction orders a manual sort.
type Direction string

// Manual sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a supported direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Column names a sortable per-topic value. The metric columns sort by the
// raw field of that name; ColumnRatio sorts by the noise/signal ratio rank.
type Column string

// Sortable columns.
const (
	ColumnTotal  Column = Column(metric.RankTotal)
	ColumnSignal Column = Column(metric.RankSignal)
	ColumnNoise  Column = Column(metric.RankNoise)
	ColumnRatio  Column = "rankRatio"
)

// Valid reports whether c is a sortable column.
func (c Column) Valid() bool {
	switch c {
	case ColumnTotal, ColumnSignal, ColumnNoise, ColumnRatio:
		return true
	}
	return false
}

// ManualSort pins the ordering to one topic column, overriding the automatic
// sort rules.
type ManualSort struct {
	TopicSlug string    `json:"topicSlug"`
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// Query bundles every knob the pipeline accepts. TopicCount zero disables
// the count filter.
type Query struct {
	Search     string
	Topics     []string
	TopicCount int
	Metric     metric.Metric
	TopLimit   int
	Sort       *ManualSort
}

// Rank runs the full pipeline over profiles and returns a fresh ordered
// list. The input map is never mutated; every returned profile is a copy
// whose standings were re-filtered against the query's top limit.
func Rank(profiles map[string]*model.Profile, q Query) []*model.Profile {
	qualified := Qualify(profiles, q.Metric, q.TopLimit)

	// Text filter before ratio ranks: the per-topic ratio ranking is
	// relative to the currently visible population.
	if search := strings.TrimSpace(strings.ToLower(q.Search)); search != "" {
		for id, p := range qualified {
			if !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Handle), search) {
				delete(qualified, id)
			}
		}
	}

	overlap.AssignRatioRanks(qualified)

	if len(q.Topics) > 0 {
		for id, p := range qualified {
			if p.TopicCount(q.Topics) == 0 {
				delete(qualified, id)
			}
		}
	}

	if q.TopicCount > 0 {
		for id, p := range qualified {
			if p.TopicCount(q.Topics) != q.TopicCount {
				delete(qualified, id)
			}
		}
	}

	list := make([]*model.Profile, 0, len(qualified))
	for _, p := range qualified {
		if len(p.Standings) > 0 {
			list = append(list, p)
		}
	}

	switch {
	case q.Sort != nil:
		sortManual(list, *q.Sort)
	case len(q.Topics) == 1:
		sortSingleTopic(list, q.Topics[0], q.Metric)
	case len(q.Topics) > 1:
		sortMultiTopic(list, q.Topics, q.Metric)
	default:
		sortByCoverage(list, q.TopLimit)
	}
	return list
}

// Qualify returns limit-filtered copies of profiles: each copy keeps only
// standings whose resolved rank under m is <= topLimit, and profiles left
// with no standings are dropped. Aggregation applies the same cutoff, but it
// must be re-applied here so a tightened top limit takes effect without a
// re-fetch.
func Qualify(profiles map[string]*model.Profile, m metric.Metric, topLimit int) map[string]*model.Profile {
	out := make(map[string]*model.Profile, len(profiles))
	for id, p := range profiles {
		standings := make(map[string]model.Standing, len(p.Standings))
		for slug, st := range p.Standings {
			if rank, ok := metric.Resolve(st, m); ok && rank <= topLimit {
				standings[slug] = st
			}
		}
		if len(standings) == 0 {
			continue
		}
		out[id] = &model.Profile{
			ID:        p.ID,
			Handle:    p.Handle,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Standings: standings,
		}
	}
	return out
}

// CountOption reports how many profiles qualify in exactly Count topics.
type CountOption struct {
	Count    int `json:"count"`
	Profiles int `json:"profiles"`
}

// CountOptions computes the occupancy of every topic-count bucket over the
// qualified profiles. With a non-empty selection the buckets run 1..len
// (selection) and counts are restricted to selected slugs; otherwise the
// buckets are whatever counts actually occur, ascending.
func CountOptions(qualified map[string]*model.Profile, selection []string) []CountOption {
	if len(selection) > 0 {
		opts := make([]CountOption, 0, len(selection))
		for i := 1; i <= len(selection); i++ {
			n := 0
			for _, p := range qualified {
				if p.TopicCount(selection) == i {
					n++
				}
			}
			opts = append(opts, CountOption{Count: i, Profiles: n})
		}
		return opts
	}

	byCount := make(map[int]int)
	for _, p := range qualified {
		byCount[len(p.Standings)]++
	}
	opts := make([]CountOption, 0, len(byCount))
	for count, n := range byCount {
		opts = append(opts, CountOption{Count: count, Profiles: n})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Count < opts[j].Count })
	return opts
}

// Paginate slices one page out of an ordered list. Pages are 1-based; out of
// range pages yield an empty, non-nil slice so callers serialize a stable
// JSON array.
func Paginate(list []*model.Profile, page, perPage int) []*model.Profile {
	if page < 1 || perPage < 1 {
		return []*model.Profile{}
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return []*model.Profile{}
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func sortManual(list []*model.Profile, ms ManualSort) {
	value := func(p *model.Profile) float64 {
		st, ok := p.Standings[ms.TopicSlug]
		if !ok {
			return math.Inf(1)
		}
		var v *int
		switch ms.Column {
		case ColumnSignal:
			v = st.RankSignal
		case ColumnNoise:
			v = st.RankNoise
		case ColumnRatio:
			v = st.RatioRank
		default:
			v = st.RankTotal
		}
		if v == nil {
			return math.Inf(1)
		}
		return float64(*v)
	}
	sort.Slice(list, func(i, j int) bool {
		vi, vj := value(list[i]), value(list[j])
		if vi != vj {
			if ms.Direction == Desc {
				return vi > vj
			}
			return vi < vj
		}
		return alphaLess(list[i], list[j])
	})
}

func sortSingleTopic(list []*model.Profile, slug string, m metric.Metric) {
	value := func(p *model.Profile) float64 {
		st, ok := p.Standings[slug]
		if !ok {
			return math.Inf(1)
		}
		rank, ok := metric.Resolve(st, m)
		if !ok {
			return math.Inf(1)
		}
		return float64(rank)
	}
	sort.Slice(list, func(i, j int) bool {
		vi, vj := value(list[i]), value(list[j])
		if vi != vj {
			return vi < vj
		}
		return alphaLess(list[i], list[j])
	})
}

func sortMultiTopic(list []*model.Profile, slugs []string, m metric.Metric) {
	type key struct {
		best float64
		sum  float64
	}
	keys := make(map[*model.Profile]key, len(list))
	for _, p := range list {
		k := key{best: math.Inf(1), sum: math.Inf(1)}
		total, qualifying := 0, 0
		for _, slug := range slugs {
			st, ok := p.Standings[slug]
			if !ok {
				continue
			}
			rank, ok := metric.Resolve(st, m)
			if !ok {
				continue
			}
			k.best = math.Min(k.best, float64(rank))
			total += rank
			qualifying++
		}
		if qualifying > 0 {
			k.sum = float64(total)
		}
		keys[p] = k
	}
	sort.Slice(list, func(i, j int) bool {
		ki, kj := keys[list[i]], keys[list[j]]
		if ki.best != kj.best {
			return ki.best < kj.best
		}
		if ki.sum != kj.sum {
			return ki.sum < kj.sum
		}
		return alphaLess(list[i], list[j])
	})
}

// sortByCoverage orders the no-selection view by a weighted coverage score:
// each standing contributes (topLimit - rank + 1)/topLimit, so a #1 rank is
// worth a full point and a rank at the cutoff is worth 1/topLimit.
func sortByCoverage(list []*model.Profile, topLimit int) {
	scores := make(map[*model.Profile]float64, len(list))
	for _, p := range list {
		scores[p] = CoverageScore(p, topLimit)
	}
	sort.Slice(list, func(i, j int) bool {
		si, sj := scores[list[i]], scores[list[j]]
		if si != sj {
			return si > sj
		}
		return alphaLess(list[i], list[j])
	})
}

// CoverageScore sums the per-topic weight (topLimit - rank + 1)/topLimit
// over every standing with a resolvable total rank.
func CoverageScore(p *model.Profile, topLimit int) float64 {
	if topLimit <= 0 {
		return 0
	}
	score := 0.0
	for _, st := range p.Standings {
		if rank, ok := metric.Resolve(st, metric.RankTotal); ok {
			score += float64(topLimit-rank+1) / float64(topLimit)
		}
	}
	return score
}

func alphaLess(a, b *model.Profile) bool {
	na, nb := a.SortName(), b.SortName()
	if na != nb {
		return na < nb
	}
	return a.ID < b.ID
}
