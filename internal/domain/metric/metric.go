// Package metric selects the numeric rank value to use for a standing under
// a chosen ranking metric.
//
// Tournament snapshots typically carry only the generic rank while 7d/30d
// snapshots carry the signal/noise/total triple, so every metric degrades
// through a fixed fallback chain instead of failing.
package metric

import "github.com/okian/leaguelens/internal/domain/model"

// Metric names the rank field a caller wants to rank by.
type Metric string

// Supported metrics.
const (
	RankTotal  Metric = "rankTotal"
	RankSignal Metric = "rankSignal"
	RankNoise  Metric = "rankNoise"
)

// Valid reports whether m is a supported metric.
func (m Metric) Valid() bool {
	switch m {
	case RankTotal, RankSignal, RankNoise:
		return true
	}
	return false
}

// Resolve returns the rank value for s under m, applying the fallback
// precedence:
//
//	rankTotal:  rankTotal -> rank
//	rankSignal: rankSignal -> rankTotal -> rank
//	rankNoise:  rankNoise -> rankTotal -> rank
//
// The second return is false when no field in the chain is present; the
// profile then does not qualify for the topic under this metric.
func Resolve(s model.Standing, m Metric) (int, bool) {
	switch m {
	case RankSignal:
		return firstRank(s.RankSignal, s.RankTotal, s.Rank)
	case RankNoise:
		return firstRank(s.RankNoise, s.RankTotal, s.Rank)
	default:
		return firstRank(s.RankTotal, s.Rank)
	}
}

// ResolveEntry resolves a raw entry the same way; used when aggregating
// snapshots where standings have not been built yet.
func ResolveEntry(e model.Entry, m Metric) (int, bool) {
	switch m {
	case RankSignal:
		return firstRank(e.RankSignal, e.RankTotal, e.Rank)
	case RankNoise:
		return firstRank(e.RankNoise, e.RankTotal, e.Rank)
	default:
		return firstRank(e.RankTotal, e.Rank)
	}
}

func firstRank(candidates ...*int) (int, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}
