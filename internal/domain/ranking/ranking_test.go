package ranking_test

import (
	"testing"

	metric "github.com/okian/leaguelens/internal/domain/metric"
	model "github.com/okian/leaguelens/internal/domain/model"
	ranking "github.com/okian/leaguelens/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func profile(id, name string, ranks map[string]int) *model.Profile {
	standings := make(map[string]model.Standing, len(ranks))
	for slug, r := range ranks {
		standings[slug] = model.Standing{Rank: model.IntPtr(r)}
	}
	return &model.Profile{ID: id, Handle: id, Name: name, Standings: standings}
}

func ids(list []*model.Profile) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestCoverageSort(t *testing.T) {
	Convey("Given u1 (alpha=1, beta=5) and u2 (alpha=2) with topLimit 10", t, func() {
		profiles := map[string]*model.Profile{
			"u1": profile("u1", "User One", map[string]int{"alpha": 1, "beta": 5}),
			"u2": profile("u2", "User Two", map[string]int{"alpha": 2}),
		}
		q := ranking.Query{Metric: metric.RankTotal, TopLimit: 10}

		Convey("When ranking with no topics selected", func() {
			list := ranking.Rank(profiles, q)

			Convey("Then u1's coverage score 1.6 beats u2's 0.9", func() {
				So(ids(list), ShouldResemble, []string{"u1", "u2"})
				So(ranking.CoverageScore(list[0], 10), ShouldAlmostEqual, 1.6, 1e-9)
				So(ranking.CoverageScore(list[1], 10), ShouldAlmostEqual, 0.9, 1e-9)
			})
		})

		Convey("When ranking twice with identical inputs", func() {
			first := ids(ranking.Rank(profiles, q))
			second := ids(ranking.Rank(profiles, q))

			Convey("Then the ordering is byte-identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given profiles with equal coverage scores", t, func() {
		profiles := map[string]*model.Profile{
			"u1": profile("u1", "zeta", map[string]int{"alpha": 3}),
			"u2": profile("u2", "Alpha", map[string]int{"beta": 3}),
		}

		Convey("Then the tie breaks alphabetically, case-insensitive", func() {
			list := ranking.Rank(profiles, ranking.Query{Metric: metric.RankTotal, TopLimit: 10})
			So(ids(list), ShouldResemble, []string{"u2", "u1"})
		})
	})
}

func TestTopicSelectionSorts(t *testing.T) {
	profiles := map[string]*model.Profile{
		"u1": profile("u1", "One", map[string]int{"alpha": 4, "beta": 2}),
		"u2": profile("u2", "Two", map[string]int{"alpha": 1}),
		"u3": profile("u3", "Three", map[string]int{"beta": 1, "gamma": 9}),
	}

	Convey("Given a single selected topic", t, func() {
		q := ranking.Query{Topics: []string{"alpha"}, Metric: metric.RankTotal, TopLimit: 10}

		Convey("Then profiles sort by that topic's rank and non-members are gone", func() {
			list := ranking.Rank(profiles, q)
			So(ids(list), ShouldResemble, []string{"u2", "u1"})
		})
	})

	Convey("Given multiple selected topics", t, func() {
		q := ranking.Query{Topics: []string{"alpha", "beta"}, Metric: metric.RankTotal, TopLimit: 10}

		Convey("Then ordering is best rank first, then sum of ranks", func() {
			// u2 best=1 sum=1; u3 best=1 sum=1 (only beta counts); u1 best=2 sum=6.
			// u2/u3 tie on best and sum, so alphabetical display name decides.
			list := ranking.Rank(profiles, q)
			So(ids(list), ShouldResemble, []string{"u3", "u2", "u1"})
		})
	})

	Convey("Given a topic-count filter over the selection", t, func() {
		q := ranking.Query{
			Topics:     []string{"alpha", "beta"},
			TopicCount: 2,
			Metric:     metric.RankTotal,
			TopLimit:   10,
		}

		Convey("Then only profiles in exactly that many selected topics remain", func() {
			list := ranking.Rank(profiles, q)
			So(ids(list), ShouldResemble, []string{"u1"})
		})
	})

	Convey("Given a topic-count filter with no selection", t, func() {
		q := ranking.Query{TopicCount: 1, Metric: metric.RankTotal, TopLimit: 10}

		Convey("Then the count runs over all topics", func() {
			list := ranking.Rank(profiles, q)
			So(ids(list), ShouldResemble, []string{"u2"})
		})
	})
}

func TestSearchAndLimitFilters(t *testing.T) {
	Convey("Given a mixed population", t, func() {
		profiles := map[string]*model.Profile{
			"u1": profile("u1", "Alice Wonder", map[string]int{"alpha": 1}),
			"u2": profile("u2", "Bob Stone", map[string]int{"alpha": 2}),
		}

		Convey("When searching case-insensitively by name", func() {
			list := ranking.Rank(profiles, ranking.Query{Search: "aLiCe", Metric: metric.RankTotal, TopLimit: 10})
			So(ids(list), ShouldResemble, []string{"u1"})
		})

		Convey("When searching by handle", func() {
			list := ranking.Rank(profiles, ranking.Query{Search: "U2", Metric: metric.RankTotal, TopLimit: 10})
			So(ids(list), ShouldResemble, []string{"u2"})
		})

		Convey("When the search matches nothing", func() {
			list := ranking.Rank(profiles, ranking.Query{Search: "zzz", Metric: metric.RankTotal, TopLimit: 10})
			So(list, ShouldBeEmpty)
		})
	})

	Convey("Given a tightened top limit", t, func() {
		profiles := map[string]*model.Profile{
			"u1": profile("u1", "One", map[string]int{"alpha": 1, "beta": 80}),
			"u2": profile("u2", "Two", map[string]int{"beta": 60}),
		}

		Convey("Then standings beyond the limit are re-filtered without a re-fetch", func() {
			list := ranking.Rank(profiles, ranking.Query{Metric: metric.RankTotal, TopLimit: 50})
			So(ids(list), ShouldResemble, []string{"u1"})
			So(list[0].Standings, ShouldHaveLength, 1)
			So(list[0].Standings, ShouldContainKey, "alpha")
		})

		Convey("Then the input profiles are not mutated", func() {
			_ = ranking.Rank(profiles, ranking.Query{Metric: metric.RankTotal, TopLimit: 50})
			So(profiles["u1"].Standings, ShouldHaveLength, 2)
		})
	})
}

func TestManualSort(t *testing.T) {
	Convey("Given profiles with signal ranks in alpha", t, func() {
		withSignal := func(id string, signal int) *model.Profile {
			return &model.Profile{
				ID: id, Handle: id, Name: id,
				Standings: map[string]model.Standing{
					"alpha": {Rank: model.IntPtr(1), RankSignal: model.IntPtr(signal)},
				},
			}
		}
		profiles := map[string]*model.Profile{
			"u1": withSignal("u1", 30),
			"u2": withSignal("u2", 10),
			"u3": withSignal("u3", 20),
		}

		Convey("When sorting manually by signal ascending", func() {
			q := ranking.Query{
				Metric:   metric.RankTotal,
				TopLimit: 10,
				Sort:     &ranking.ManualSort{TopicSlug: "alpha", Column: ranking.ColumnSignal, Direction: ranking.Asc},
			}
			So(ids(ranking.Rank(profiles, q)), ShouldResemble, []string{"u2", "u3", "u1"})
		})

		Convey("When sorting manually by signal descending", func() {
			q := ranking.Query{
				Metric:   metric.RankTotal,
				TopLimit: 10,
				Sort:     &ranking.ManualSort{TopicSlug: "alpha", Column: ranking.ColumnSignal, Direction: ranking.Desc},
			}
			So(ids(ranking.Rank(profiles, q)), ShouldResemble, []string{"u1", "u3", "u2"})
		})

		Convey("When a profile lacks the sorted column", func() {
			profiles["u4"] = profile("u4", "u4", map[string]int{"alpha": 2})
			q := ranking.Query{
				Metric:   metric.RankTotal,
				TopLimit: 10,
				Sort:     &ranking.ManualSort{TopicSlug: "alpha", Column: ranking.ColumnSignal, Direction: ranking.Asc},
			}

			Convey("Then it sorts last under ascending order", func() {
				got := ids(ranking.Rank(profiles, q))
				So(got[len(got)-1], ShouldEqual, "u4")
			})
		})
	})
}

func TestCountOptions(t *testing.T) {
	Convey("Given qualified profiles", t, func() {
		profiles := map[string]*model.Profile{
			"u1": profile("u1", "One", map[string]int{"alpha": 1, "beta": 2}),
			"u2": profile("u2", "Two", map[string]int{"alpha": 3}),
			"u3": profile("u3", "Three", map[string]int{"beta": 4}),
		}
		qualified := ranking.Qualify(profiles, metric.RankTotal, 10)

		Convey("With no selection the buckets are the observed counts ascending", func() {
			opts := ranking.CountOptions(qualified, nil)
			So(opts, ShouldResemble, []ranking.CountOption{
				{Count: 1, Profiles: 2},
				{Count: 2, Profiles: 1},
			})
		})

		Convey("With a selection the buckets run 1..len(selection)", func() {
			opts := ranking.CountOptions(qualified, []string{"alpha", "beta"})
			So(opts, ShouldResemble, []ranking.CountOption{
				{Count: 1, Profiles: 2},
				{Count: 2, Profiles: 1},
			})
		})
	})
}

func TestPaginate(t *testing.T) {
	Convey("Given an ordered list of five profiles", t, func() {
		list := []*model.Profile{
			profile("u1", "", nil), profile("u2", "", nil), profile("u3", "", nil),
			profile("u4", "", nil), profile("u5", "", nil),
		}

		Convey("Then pages slice the stable order", func() {
			So(ids(ranking.Paginate(list, 1, 2)), ShouldResemble, []string{"u1", "u2"})
			So(ids(ranking.Paginate(list, 2, 2)), ShouldResemble, []string{"u3", "u4"})
			So(ids(ranking.Paginate(list, 3, 2)), ShouldResemble, []string{"u5"})
		})

		Convey("Then out-of-range pages are empty, not an error", func() {
			So(ranking.Paginate(list, 4, 2), ShouldBeEmpty)
			So(ranking.Paginate(list, 0, 2), ShouldBeEmpty)
		})

		Convey("Then empty pages stay non-nil for a stable JSON array", func() {
			So(ranking.Paginate(list, 4, 2), ShouldNotBeNil)
			So(ranking.Paginate(list, 0, 2), ShouldNotBeNil)
			So(ranking.Paginate(nil, 1, 2), ShouldNotBeNil)
		})
	})
}
