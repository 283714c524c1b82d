package metric_test

import (
	"testing"

	metric "github.com/okian/leaguelens/internal/domain/metric"
	model "github.com/okian/leaguelens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveFallbackChain(t *testing.T) {
	Convey("Given a standing carrying only a signal rank", t, func() {
		s := model.Standing{RankSignal: model.IntPtr(5)}

		Convey("When resolving under rankNoise", func() {
			_, ok := metric.Resolve(s, metric.RankNoise)

			Convey("Then the signal rank must NOT leak through; the chain is noise->total->rank", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When resolving under rankSignal", func() {
			v, ok := metric.Resolve(s, metric.RankSignal)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 5)
		})

		Convey("When resolving under rankTotal", func() {
			_, ok := metric.Resolve(s, metric.RankTotal)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a standing with only a generic rank", t, func() {
		s := model.Standing{Rank: model.IntPtr(7)}

		Convey("Then every metric falls back to the generic rank", func() {
			for _, m := range []metric.Metric{metric.RankTotal, metric.RankSignal, metric.RankNoise} {
				v, ok := metric.Resolve(s, m)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 7)
			}
		})
	})

	Convey("Given a standing with a total rank and a generic rank", t, func() {
		s := model.Standing{RankTotal: model.IntPtr(3), Rank: model.IntPtr(9)}

		Convey("Then rankTotal prefers the explicit total", func() {
			v, ok := metric.Resolve(s, metric.RankTotal)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3)
		})

		Convey("Then rankSignal and rankNoise fall back to the total before the generic rank", func() {
			v, ok := metric.Resolve(s, metric.RankSignal)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3)

			v, ok = metric.Resolve(s, metric.RankNoise)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3)
		})
	})

	Convey("Given an empty standing", t, func() {
		s := model.Standing{}

		Convey("Then nothing resolves", func() {
			for _, m := range []metric.Metric{metric.RankTotal, metric.RankSignal, metric.RankNoise} {
				_, ok := metric.Resolve(s, m)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestResolveEntry(t *testing.T) {
	Convey("Given a raw entry with rankTotal absent but a generic rank", t, func() {
		e := model.Entry{Handle: "alice", Rank: model.IntPtr(7)}

		Convey("Then rankTotal resolves through the fallback to 7", func() {
			v, ok := metric.ResolveEntry(e, metric.RankTotal)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7)
		})
	})

	Convey("Given a rich 7d entry", t, func() {
		e := model.Entry{
			Handle:     "bob",
			RankTotal:  model.IntPtr(12),
			RankSignal: model.IntPtr(4),
			RankNoise:  model.IntPtr(40),
		}

		Convey("Then each metric resolves its own field", func() {
			v, _ := metric.ResolveEntry(e, metric.RankTotal)
			So(v, ShouldEqual, 12)
			v, _ = metric.ResolveEntry(e, metric.RankSignal)
			So(v, ShouldEqual, 4)
			v, _ = metric.ResolveEntry(e, metric.RankNoise)
			So(v, ShouldEqual, 40)
		})
	})
}

func TestMetricValid(t *testing.T) {
	Convey("Given the metric enum", t, func() {
		So(metric.RankTotal.Valid(), ShouldBeTrue)
		So(metric.RankSignal.Valid(), ShouldBeTrue)
		So(metric.RankNoise.Valid(), ShouldBeTrue)
		So(metric.Metric("rankKarma").Valid(), ShouldBeFalse)
	})
}
