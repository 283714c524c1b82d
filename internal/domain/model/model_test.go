package model_test

import (
	"testing"

	model "github.com/okian/leaguelens/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEntryIdentity(t *testing.T) {
	convey.Convey("Given leaderboard entries with varying identity fields", t, func() {
		convey.Convey("When the platform user id is present", func() {
			e := model.Entry{UserID: "u-1", TwitterID: "tw-1", Handle: "Alice"}

			convey.Convey("Then the user id wins", func() {
				convey.So(e.Identity(), convey.ShouldEqual, "u-1")
			})
		})

		convey.Convey("When only the twitter id and handle are present", func() {
			e := model.Entry{TwitterID: "tw-1", Handle: "Alice"}

			convey.Convey("Then the twitter id wins", func() {
				convey.So(e.Identity(), convey.ShouldEqual, "tw-1")
			})
		})

		convey.Convey("When only the handle is present", func() {
			e := model.Entry{Handle: "Alice"}

			convey.Convey("Then the lower-cased handle is used", func() {
				convey.So(e.Identity(), convey.ShouldEqual, "alice")
			})
		})

		convey.Convey("When no identity field is present", func() {
			e := model.Entry{Name: "Someone", Rank: model.IntPtr(3)}

			convey.Convey("Then the identity is empty", func() {
				convey.So(e.Identity(), convey.ShouldEqual, "")
			})
		})
	})
}

func TestProfileTopics(t *testing.T) {
	convey.Convey("Given a profile ranked in several topics", t, func() {
		p := &model.Profile{
			ID: "u-1",
			Standings: map[string]model.Standing{
				"zeta":  {Rank: model.IntPtr(4)},
				"alpha": {Rank: model.IntPtr(1)},
				"mid":   {Rank: model.IntPtr(9)},
			},
		}

		convey.Convey("Then Topics returns the slugs sorted lexicographically", func() {
			convey.So(p.Topics(), convey.ShouldResemble, []string{"alpha", "mid", "zeta"})
		})

		convey.Convey("Then TopicCount over all topics counts every standing", func() {
			convey.So(p.TopicCount(nil), convey.ShouldEqual, 3)
		})

		convey.Convey("Then TopicCount over a selection counts only selected slugs", func() {
			convey.So(p.TopicCount([]string{"alpha", "missing"}), convey.ShouldEqual, 1)
		})
	})
}

func TestProfileSortName(t *testing.T) {
	convey.Convey("Given profiles with partial display fields", t, func() {
		convey.Convey("When the display name is present it wins, lower-cased", func() {
			p := &model.Profile{ID: "u-1", Handle: "hh", Name: "Bob Builder"}
			convey.So(p.SortName(), convey.ShouldEqual, "bob builder")
		})

		convey.Convey("When only the handle is present it is used", func() {
			p := &model.Profile{ID: "u-1", Handle: "HH"}
			convey.So(p.SortName(), convey.ShouldEqual, "hh")
		})

		convey.Convey("When neither is present the id is used", func() {
			p := &model.Profile{ID: "U-1"}
			convey.So(p.SortName(), convey.ShouldEqual, "u-1")
		})
	})
}

func TestPeriodAndSource(t *testing.T) {
	convey.Convey("Given the period enum", t, func() {
		convey.So(model.Period7D.Valid(), convey.ShouldBeTrue)
		convey.So(model.Period30D.Valid(), convey.ShouldBeTrue)
		convey.So(model.PeriodTournament.Valid(), convey.ShouldBeTrue)
		convey.So(model.Period("90d").Valid(), convey.ShouldBeFalse)
		convey.So(model.Periods(), convey.ShouldHaveLength, 3)
	})

	convey.Convey("Given the source enum", t, func() {
		convey.So(model.SourceXeet.Valid(), convey.ShouldBeTrue)
		convey.So(model.SourceWallchain.Valid(), convey.ShouldBeTrue)
		convey.So(model.SourceGlobal.Valid(), convey.ShouldBeTrue)
		convey.So(model.SourceKind("opensea").Valid(), convey.ShouldBeFalse)
	})
}
