package simdata

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/loader"
	"github.com/okian/leaguelens/pkg/logger"
)

func TestGeneratorDeterminism(t *testing.T) {
	convey.Convey("Given two generators with the same seed", t, func() {
		a := NewGenerator(WithSeed(42), WithTopicCount(3), WithProfileCount(30)).Generate()
		b := NewGenerator(WithSeed(42), WithTopicCount(3), WithProfileCount(30)).Generate()

		convey.Convey("Then the universes match", func() {
			convey.So(a.Topics, convey.ShouldResemble, b.Topics)
			convey.So(a.Profiles, convey.ShouldResemble, b.Profiles)
			convey.So(len(a.Boards), convey.ShouldEqual, len(b.Boards))
			for slug := range a.Boards {
				for _, period := range model.Periods() {
					convey.So(a.Boards[slug][period], convey.ShouldResemble, b.Boards[slug][period])
				}
			}
		})

		convey.Convey("And a different seed diverges", func() {
			c := NewGenerator(WithSeed(43), WithTopicCount(3), WithProfileCount(30)).Generate()
			convey.So(c.Boards["league-01"][model.Period7D], convey.ShouldNotResemble, a.Boards["league-01"][model.Period7D])
		})
	})
}

func TestServerFeedsLoader(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	convey.Convey("Given a synthetic store behind the real loader", t, func() {
		universe := NewGenerator(WithTopicCount(2), WithProfileCount(20)).Generate()
		server := httptest.NewServer(NewServer(universe).Handler())
		defer server.Close()

		client := loader.NewClient(server.URL, string(universe.Source), loader.WithRateLimit(1000, 1000))
		ldr := loader.New(client, universe.Source, loader.WithFetchWorkers(4))

		convey.Convey("When loading the topic catalog", func() {
			topics, err := ldr.LoadTopics(context.Background())

			convey.Convey("Then every synthetic topic is visible", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(topics, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When loading everything", func() {
			snapshots, topics, err := ldr.LoadAll(context.Background(), model.Periods())

			convey.Convey("Then each topic yields one snapshot per period", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(topics, convey.ShouldHaveLength, 2)
				convey.So(snapshots, convey.ShouldHaveLength, 2*len(model.Periods()))
				for _, s := range snapshots {
					convey.So(s.Entries, convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When loading the global document", func() {
			profiles, err := ldr.LoadGlobal(context.Background())

			convey.Convey("Then the profile pool round-trips", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(profiles, convey.ShouldHaveLength, 20)
			})
		})
	})
}
