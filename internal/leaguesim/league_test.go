package leaguesim_test

import (
	"testing"

	"github.com/okian/gridiron/internal/leaguesim"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a default generator", t, func() {
		league := leaguesim.New(leaguesim.WithSeed(42)).Generate()

		Convey("Then every game is well formed and ordered", func() {
			So(len(league.Teams), ShouldEqual, 16)
			So(len(league.Games), ShouldBeGreaterThan, 300)
			for i := range league.Games {
				g := &league.Games[i]
				So(g.Validate(), ShouldBeNil)
				if i > 0 {
					So(g.Before(league.Games[i-1].Season, league.Games[i-1].Week), ShouldBeFalse)
				}
			}
		})

		Convey("Then each season ends with a neutral site final", func() {
			finals := 0
			for i := range league.Games {
				g := &league.Games[i]
				if g.WeekLabel == "SuperBowl" {
					finals++
					So(g.Neutral, ShouldBeTrue)
					So(g.SiteStadium, ShouldEqual, "neutral-site")
					So(g.IsPlayoff(), ShouldBeTrue)
				}
			}
			So(finals, ShouldEqual, 3)
		})

		Convey("Then every starter has a draft entry", func() {
			drafted := make(map[string]bool)
			for _, p := range league.Draft {
				drafted[p.PlayerID] = true
			}
			for i := range league.Games {
				g := &league.Games[i]
				So(drafted[g.HomeQB.PlayerID], ShouldBeTrue)
				So(g.HomeQB.Value, ShouldNotBeNil)
			}
		})
	})

	Convey("Given the same seed twice", t, func() {
		a := leaguesim.New(leaguesim.WithSeed(9), leaguesim.WithSeasons(2)).Generate()
		b := leaguesim.New(leaguesim.WithSeed(9), leaguesim.WithSeasons(2)).Generate()

		So(a, ShouldResemble, b)
	})

	Convey("Given an unplayed tail and no quarterbacks", t, func() {
		league := leaguesim.New(
			leaguesim.WithTeams(6),
			leaguesim.WithSeasons(1),
			leaguesim.WithWeeks(6),
			leaguesim.WithUnplayedWeeks(2),
			leaguesim.WithQuarterbacks(false),
		).Generate()

		Convey("Then the last weeks have no scores and there is no postseason", func() {
			for i := range league.Games {
				g := &league.Games[i]
				So(g.HomeQB, ShouldBeNil)
				So(g.IsPlayoff(), ShouldBeFalse)
				So(g.Played(), ShouldEqual, g.Week <= 4)
			}
			So(league.Draft, ShouldBeEmpty)
		})
	})
}
