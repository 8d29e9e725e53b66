package engine_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/domain/annotate"
	"github.com/okian/gridiron/internal/domain/engine"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/internal/leaguesim"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-4

func played(id string, season, week int, home, away string, hs, as int) model.GameRecord {
	return model.GameRecord{
		ID: id, Season: season, Week: week, Home: home, Away: away,
		HomeScore: model.IntPtr(hs), AwayScore: model.IntPtr(as),
	}
}

func scheduled(id string, season, week int, home, away string) model.GameRecord {
	return model.GameRecord{ID: id, Season: season, Week: week, Home: home, Away: away}
}

func TestWalk_OpeningGame(t *testing.T) {
	Convey("Given two teams with no history meeting in week 1 of 2020", t, func() {
		store := repository.NewMemoryStore()
		e := engine.New(store)
		games := []model.GameRecord{played("g1", 2020, 1, "A", "B", 24, 17)}

		out, err := e.Walk(context.Background(), games)

		Convey("Then the forecast reflects home field only", func() {
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 1)
			f := out[0].Forecast
			So(f.HomeElo, ShouldEqual, 1300)
			So(f.AwayElo, ShouldEqual, 1300)
			So(f.EloDiff, ShouldEqual, 48)
			So(f.HomeProb, ShouldAlmostEqual, 0.5687, eps)
			So(f.EloSpread, ShouldAlmostEqual, 1.92, eps)
			So(f.HomeProb+f.AwayProb, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Then the outcome follows the margin formula", func() {
			o := out[0].Outcome
			mov := math.Log(8) * 2.2 / (48*0.001 + 2.2)
			So(o.ScoreDiff, ShouldEqual, 7)
			So(o.ForecastDelta, ShouldAlmostEqual, 0.4314, eps)
			So(o.MOVMultiplier, ShouldAlmostEqual, mov, 1e-12)
			So(o.EloDelta, ShouldAlmostEqual, o.ForecastDelta*mov*20, 1e-12)
			So(o.HomeEloPost, ShouldAlmostEqual, 1300+o.EloDelta, 1e-12)
			So(o.AwayEloPost, ShouldAlmostEqual, 1300-o.EloDelta, 1e-12)
		})

		Convey("Then the store holds the post-game ratings", func() {
			a, _ := store.Team(context.Background(), "A")
			b, _ := store.Team(context.Background(), "B")
			So(a.Rating, ShouldAlmostEqual, out[0].Outcome.HomeEloPost, 1e-12)
			So(b.Rating, ShouldAlmostEqual, out[0].Outcome.AwayEloPost, 1e-12)
			So(a.Season, ShouldEqual, 2020)
		})

		Convey("Then the input log is untouched", func() {
			So(games[0].Forecast, ShouldBeNil)
			So(games[0].Outcome, ShouldBeNil)
		})
	})
}

func TestWalk_Carryover(t *testing.T) {
	ctx := context.Background()

	Convey("Given a team that plays in consecutive seasons", t, func() {
		out, err := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 1, "A", "B", 30, 3),
			played("g2", 2021, 1, "A", "B", 10, 13),
		})

		Convey("Then its rating regresses a third of the way to 1505", func() {
			So(err, ShouldBeNil)
			post := out[0].Outcome.HomeEloPost
			So(out[1].Forecast.HomeElo, ShouldAlmostEqual, post+(1505-post)*0.333, 1e-9)
			awayPost := out[0].Outcome.AwayEloPost
			So(out[1].Forecast.AwayElo, ShouldAlmostEqual, awayPost+(1505-awayPost)*0.333, 1e-9)
		})
	})

	Convey("Given a team that skips a whole season", t, func() {
		out, err := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 1, "A", "B", 30, 3),
			played("g2", 2021, 1, "C", "B", 21, 20),
			played("g3", 2022, 1, "A", "C", 17, 14),
		})

		Convey("Then it returns at the initial rating", func() {
			So(err, ShouldBeNil)
			So(out[2].Forecast.HomeElo, ShouldEqual, 1300)
			So(out[2].Forecast.AwayElo, ShouldNotEqual, 1300)
		})
	})

	Convey("Given a team whose previous game is unplayed", t, func() {
		out, err := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 1, "A", "B", 30, 3),
			scheduled("g2", 2020, 2, "A", "C"),
			scheduled("g3", 2020, 3, "A", "B"),
			scheduled("g4", 2021, 1, "A", "B"),
		})

		Convey("Then the pre-game rating is carried unchanged", func() {
			So(err, ShouldBeNil)
			post := out[0].Outcome.HomeEloPost
			So(out[1].Forecast.HomeElo, ShouldEqual, post)
			So(out[1].Outcome, ShouldBeNil)
			So(out[2].Forecast.HomeElo, ShouldEqual, post)
			So(out[3].Forecast.HomeElo, ShouldEqual, post)
			So(out[3].Forecast.AwayElo, ShouldEqual, out[0].Outcome.AwayEloPost)
		})
	})
}

func TestWalk_Context(t *testing.T) {
	ctx := context.Background()

	Convey("Given otherwise identical games with and without rest", t, func() {
		base := played("g1", 2020, 1, "A", "B", 20, 17)
		rested := base.Clone()
		rested.HomeRested = true

		a, errA := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{base})
		b, errB := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{rested})

		Convey("Then rest strictly increases the home probability", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(b[0].Forecast.HomeProb, ShouldBeGreaterThan, a[0].Forecast.HomeProb)
		})
	})

	Convey("Given a playoff game", t, func() {
		g := played("g1", 2020, 18, "A", "B", 20, 17)
		g.WeekLabel = "WildCard"

		out, err := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{g})

		Convey("Then the differential is scaled before conversion", func() {
			So(err, ShouldBeNil)
			So(out[0].Forecast.EloDiff, ShouldAlmostEqual, 48*1.2, 1e-9)
			So(out[0].Forecast.EloSpread, ShouldAlmostEqual, 48*1.2*0.04, 1e-9)
		})
	})

	Convey("Given playoff games excluded from the output", t, func() {
		store := repository.NewMemoryStore()
		final := played("g2", 2020, 18, "A", "B", 20, 17)
		final.WeekLabel = "SuperBowl"

		out, err := engine.New(store, engine.WithIncludePlayoffs(false)).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 1, "A", "B", 20, 17),
			final,
		})

		Convey("Then they still update ratings", func() {
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 1)
			a, _ := store.Team(ctx, "A")
			So(a.Rating, ShouldBeGreaterThan, out[0].Outcome.HomeEloPost)
		})
	})
}

func TestWalk_Rejections(t *testing.T) {
	ctx := context.Background()

	Convey("Given a log out of order", t, func() {
		store := repository.NewMemoryStore()
		_, err := engine.New(store).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 2, "A", "B", 20, 17),
			played("g2", 2020, 1, "C", "D", 20, 17),
		})

		Convey("Then the walk fails before any rating is computed", func() {
			So(errors.Is(err, engine.ErrOrderingViolation), ShouldBeTrue)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})

	Convey("Given a malformed record late in the log", t, func() {
		store := repository.NewMemoryStore()
		bad := played("g2", 2020, 2, "C", "D", 20, 17)
		bad.AwayScore = nil
		_, err := engine.New(store).Walk(ctx, []model.GameRecord{played("g1", 2020, 1, "A", "B", 20, 17), bad})

		Convey("Then the walk fails and nothing is committed", func() {
			So(errors.Is(err, model.ErrMalformedGame), ShouldBeTrue)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})

	Convey("Given a repeated game id", t, func() {
		_, err := engine.New(repository.NewMemoryStore()).Walk(ctx, []model.GameRecord{
			played("g1", 2020, 1, "A", "B", 20, 17),
			played("g1", 2020, 2, "A", "B", 20, 17),
		})

		So(errors.Is(err, engine.ErrDuplicateGame), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := engine.New(repository.NewMemoryStore()).Walk(cctx, []model.GameRecord{played("g1", 2020, 1, "A", "B", 1, 0)})

		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestAppend(t *testing.T) {
	Convey("Given an engine that walked a season opener", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		e := engine.New(store)
		_, err := e.Walk(ctx, []model.GameRecord{played("g1", 2020, 2, "A", "B", 20, 17)})
		So(err, ShouldBeNil)

		Convey("When the next game arrives", func() {
			g, err := e.Append(ctx, played("g2", 2020, 3, "A", "C", 7, 28))

			Convey("Then it is rated from the stored state", func() {
				So(err, ShouldBeNil)
				a, _ := store.Team(ctx, "A")
				So(g.Forecast.AwayElo, ShouldEqual, 1300)
				So(a.Rating, ShouldAlmostEqual, g.Outcome.HomeEloPost, 1e-12)
				season, week, ok := e.Last()
				So(ok, ShouldBeTrue)
				So(season, ShouldEqual, 2020)
				So(week, ShouldEqual, 3)
			})
		})

		Convey("When a game from an earlier week arrives", func() {
			_, err := e.Append(ctx, played("g0", 2020, 1, "A", "C", 7, 28))

			So(errors.Is(err, engine.ErrOrderingViolation), ShouldBeTrue)
		})

		Convey("When the same week arrives", func() {
			_, err := e.Append(ctx, played("g3", 2020, 2, "C", "D", 7, 28))

			So(err, ShouldBeNil)
		})

		Convey("When a processed game arrives again", func() {
			_, err := e.Append(ctx, played("g1", 2020, 4, "A", "B", 20, 17))

			So(errors.Is(err, engine.ErrDuplicateGame), ShouldBeTrue)
		})
	})
}

func TestWalk_Quarterbacks(t *testing.T) {
	Convey("Given starters on both sides", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		draft := qbvalue.NewDraftTable([]qbvalue.DraftPick{{PlayerID: "qa", Pick: 1}}, qbvalue.DefaultBestValue, qbvalue.DefaultPerPick)
		e := engine.New(store, engine.WithQBTracker(qbvalue.NewTracker(store, qbvalue.WithPriors(draft))))

		g1 := played("g1", 2020, 1, "A", "B", 24, 17)
		g1.HomeQB = &model.QBStart{PlayerID: "qa", Value: model.FloatPtr(80)}
		g1.AwayQB = &model.QBStart{PlayerID: "qb", Value: model.FloatPtr(40)}
		g2 := scheduled("g2", 2020, 2, "A", "B")
		g2.HomeQB = &model.QBStart{PlayerID: "backup"}
		g2.AwayQB = &model.QBStart{PlayerID: "qb"}

		out, err := e.Walk(ctx, []model.GameRecord{g1, g2})

		Convey("Then first starts carry no adjustment", func() {
			So(err, ShouldBeNil)
			qb := out[0].Forecast.QB
			So(qb, ShouldNotBeNil)
			So(qb.HomeAdj, ShouldEqual, 0)
			So(qb.Diff, ShouldEqual, out[0].Forecast.EloDiff)
			So(out[0].HomeQBTrace.ValuePre, ShouldAlmostEqual, 34.176, 1e-9)
			So(out[0].AwayQBTrace.ValuePre, ShouldEqual, 0)
		})

		Convey("Then values are committed for played games", func() {
			st, err := store.QB(ctx, "qa")
			So(err, ShouldBeNil)
			So(st.Value, ShouldAlmostEqual, 34.176*0.9+8, 1e-9)
			So(st.Games, ShouldEqual, 1)
		})

		Convey("Then a backup is measured against the team's average", func() {
			qb := out[1].Forecast.QB
			So(qb.HomeAdj, ShouldAlmostEqual, 3.3*(0-80), 1e-9)
			So(qb.HomeElo, ShouldAlmostEqual, out[1].Forecast.HomeElo+qb.HomeAdj, 1e-9)
			So(qb.HomeProb, ShouldBeLessThan, out[1].Forecast.HomeProb)
			So(out[1].HomeQBTrace.ValuePost, ShouldEqual, out[1].HomeQBTrace.ValuePre)
			_, err := store.QB(ctx, "backup")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestWalk_Properties(t *testing.T) {
	Convey("Given a simulated league", t, func() {
		ctx := context.Background()
		league := leaguesim.New(leaguesim.WithSeed(3), leaguesim.WithUnplayedWeeks(3)).Generate()
		annotate.MarkRest(league.Games)

		run := func() []model.GameRecord {
			store := repository.NewMemoryStore()
			tracker := qbvalue.NewTracker(store, qbvalue.WithPriors(
				qbvalue.NewDraftTable(league.Draft, qbvalue.DefaultBestValue, qbvalue.DefaultPerPick)))
			out, err := engine.New(store, engine.WithQBTracker(tracker)).Walk(ctx, league.Games)
			So(err, ShouldBeNil)
			return out
		}
		first := run()

		Convey("Then replays are identical", func() {
			So(run(), ShouldResemble, first)
		})

		Convey("Then every game is internally consistent", func() {
			for i := range first {
				g := &first[i]
				So(g.Forecast.HomeProb+g.Forecast.AwayProb, ShouldAlmostEqual, 1.0, 1e-12)
				So(g.Outcome != nil, ShouldEqual, g.Played())
				if g.Outcome != nil {
					So(g.Outcome.HomeEloPost-g.Forecast.HomeElo, ShouldAlmostEqual,
						-(g.Outcome.AwayEloPost - g.Forecast.AwayElo), 1e-9)
				}
			}
		})

		Convey("Then forecasts beat a coin flip on average", func() {
			acc := engine.Summarize(first)
			So(acc.Games, ShouldBeGreaterThan, 0)
			So(acc.Brier, ShouldBeLessThan, 0.25)
			So(acc.SpreadMAE, ShouldBeGreaterThan, 0)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given forecasts for two completed games and one scheduled", t, func() {
		a := played("g1", 2020, 1, "A", "B", 24, 17)
		a.Forecast = &model.Forecast{HomeProb: 0.75, EloSpread: 3}
		b := played("g2", 2020, 1, "C", "D", 10, 20)
		b.Forecast = &model.Forecast{HomeProb: 0.5, EloSpread: 0}
		c := scheduled("g3", 2020, 2, "A", "C")
		c.Forecast = &model.Forecast{HomeProb: 0.9}

		acc := engine.Summarize([]model.GameRecord{a, b, c})

		So(acc.Games, ShouldEqual, 2)
		So(acc.Brier, ShouldAlmostEqual, (0.0625+0.25)/2, 1e-12)
		So(acc.SpreadMAE, ShouldAlmostEqual, (4.0+10.0)/2, 1e-12)
		So(acc.LogLoss, ShouldAlmostEqual, (-math.Log(0.75)-math.Log(0.5))/2, 1e-12)
	})

	Convey("Given no completed games", t, func() {
		So(engine.Summarize(nil).Games, ShouldEqual, 0)
	})
}

func TestPreview(t *testing.T) {
	Convey("Given an engine with one rated game", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		e := engine.New(store)
		out, err := e.Walk(ctx, []model.GameRecord{played("g1", 2020, 1, "A", "B", 35, 0)})
		So(err, ShouldBeNil)

		f, err := e.Preview(ctx, scheduled("hypo", 2020, 9, "B", "A"))

		Convey("Then the forecast uses current ratings", func() {
			So(err, ShouldBeNil)
			So(f.HomeElo, ShouldEqual, out[0].Outcome.AwayEloPost)
			So(f.AwayElo, ShouldEqual, out[0].Outcome.HomeEloPost)
			So(f.HomeProb, ShouldBeLessThan, 0.5)
		})

		Convey("Then nothing is committed", func() {
			b, _ := store.Team(ctx, "B")
			So(b.Pending, ShouldBeFalse)
			_, week, _ := e.Last()
			So(week, ShouldEqual, 1)
			_, err := e.Append(ctx, played("g2", 2020, 2, "A", "B", 1, 0))
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a malformed hypothetical game", t, func() {
		_, err := engine.New(repository.NewMemoryStore()).Preview(context.Background(), scheduled("hypo", 2020, 1, "A", "A"))

		So(errors.Is(err, model.ErrMalformedGame), ShouldBeTrue)
	})
}
