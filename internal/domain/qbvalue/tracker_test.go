package qbvalue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	. "github.com/smartystreets/goconvey/convey"
)

type memStore struct {
	states  map[string]model.QBRatingState
	commits int
	fail    error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]model.QBRatingState)}
}

func (s *memStore) GetOrInitQB(_ context.Context, player string, priors qbvalue.DraftPriors) (model.QBRatingState, bool, error) {
	if st, ok := s.states[player]; ok {
		return st, false, nil
	}
	v, _ := priors.Prior(player)
	return model.QBRatingState{PlayerID: player, Value: v}, true, nil
}

func (s *memStore) CommitQB(_ context.Context, st model.QBRatingState) error {
	if s.fail != nil {
		return s.fail
	}
	s.commits++
	s.states[st.PlayerID] = st
	return nil
}

func play(t *qbvalue.Tracker, player, team, opp string, season int, value float64) (qbvalue.Snapshot, model.QBTrace) {
	ctx := context.Background()
	snap, err := t.Pregame(ctx, qbvalue.Side{Player: player, Team: team, Opponent: opp, Season: season})
	So(err, ShouldBeNil)
	trace, err := t.Settle(ctx, snap, model.FloatPtr(value))
	So(err, ShouldBeNil)
	return snap, trace
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker with a draft table", t, func() {
		store := newMemStore()
		draft := qbvalue.NewDraftTable([]qbvalue.DraftPick{
			{PlayerID: "mahomes", Year: 2017, Pick: 10},
			{PlayerID: "burrow", Year: 2020, Pick: 1},
		}, qbvalue.DefaultBestValue, qbvalue.DefaultPerPick)
		tr := qbvalue.NewTracker(store, qbvalue.WithPriors(draft))
		ctx := context.Background()

		Convey("When a drafted rookie starts", func() {
			snap, trace := play(tr, "burrow", "CIN", "LAC", 2020, 50)

			Convey("Then the prior seeds the value and the adjustment is zero", func() {
				So(snap.New, ShouldBeTrue)
				So(snap.Pre, ShouldAlmostEqual, 34.176, 1e-9)
				So(snap.Adjustment, ShouldEqual, 0)
				So(trace.OppAdj, ShouldEqual, 0)
				So(trace.ValuePost, ShouldAlmostEqual, 34.176*0.9+5, 1e-9)
				So(store.states["burrow"].Games, ShouldEqual, 1)
				So(store.states["burrow"].Team, ShouldEqual, "CIN")
			})

			Convey("And the rookie starts again", func() {
				snap2, trace2 := play(tr, "burrow", "CIN", "LAC", 2020, 60)

				Convey("Then the rookie is measured against the team average", func() {
					first := 34.176*0.9 + 5
					So(snap2.New, ShouldBeFalse)
					So(snap2.TeamAvg, ShouldEqual, 50)
					So(snap2.Adjustment, ShouldAlmostEqual, 3.3*(first-50), 1e-9)
					So(trace2.OppAdj, ShouldEqual, 0)
					So(trace2.ValuePost, ShouldAlmostEqual, first*0.9+6, 1e-9)
					So(store.states["burrow"].Games, ShouldEqual, 2)
				})
			})
		})

		Convey("When an undrafted quarterback starts", func() {
			snap, err := tr.Pregame(ctx, qbvalue.Side{Player: "walkon", Team: "NYJ", Opponent: "BUF", Season: 2020})

			Convey("Then the value starts at zero", func() {
				So(err, ShouldBeNil)
				So(snap.Pre, ShouldEqual, 0)
			})
		})

		Convey("When the game is unplayed", func() {
			snap, err := tr.Pregame(ctx, qbvalue.Side{Player: "burrow", Team: "CIN", Opponent: "LAC", Season: 2020})
			So(err, ShouldBeNil)
			trace, err := tr.Settle(ctx, snap, nil)

			Convey("Then nothing is committed", func() {
				So(err, ShouldBeNil)
				So(trace.ValuePost, ShouldEqual, trace.ValuePre)
				So(store.commits, ShouldEqual, 0)
				_, ok := tr.LeagueAverage()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a veteran's regression window is measured", func() {
			store.states["vet"] = model.QBRatingState{PlayerID: "vet", Value: 100, Games: 9, Season: 2020}
			pending, err := tr.Pregame(ctx, qbvalue.Side{Player: "vet", Team: "GNB", Opponent: "CHI", Season: 2020})
			So(err, ShouldBeNil)
			_, err = tr.Settle(ctx, pending, nil)
			So(err, ShouldBeNil)

			Convey("Then unplayed starts do not count toward it", func() {
				So(store.states["vet"].Games, ShouldEqual, 9)
				play(tr, "x", "KAN", "HOU", 2020, 40)
				snap, err := tr.Pregame(ctx, qbvalue.Side{Player: "vet", Team: "GNB", Opponent: "CHI", Season: 2021})
				So(err, ShouldBeNil)
				So(snap.Pre, ShouldEqual, 100)
			})
		})

		Convey("When opponents have different histories", func() {
			play(tr, "x", "KAN", "HOU", 2020, 40)
			play(tr, "y", "NYJ", "BUF", 2020, 20)
			_, trace := play(tr, "z", "TEN", "HOU", 2020, 50)

			Convey("Then the observed value is corrected for the opponent", func() {
				So(trace.OppAdj, ShouldAlmostEqual, 10, 1e-9)
				So(trace.ValuePost, ShouldAlmostEqual, 40.0/10, 1e-9)
			})
		})

		Convey("When the commit fails", func() {
			store.fail = errors.New("disk full")
			snap, err := tr.Pregame(ctx, qbvalue.Side{Player: "burrow", Team: "CIN", Opponent: "LAC", Season: 2020})
			So(err, ShouldBeNil)
			_, err = tr.Settle(ctx, snap, model.FloatPtr(1))

			So(err, ShouldNotBeNil)
		})
	})
}

func TestTrackerRegression(t *testing.T) {
	Convey("Given a veteran entering a new season", t, func() {
		store := newMemStore()
		tr := qbvalue.NewTracker(store)
		play(tr, "x", "KAN", "HOU", 2020, 40) // league average 40

		side := qbvalue.Side{Player: "vet", Team: "GNB", Opponent: "CHI", Season: 2021}

		Convey("When the veteran has an established history", func() {
			store.states["vet"] = model.QBRatingState{PlayerID: "vet", Value: 100, Games: 12, Season: 2020}
			snap, err := tr.Pregame(context.Background(), side)

			Convey("Then the value regresses a quarter of the way to the league", func() {
				So(err, ShouldBeNil)
				So(snap.LeagueAvg, ShouldEqual, 40)
				So(snap.Pre, ShouldAlmostEqual, 85, 1e-9)
			})
		})

		Convey("When the veteran has too few games", func() {
			store.states["vet"] = model.QBRatingState{PlayerID: "vet", Value: 100, Games: 9, Season: 2020}
			snap, _ := tr.Pregame(context.Background(), side)

			So(snap.Pre, ShouldEqual, 100)
		})

		Convey("When the veteran has too many games", func() {
			store.states["vet"] = model.QBRatingState{PlayerID: "vet", Value: 100, Games: 101, Season: 2020}
			snap, _ := tr.Pregame(context.Background(), side)

			So(snap.Pre, ShouldEqual, 100)
		})

		Convey("When the season has not changed", func() {
			store.states["vet"] = model.QBRatingState{PlayerID: "vet", Value: 100, Games: 12, Season: 2021}
			snap, _ := tr.Pregame(context.Background(), side)

			So(snap.Pre, ShouldEqual, 100)
		})
	})
}

func TestDraftTable(t *testing.T) {
	Convey("Given repeated draft entries", t, func() {
		table := qbvalue.NewDraftTable([]qbvalue.DraftPick{
			{PlayerID: "a", Pick: 3},
			{PlayerID: "a", Pick: 200},
			{PlayerID: "", Pick: 1},
		}, 34.313, -0.137)

		Convey("Then the first entry wins", func() {
			v, ok := table.Prior("a")
			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 34.313-0.411, 1e-9)
			So(table.Len(), ShouldEqual, 1)
			_, ok = table.Prior("b")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGameValue(t *testing.T) {
	Convey("Given a typical stat line", t, func() {
		v := qbvalue.GameValue(qbvalue.StatLine{
			PassAtt: 30, PassCmp: 20, PassYds: 250, PassTD: 2, PassInt: 1,
			Sacked: 2, RushAtt: 3, RushYds: 15,
		})

		So(v, ShouldAlmostEqual, 56.2, 1e-9)
	})

	Convey("Given an empty stat line", t, func() {
		So(qbvalue.GameValue(qbvalue.StatLine{}), ShouldEqual, 0)
	})
}
