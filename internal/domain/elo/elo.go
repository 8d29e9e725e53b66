// Package elo turns rating differentials into forecasts and game results into
// rating updates.
package elo

import (
	"math"

	"github.com/okian/gridiron/internal/domain/model"
)

// Model defaults.
const (
	DefaultHomeField         = 48.0
	DefaultTravelPerMile     = 0.004
	DefaultRestBonus         = 25.0
	DefaultPlayoffMultiplier = 1.2
	DefaultEloToPoints       = 0.04
	DefaultKFactor           = 20.0

	movScale    = 2.2
	movDiffRate = 0.001
)

// Model holds the forecast and update parameters. It is immutable after New
// and safe for concurrent use.
type Model struct {
	homeField         float64
	travelPerMile     float64
	restBonus         float64
	playoffMultiplier float64
	eloToPoints       float64
	kFactor           float64
}

// Context is everything about a game besides the two ratings that moves the
// forecast.
type Context struct {
	HomeRested bool
	AwayRested bool
	HomeTravel float64
	AwayTravel float64
	Playoff    bool
}

// ContextOf extracts the forecast context of an annotated game.
func ContextOf(g *model.GameRecord) Context {
	return Context{
		HomeRested: g.HomeRested,
		AwayRested: g.AwayRested,
		HomeTravel: g.HomeTravel,
		AwayTravel: g.AwayTravel,
		Playoff:    g.IsPlayoff(),
	}
}

// Prediction is a forecast from the home side's point of view.
type Prediction struct {
	Diff     float64
	Spread   float64
	HomeProb float64
	AwayProb float64
}

// Update is the result of settling a played game.
type Update struct {
	ScoreDiff     int
	ForecastDelta float64
	MOVMultiplier float64
	Delta         float64
	HomePost      float64
	AwayPost      float64
	// Degenerate is set when the margin multiplier was not finite and was
	// replaced by zero.
	Degenerate bool
}

// New creates a Model with default parameters overridden by opts.
func New(opts ...Option) *Model {
	m := &Model{
		homeField:         DefaultHomeField,
		travelPerMile:     DefaultTravelPerMile,
		restBonus:         DefaultRestBonus,
		playoffMultiplier: DefaultPlayoffMultiplier,
		eloToPoints:       DefaultEloToPoints,
		kFactor:           DefaultKFactor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Predict forecasts a game between two pre-game ratings.
func (m *Model) Predict(homeElo, awayElo float64, c Context) Prediction {
	diff := homeElo - awayElo
	diff += m.homeField
	diff += m.travelPerMile * (c.AwayTravel - c.HomeTravel)
	if c.HomeRested {
		diff += m.restBonus
	}
	if c.AwayRested {
		diff -= m.restBonus
	}
	if c.Playoff {
		diff *= m.playoffMultiplier
	}
	return m.fromDiff(diff)
}

// PredictWithQB applies quarterback adjustments on top of a base prediction.
// The playoff multiplier is not applied a second time.
func (m *Model) PredictWithQB(base Prediction, homeAdj, awayAdj float64) Prediction {
	return m.fromDiff(base.Diff + homeAdj - awayAdj)
}

func (m *Model) fromDiff(diff float64) Prediction {
	p := WinProbability(diff)
	return Prediction{
		Diff:     diff,
		Spread:   diff * m.eloToPoints,
		HomeProb: p,
		AwayProb: 1 - p,
	}
}

// Settle converts a final score into post-game ratings. The margin multiplier
// uses the adjusted differential of the prediction.
func (m *Model) Settle(homePre, awayPre float64, p Prediction, homeScore, awayScore int) Update {
	sd := homeScore - awayScore
	fd := result(sd) - p.HomeProb
	mov, ok := MOVMultiplier(sd, p.Diff)
	delta := fd * mov * m.kFactor
	return Update{
		ScoreDiff:     sd,
		ForecastDelta: fd,
		MOVMultiplier: mov,
		Delta:         delta,
		HomePost:      homePre + delta,
		AwayPost:      awayPre - delta,
		Degenerate:    !ok,
	}
}

// WinProbability is the logistic Elo curve on a 400 point scale.
func WinProbability(diff float64) float64 {
	return 1 / (math.Pow(10, diff/-400) + 1)
}

// MOVMultiplier scales an update by the margin of victory, damped by the
// pre-game differential. A non-finite result is reported as (0, false).
func MOVMultiplier(scoreDiff int, diff float64) (float64, bool) {
	mov := math.Log(math.Abs(float64(scoreDiff))+1) * movScale / (diff*movDiffRate + movScale)
	if math.IsNaN(mov) || math.IsInf(mov, 0) {
		return 0, false
	}
	return mov, true
}

func result(scoreDiff int) float64 {
	switch {
	case scoreDiff > 0:
		return 1
	case scoreDiff == 0:
		return 0.5
	default:
		return 0
	}
}
