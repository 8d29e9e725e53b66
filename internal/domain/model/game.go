// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// QBStart identifies the quarterback who started for one side of a game.
// Value is the observed game value; nil until the game is played.
type QBStart struct {
	PlayerID string   `json:"player_id"`
	Value    *float64 `json:"value,omitempty"`
}

// GameRecord is one scheduled or completed game.
//
// Week is the chronological ordinal used for ordering and rest; WeekLabel is
// the week as published: a number for the regular season, a round name such as
// "WildCard" or "SuperBowl" for the playoffs.
type GameRecord struct {
	ID          string `json:"game_id"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	WeekLabel   string `json:"week_label"`
	Home        string `json:"home"`
	Away        string `json:"away"`
	Neutral     bool   `json:"neutral"`
	SiteStadium string `json:"site_stadium,omitempty"`

	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`

	// Context, filled by the annotator.
	HomeRested bool    `json:"home_rested"`
	AwayRested bool    `json:"away_rested"`
	HomeTravel float64 `json:"home_travel"`
	AwayTravel float64 `json:"away_travel"`

	HomeQB *QBStart `json:"home_qb,omitempty"`
	AwayQB *QBStart `json:"away_qb,omitempty"`

	// Derived, written once by the engine.
	Forecast    *Forecast `json:"forecast,omitempty"`
	Outcome     *Outcome  `json:"outcome,omitempty"`
	HomeQBTrace *QBTrace  `json:"home_qb_trace,omitempty"`
	AwayQBTrace *QBTrace  `json:"away_qb_trace,omitempty"`
}

// Forecast is the pre-game prediction for a game.
type Forecast struct {
	HomeElo   float64     `json:"home_elo_pre"`
	AwayElo   float64     `json:"away_elo_pre"`
	EloDiff   float64     `json:"elo_diff"`
	EloSpread float64     `json:"elo_spread"`
	HomeProb  float64     `json:"home_prob"`
	AwayProb  float64     `json:"away_prob"`
	QB        *QBForecast `json:"qb,omitempty"`
}

// QBForecast is the quarterback adjusted forecast carried alongside the base one.
type QBForecast struct {
	HomeAdj  float64 `json:"home_adj"`
	AwayAdj  float64 `json:"away_adj"`
	HomeElo  float64 `json:"home_elo_pre"`
	AwayElo  float64 `json:"away_elo_pre"`
	Diff     float64 `json:"diff"`
	Spread   float64 `json:"spread"`
	HomeProb float64 `json:"home_prob"`
	AwayProb float64 `json:"away_prob"`
}

// Outcome is the rating update produced by a played game.
type Outcome struct {
	ScoreDiff     int     `json:"score_diff"`
	ForecastDelta float64 `json:"forecast_delta"`
	MOVMultiplier float64 `json:"mov_multiplier"`
	EloDelta      float64 `json:"elo_delta"`
	HomeEloPost   float64 `json:"home_elo_post"`
	AwayEloPost   float64 `json:"away_elo_post"`
}

// QBTrace records how one side's quarterback value moved in a game.
type QBTrace struct {
	PlayerID   string  `json:"player_id"`
	TeamAvg    float64 `json:"team_avg"`
	OppAdj     float64 `json:"opp_adj"`
	ValuePre   float64 `json:"value_pre"`
	ValuePost  float64 `json:"value_post"`
	Adjustment float64 `json:"adjustment"`
}

// Played reports whether the game has a final score.
func (g *GameRecord) Played() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Label returns the published week, falling back to the ordinal.
func (g *GameRecord) Label() string {
	if g.WeekLabel != "" {
		return g.WeekLabel
	}
	return strconv.Itoa(g.Week)
}

// IsPlayoff reports whether the week label names a playoff round.
func (g *GameRecord) IsPlayoff() bool {
	_, err := strconv.Atoi(strings.TrimSpace(g.Label()))
	return err != nil
}

// ScoreDiff returns home minus away points. It is zero for unplayed games.
func (g *GameRecord) ScoreDiff() int {
	if !g.Played() {
		return 0
	}
	return *g.HomeScore - *g.AwayScore
}

// Validate checks the structural rules every record must satisfy.
func (g *GameRecord) Validate() error {
	switch {
	case g.ID == "":
		return fmt.Errorf("%w: missing game id", ErrMalformedGame)
	case g.Home == "" || g.Away == "":
		return fmt.Errorf("%w: game %s: missing team id", ErrMalformedGame, g.ID)
	case g.Home == g.Away:
		return fmt.Errorf("%w: game %s: %s plays itself", ErrMalformedGame, g.ID, g.Home)
	case (g.HomeScore == nil) != (g.AwayScore == nil):
		return fmt.Errorf("%w: game %s: exactly one score present", ErrMalformedGame, g.ID)
	case g.HomeTravel < 0 || g.AwayTravel < 0:
		return fmt.Errorf("%w: game %s: negative travel", ErrMalformedGame, g.ID)
	case g.Week < 1:
		return fmt.Errorf("%w: game %s: week ordinal %d", ErrMalformedGame, g.ID, g.Week)
	}
	if g.HomeQB != nil && g.HomeQB.PlayerID == "" || g.AwayQB != nil && g.AwayQB.PlayerID == "" {
		return fmt.Errorf("%w: game %s: quarterback without player id", ErrMalformedGame, g.ID)
	}
	return nil
}

// Clone returns a deep copy.
func (g *GameRecord) Clone() GameRecord {
	c := *g
	c.HomeScore = cloneInt(g.HomeScore)
	c.AwayScore = cloneInt(g.AwayScore)
	c.HomeQB = g.HomeQB.clone()
	c.AwayQB = g.AwayQB.clone()
	if g.Forecast != nil {
		f := *g.Forecast
		if f.QB != nil {
			qb := *f.QB
			f.QB = &qb
		}
		c.Forecast = &f
	}
	if g.Outcome != nil {
		o := *g.Outcome
		c.Outcome = &o
	}
	if g.HomeQBTrace != nil {
		t := *g.HomeQBTrace
		c.HomeQBTrace = &t
	}
	if g.AwayQBTrace != nil {
		t := *g.AwayQBTrace
		c.AwayQBTrace = &t
	}
	return c
}

// Before reports whether g sorts strictly before (season, week).
func (g *GameRecord) Before(season, week int) bool {
	if g.Season != season {
		return g.Season < season
	}
	return g.Week < week
}

func (q *QBStart) clone() *QBStart {
	if q == nil {
		return nil
	}
	c := *q
	if q.Value != nil {
		v := *q.Value
		c.Value = &v
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr is a convenience for building scores.
func IntPtr(v int) *int { return &v }

// FloatPtr is a convenience for building quarterback values.
func FloatPtr(v float64) *float64 { return &v }
