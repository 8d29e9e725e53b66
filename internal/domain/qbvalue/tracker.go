// Package qbvalue tracks per-quarterback value and turns it into a team Elo
// adjustment.
package qbvalue

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// Tracker defaults.
const (
	DefaultRegressPct = 0.25
	DefaultQBGames    = 10
	DefaultTeamGames  = 20
	DefaultEloAdj     = 3.3

	// Regression only applies to quarterbacks with an established but not
	// overwhelming history.
	regressMinGames = 10
	regressMaxGames = 100
)

// Store persists quarterback values between games.
type Store interface {
	GetOrInitQB(ctx context.Context, player string, priors DraftPriors) (model.QBRatingState, bool, error)
	CommitQB(ctx context.Context, state model.QBRatingState) error
}

// Side identifies one starting quarterback in a game.
type Side struct {
	Player   string
	Team     string
	Opponent string
	Season   int
}

// Snapshot is a quarterback's pre-game view. Take both sides' snapshots
// before settling either.
type Snapshot struct {
	Side
	State      model.QBRatingState
	New        bool
	Pre        float64
	TeamAvg    float64
	LeagueAvg  float64
	Adjustment float64

	hasLeague bool
}

// Tracker maintains quarterback values and the rolling team and opponent
// averages they are measured against.
type Tracker struct {
	store  Store
	priors DraftPriors
	log    logger.Logger

	regressPct float64
	qbGames    float64
	teamGames  float64
	eloAdj     float64

	mu      sync.RWMutex
	teamAvg map[string]float64
	oppAvg  map[string]float64
}

// NewTracker creates a Tracker that commits into store.
func NewTracker(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:      store,
		priors:     noPriors{},
		log:        logger.Nop(),
		regressPct: DefaultRegressPct,
		qbGames:    DefaultQBGames,
		teamGames:  DefaultTeamGames,
		eloAdj:     DefaultEloAdj,
		teamAvg:    make(map[string]float64),
		oppAvg:     make(map[string]float64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Pregame computes the pre-game value and Elo adjustment without changing
// any state.
func (t *Tracker) Pregame(ctx context.Context, side Side) (Snapshot, error) {
	st, isNew, err := t.store.GetOrInitQB(ctx, side.Player, &missLogger{ctx: ctx, priors: t.priors, log: t.log})
	if err != nil {
		return Snapshot{}, fmt.Errorf("qb %s: %w", side.Player, err)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	league, hasLeague := t.leagueAverage()
	pre := st.Value
	if !isNew && hasLeague && side.Season > st.Season &&
		st.Games >= regressMinGames && st.Games <= regressMaxGames {
		pre = (1-t.regressPct)*pre + t.regressPct*league
	}

	teamAvg, ok := t.teamAvg[side.Team]
	if !ok {
		teamAvg = pre
	}

	return Snapshot{
		Side:       side,
		State:      st,
		New:        isNew,
		Pre:        pre,
		TeamAvg:    teamAvg,
		LeagueAvg:  league,
		Adjustment: t.eloAdj * (pre - teamAvg),
		hasLeague:  hasLeague,
	}, nil
}

// Settle applies an observed game value. A nil observed value means the game
// is unplayed: the trace carries the pre-game value and nothing is committed.
func (t *Tracker) Settle(ctx context.Context, snap Snapshot, observed *float64) (model.QBTrace, error) {
	trace := model.QBTrace{
		PlayerID:   snap.Player,
		TeamAvg:    snap.TeamAvg,
		ValuePre:   snap.Pre,
		ValuePost:  snap.Pre,
		Adjustment: snap.Adjustment,
	}
	if observed == nil {
		return trace, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if opp, ok := t.oppAvg[snap.Opponent]; ok && snap.hasLeague {
		trace.OppAdj = opp - snap.LeagueAvg
	}
	adjusted := *observed - trace.OppAdj
	trace.ValuePost = snap.Pre*(1-1/t.qbGames) + adjusted/t.qbGames

	t.roll(t.teamAvg, snap.Team, adjusted)
	t.roll(t.oppAvg, snap.Opponent, adjusted)

	next := model.QBRatingState{
		PlayerID: snap.Player,
		Value:    trace.ValuePost,
		Games:    snap.State.Games + 1,
		Season:   snap.Season,
		Team:     snap.Team,
	}
	if err := t.store.CommitQB(ctx, next); err != nil {
		return trace, fmt.Errorf("qb %s: %w", snap.Player, err)
	}
	return trace, nil
}

// LeagueAverage is the mean of the opponent averages.
func (t *Tracker) LeagueAverage() (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.leagueAverage()
}

// leagueAverage sums in key order so repeated runs agree to the last bit.
func (t *Tracker) leagueAverage() (float64, bool) {
	if len(t.oppAvg) == 0 {
		return 0, false
	}
	keys := make([]string, 0, len(t.oppAvg))
	for k := range t.oppAvg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := make(stats.Float64Data, 0, len(keys))
	for _, k := range keys {
		data = append(data, t.oppAvg[k])
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, false
	}
	return mean, true
}

func (t *Tracker) roll(avg map[string]float64, key string, v float64) {
	cur, ok := avg[key]
	if !ok {
		avg[key] = v
		return
	}
	avg[key] = cur*(1-1/t.teamGames) + v/t.teamGames
}

// missLogger reports quarterbacks that start without a draft prior.
type missLogger struct {
	ctx    context.Context
	priors DraftPriors
	log    logger.Logger
}

func (m *missLogger) Prior(player string) (float64, bool) {
	v, ok := m.priors.Prior(player)
	if !ok {
		m.log.Debug(m.ctx, "no draft prior, starting at zero", logger.String("player", player))
		metrics.RecordMissingPrior()
	}
	return v, ok
}
