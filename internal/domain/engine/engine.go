// Package engine walks a chronological game log through the rating store,
// the forecast model and the quarterback tracker.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/domain/elo"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// Engine rates games in order. Calls are serialised; every game processed by
// an Engine must follow the ones before it.
type Engine struct {
	store           repository.Store
	model           *elo.Model
	qb              *qbvalue.Tracker
	log             logger.Logger
	includePlayoffs bool

	mu      sync.Mutex
	started bool
	season  int
	week    int
	seen    map[string]struct{}
}

// New creates an Engine over store. The caller owns the store; use a fresh
// one per run for reproducible results.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		model:           elo.New(),
		log:             logger.Nop(),
		includePlayoffs: true,
		seen:            make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Walk rates every game of an ordered log and returns annotated copies. The
// whole log is validated before any rating is computed; the input is never
// modified.
func (e *Engine) Walk(ctx context.Context, games []model.GameRecord) ([]model.GameRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	runID := uuid.NewString()
	log := e.log.With(logger.String("run_id", runID))
	start := time.Now()

	if err := e.check(games); err != nil {
		log.Error(ctx, "game log rejected", logger.Error(err))
		return nil, err
	}

	out := make([]model.GameRecord, 0, len(games))
	for i := range games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g := games[i].Clone()
		if err := e.process(ctx, log, &g); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		if e.includePlayoffs || !g.IsPlayoff() {
			out = append(out, g)
		}
	}

	metrics.RecordWalk(time.Since(start), len(out))
	metrics.UpdateTracked(e.store.Count(ctx), e.store.QBCount(ctx))
	metrics.UpdateForecastBrier(Summarize(out).Brier)
	log.Info(ctx, "walk complete",
		logger.Int("games", len(games)),
		logger.Int("returned", len(out)),
		logger.Int("teams", e.store.Count(ctx)),
		logger.Duration("took", time.Since(start)))
	return out, nil
}

// Append rates one more game after everything already processed.
func (e *Engine) Append(ctx context.Context, game model.GameRecord) (model.GameRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.check([]model.GameRecord{game}); err != nil {
		return model.GameRecord{}, err
	}
	g := game.Clone()
	if err := e.process(ctx, e.log, &g); err != nil {
		return model.GameRecord{}, fmt.Errorf("game %s: %w", g.ID, err)
	}
	metrics.UpdateTracked(e.store.Count(ctx), e.store.QBCount(ctx))
	return g, nil
}

// Preview forecasts a game from the current state without rating it. The
// game is not checked against the log order.
func (e *Engine) Preview(ctx context.Context, game model.GameRecord) (model.Forecast, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := game.Validate(); err != nil {
		return model.Forecast{}, err
	}
	g := game.Clone()
	if _, err := e.forecast(ctx, &g); err != nil {
		return model.Forecast{}, err
	}
	return *g.Forecast, nil
}

// Last reports the (season, week) of the latest processed game.
func (e *Engine) Last() (season, week int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.season, e.week, e.started
}

// check validates a batch against itself and against what came before. It
// must be called with mu held and changes nothing.
func (e *Engine) check(games []model.GameRecord) error {
	season, week, started := e.season, e.week, e.started
	batch := make(map[string]struct{}, len(games))
	for i := range games {
		g := &games[i]
		if err := g.Validate(); err != nil {
			metrics.RecordInputRejected("malformed")
			return err
		}
		if started && g.Before(season, week) {
			metrics.RecordInputRejected("ordering")
			return fmt.Errorf("%w: game %s (%d/%d) after %d/%d",
				ErrOrderingViolation, g.ID, g.Season, g.Week, season, week)
		}
		_, dup := e.seen[g.ID]
		if _, inBatch := batch[g.ID]; dup || inBatch {
			metrics.RecordInputRejected("duplicate")
			return fmt.Errorf("%w: %s", ErrDuplicateGame, g.ID)
		}
		batch[g.ID] = struct{}{}
		season, week, started = g.Season, g.Week, true
	}
	return nil
}

// pregame is everything known about a game before it is settled.
type pregame struct {
	homePre, awayPre float64
	pred             elo.Prediction
	home, away       qbvalue.Snapshot
	withQB           bool
}

// forecast reads the current state and sets g.Forecast. It changes no
// state.
func (e *Engine) forecast(ctx context.Context, g *model.GameRecord) (pregame, error) {
	var pg pregame
	var err error
	if pg.homePre, _, err = e.store.GetOrInit(ctx, g.Home, g.Season); err != nil {
		return pg, err
	}
	if pg.awayPre, _, err = e.store.GetOrInit(ctx, g.Away, g.Season); err != nil {
		return pg, err
	}

	pg.pred = e.model.Predict(pg.homePre, pg.awayPre, elo.ContextOf(g))
	g.Forecast = &model.Forecast{
		HomeElo:   pg.homePre,
		AwayElo:   pg.awayPre,
		EloDiff:   pg.pred.Diff,
		EloSpread: pg.pred.Spread,
		HomeProb:  pg.pred.HomeProb,
		AwayProb:  pg.pred.AwayProb,
	}

	if pg.home, pg.away, pg.withQB, err = e.qbPregame(ctx, g); err != nil {
		return pg, err
	}
	if pg.withQB {
		qbPred := e.model.PredictWithQB(pg.pred, pg.home.Adjustment, pg.away.Adjustment)
		g.Forecast.QB = &model.QBForecast{
			HomeAdj:  pg.home.Adjustment,
			AwayAdj:  pg.away.Adjustment,
			HomeElo:  pg.homePre + pg.home.Adjustment,
			AwayElo:  pg.awayPre + pg.away.Adjustment,
			Diff:     qbPred.Diff,
			Spread:   qbPred.Spread,
			HomeProb: qbPred.HomeProb,
			AwayProb: qbPred.AwayProb,
		}
	}
	return pg, nil
}

// process rates a single game in place.
func (e *Engine) process(ctx context.Context, log logger.Logger, g *model.GameRecord) error {
	pg, err := e.forecast(ctx, g)
	if err != nil {
		return err
	}
	homePre, awayPre, pred := pg.homePre, pg.awayPre, pg.pred

	if g.Played() {
		u := e.model.Settle(homePre, awayPre, pred, *g.HomeScore, *g.AwayScore)
		if u.Degenerate {
			log.Warn(ctx, "margin multiplier not finite, using zero",
				logger.String("game", g.ID), logger.Float64("diff", pred.Diff))
			metrics.RecordNumericDegenerate()
		}
		if err := e.store.Commit(ctx, g.Home, u.HomePost, g.Season); err != nil {
			return err
		}
		if err := e.store.Commit(ctx, g.Away, u.AwayPost, g.Season); err != nil {
			return err
		}
		g.Outcome = &model.Outcome{
			ScoreDiff:     u.ScoreDiff,
			ForecastDelta: u.ForecastDelta,
			MOVMultiplier: u.MOVMultiplier,
			EloDelta:      u.Delta,
			HomeEloPost:   u.HomePost,
			AwayEloPost:   u.AwayPost,
		}
	} else {
		if err := e.store.CommitPending(ctx, g.Home, homePre, g.Season); err != nil {
			return err
		}
		if err := e.store.CommitPending(ctx, g.Away, awayPre, g.Season); err != nil {
			return err
		}
	}
	metrics.RecordRatingCommits(2)
	metrics.RecordGameProcessed(g.Played())

	if pg.withQB {
		if g.HomeQBTrace, err = e.qbSettle(ctx, pg.home, observed(g, g.HomeQB)); err != nil {
			return err
		}
		if g.AwayQBTrace, err = e.qbSettle(ctx, pg.away, observed(g, g.AwayQB)); err != nil {
			return err
		}
	}

	e.seen[g.ID] = struct{}{}
	e.season, e.week, e.started = g.Season, g.Week, true

	log.Debug(ctx, "game rated",
		logger.String("game", g.ID),
		logger.String("home", g.Home),
		logger.String("away", g.Away),
		logger.Float64("diff", pred.Diff),
		logger.Float64("home_prob", pred.HomeProb),
		logger.Bool("played", g.Played()))
	return nil
}
