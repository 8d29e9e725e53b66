package engine

import (
	"context"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
)

// qbPregame snapshots both starters. Quarterback forecasts need a known
// starter on each side; otherwise the game is rated on team Elo alone.
func (e *Engine) qbPregame(ctx context.Context, g *model.GameRecord) (home, away qbvalue.Snapshot, ok bool, err error) {
	if e.qb == nil || g.HomeQB == nil || g.AwayQB == nil {
		return home, away, false, nil
	}
	home, err = e.qb.Pregame(ctx, qbvalue.Side{Player: g.HomeQB.PlayerID, Team: g.Home, Opponent: g.Away, Season: g.Season})
	if err != nil {
		return home, away, false, err
	}
	away, err = e.qb.Pregame(ctx, qbvalue.Side{Player: g.AwayQB.PlayerID, Team: g.Away, Opponent: g.Home, Season: g.Season})
	if err != nil {
		return home, away, false, err
	}
	return home, away, true, nil
}

func (e *Engine) qbSettle(ctx context.Context, snap qbvalue.Snapshot, value *float64) (*model.QBTrace, error) {
	trace, err := e.qb.Settle(ctx, snap, value)
	if err != nil {
		return nil, err
	}
	return &trace, nil
}

// observed is the starter's game value, or nil while the game is unplayed.
func observed(g *model.GameRecord, start *model.QBStart) *float64 {
	if !g.Played() || start == nil {
		return nil
	}
	return start.Value
}
