package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
)

// probability clamp for log loss
const probEpsilon = 1e-15

// Summarize scores the forecasts of completed games.
func Summarize(games []model.GameRecord) types.Accuracy {
	var brier, logLoss, spreadErr stats.Float64Data
	for i := range games {
		g := &games[i]
		if !g.Played() || g.Forecast == nil {
			continue
		}
		w := 0.0
		switch sd := g.ScoreDiff(); {
		case sd > 0:
			w = 1
		case sd == 0:
			w = 0.5
		}
		p := math.Min(math.Max(g.Forecast.HomeProb, probEpsilon), 1-probEpsilon)
		brier = append(brier, (w-p)*(w-p))
		logLoss = append(logLoss, -(w*math.Log(p) + (1-w)*math.Log(1-p)))
		spreadErr = append(spreadErr, math.Abs(g.Forecast.EloSpread-float64(g.ScoreDiff())))
	}
	acc := types.Accuracy{Games: len(brier)}
	if acc.Games == 0 {
		return acc
	}
	acc.Brier, _ = stats.Mean(brier)
	acc.LogLoss, _ = stats.Mean(logLoss)
	acc.SpreadMAE, _ = stats.Mean(spreadErr)
	return acc
}
