package qbvalue

import "github.com/okian/gridiron/pkg/logger"

// Option configures a Tracker.
type Option func(*Tracker)

// WithPriors sets the draft priors for quarterbacks with no history.
func WithPriors(p DraftPriors) Option {
	return func(t *Tracker) {
		if p != nil {
			t.priors = p
		}
	}
}

// WithRegressPct sets the off-season pull toward the league average.
func WithRegressPct(pct float64) Option {
	return func(t *Tracker) { t.regressPct = pct }
}

// WithQBGames sets the length of a quarterback's rolling value.
func WithQBGames(n float64) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.qbGames = n
		}
	}
}

// WithTeamGames sets the length of the team and opponent rolling averages.
func WithTeamGames(n float64) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.teamGames = n
		}
	}
}

// WithEloAdj sets the Elo points per unit of value above the team average.
func WithEloAdj(f float64) Option {
	return func(t *Tracker) { t.eloAdj = f }
}

// WithLogger sets the tracker logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}
