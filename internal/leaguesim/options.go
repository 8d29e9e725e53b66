package leaguesim

// Option configures a Generator.
type Option func(*Generator)

// WithTeams sets the number of clubs. Values below 2 are ignored.
func WithTeams(n int) Option {
	return func(g *Generator) {
		if n >= 2 {
			g.teams = n
		}
	}
}

// WithSeasons sets how many consecutive seasons to play.
func WithSeasons(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.seasons = n
		}
	}
}

// WithStartSeason sets the first season.
func WithStartSeason(season int) Option {
	return func(g *Generator) { g.startSeason = season }
}

// WithWeeks sets the regular season length.
func WithWeeks(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.weeks = n
		}
	}
}

// WithPlayoffs toggles the postseason.
func WithPlayoffs(enabled bool) Option {
	return func(g *Generator) { g.playoffs = enabled }
}

// WithQuarterbacks toggles starting quarterbacks and their values.
func WithQuarterbacks(enabled bool) Option {
	return func(g *Generator) { g.qbs = enabled }
}

// WithUnplayedWeeks leaves the last n weeks of the final season unplayed.
// The final season then has no postseason.
func WithUnplayedWeeks(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.unplayed = n
		}
	}
}

// WithNeutralSite sets the stadium id used for the final.
func WithNeutralSite(stadium string) Option {
	return func(g *Generator) { g.neutral = stadium }
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.seed = seed }
}
