package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithInitRating sets the rating given to new and dormant teams.
func WithInitRating(r float64) Option {
	return func(s *MemoryStore) { s.initRating = r }
}

// WithLeagueMean sets the rating teams regress toward between seasons.
func WithLeagueMean(m float64) Option {
	return func(s *MemoryStore) { s.leagueMean = m }
}

// WithRegressPct sets the fraction of the gap to the mean closed each
// off-season.
func WithRegressPct(pct float64) Option {
	return func(s *MemoryStore) {
		if pct >= 0 && pct <= 1 {
			s.regressPct = pct
		}
	}
}
