package elo

// Option configures a Model.
type Option func(*Model)

// WithHomeField sets the Elo bonus for the home side.
func WithHomeField(points float64) Option {
	return func(m *Model) { m.homeField = points }
}

// WithTravelPerMile sets the Elo cost of one mile travelled.
func WithTravelPerMile(rate float64) Option {
	return func(m *Model) { m.travelPerMile = rate }
}

// WithRestBonus sets the Elo bonus for a side coming off a bye.
func WithRestBonus(points float64) Option {
	return func(m *Model) { m.restBonus = points }
}

// WithPlayoffMultiplier sets the factor applied to playoff differentials.
func WithPlayoffMultiplier(factor float64) Option {
	return func(m *Model) {
		if factor > 0 {
			m.playoffMultiplier = factor
		}
	}
}

// WithEloToPoints sets the conversion from Elo differential to point spread.
func WithEloToPoints(rate float64) Option {
	return func(m *Model) { m.eloToPoints = rate }
}

// WithKFactor sets the update step size.
func WithKFactor(k float64) Option {
	return func(m *Model) {
		if k > 0 {
			m.kFactor = k
		}
	}
}
