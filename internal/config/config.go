// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat and snake_case so they map 1:1 onto GRIDIRON_ env vars.
// - New() returns the documented defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory queue of live game submissions.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the set of remembered live game ids.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingsLimit caps GET /ratings?limit.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`

	// Input files. GamesPath is required by the serve and replay commands;
	// the other two are optional.
	GamesPath    string `koanf:"games_path"`
	StadiumsPath string `koanf:"stadiums_path"`
	DraftPath    string `koanf:"draft_path"`

	// IncludePlayoffs keeps playoff games in the returned log.
	IncludePlayoffs bool `koanf:"include_playoffs"`

	// Team Elo parameters.
	InitElo           float64 `koanf:"init_elo"`
	LeagueMean        float64 `koanf:"league_mean"`
	RegressPct        float64 `koanf:"regress_pct"`
	HomeField         float64 `koanf:"homefield"`
	TravelPerMile     float64 `koanf:"travel_per_mile"`
	RestBonus         float64 `koanf:"rest_bonus"`
	PlayoffMultiplier float64 `koanf:"playoff_multiplier"`
	EloToPoints       float64 `koanf:"elo_to_points"`
	KFactor           float64 `koanf:"k_factor"`

	// Quarterback parameters.
	QBEnabled    bool    `koanf:"qb_enabled"`
	QBRegressPct float64 `koanf:"qb_regress_pct"`
	QBGames      float64 `koanf:"qb_games"`
	TeamGames    float64 `koanf:"team_games"`
	QBEloAdj     float64 `koanf:"qb_elo_adj"`
	BestQBVal    float64 `koanf:"best_qb_val"`
	QBValPerPick float64 `koanf:"qb_val_per_pick"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        1024,
		DedupeSize:       100_000,
		MaxRankingsLimit: 100,
		IncludePlayoffs:  true,

		InitElo:           1300,
		LeagueMean:        1505,
		RegressPct:        0.333,
		HomeField:         48,
		TravelPerMile:     0.004,
		RestBonus:         25,
		PlayoffMultiplier: 1.2,
		EloToPoints:       0.04,
		KFactor:           20,

		QBEnabled:    true,
		QBRegressPct: 0.25,
		QBGames:      10,
		TeamGames:    20,
		QBEloAdj:     3.3,
		BestQBVal:    34.313,
		QBValPerPick: -0.137,
	}
}

// Validate checks the constraints the rating model depends on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: queue_size must not be negative", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.MaxRankingsLimit <= 0:
		return fmt.Errorf("%w: max_rankings_limit must be positive", ErrInvalidConfig)
	case c.RegressPct < 0 || c.RegressPct > 1:
		return fmt.Errorf("%w: regress_pct must be within [0,1]", ErrInvalidConfig)
	case c.QBRegressPct < 0 || c.QBRegressPct > 1:
		return fmt.Errorf("%w: qb_regress_pct must be within [0,1]", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	case c.QBGames <= 0 || c.TeamGames <= 0:
		return fmt.Errorf("%w: qb_games and team_games must be positive", ErrInvalidConfig)
	}
	return nil
}

// RequireGames reports ErrMissingInput when no game log is configured.
func (c *Config) RequireGames() error {
	if c.GamesPath == "" {
		return fmt.Errorf("%w: games_path is not set", ErrMissingInput)
	}
	return nil
}
