// Package types contains common types used across the application
package types

// RatingEntry represents one row of the power rankings.
type RatingEntry struct {
	Rank    int     `json:"rank"`
	TeamID  string  `json:"team_id"`
	Rating  float64 `json:"rating"`
	Season  int     `json:"season"`
	Pending bool    `json:"pending"`
}

// QBEntry represents a quarterback's current value.
type QBEntry struct {
	PlayerID string  `json:"player_id"`
	Value    float64 `json:"value"`
	Games    int     `json:"games"`
	Season   int     `json:"season"`
	Team     string  `json:"team"`
}

// Accuracy summarises forecast quality over completed games.
type Accuracy struct {
	Games     int     `json:"games"`
	Brier     float64 `json:"brier"`
	LogLoss   float64 `json:"log_loss"`
	SpreadMAE float64 `json:"spread_mae"`
}

// Matchup describes a hypothetical game to forecast.
type Matchup struct {
	Home    string `json:"home"`
	Away    string `json:"away"`
	Season  int    `json:"season,omitempty"` // zero means the latest season rated
	Neutral bool   `json:"neutral,omitempty"`
	Stadium string `json:"stadium,omitempty"`
	Playoff bool   `json:"playoff,omitempty"`

	HomeRested bool   `json:"home_rested,omitempty"`
	AwayRested bool   `json:"away_rested,omitempty"`
	HomeQB     string `json:"home_qb,omitempty"`
	AwayQB     string `json:"away_qb,omitempty"`
}
