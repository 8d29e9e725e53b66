package model

// TeamRatingState is the latest committed rating of a team.
// Pending is set when the game that produced it was still unplayed, in which
// case Rating is that game's pre-game rating.
type TeamRatingState struct {
	TeamID  string  `json:"team_id"`
	Rating  float64 `json:"rating"`
	Season  int     `json:"season"`
	Pending bool    `json:"pending"`
}

// QBRatingState is the latest committed value of a quarterback.
type QBRatingState struct {
	PlayerID string  `json:"player_id"`
	Value    float64 `json:"value"`
	Games    int     `json:"games"`
	Season   int     `json:"season"`
	Team     string  `json:"team"`
}
