package models

// LeaderboardPosition is one row of a leaderboard page. RatingID doubles as
// the pagination cursor: it identifies the underlying player_ratings row in
// the (points DESC, id ASC) ordering.
type LeaderboardPosition struct {
	RatingID int     `json:"rating_id"`
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Image    *string `json:"image,omitempty"`
	Points   int     `json:"points"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
}
