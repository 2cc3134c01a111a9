package models

import "time"

type MatchSide string

const (
	SideLeft  MatchSide = "left"
	SideRight MatchSide = "right"
)

// Match is immutable once recorded; the only permitted mutation is deletion,
// which must reverse the original point transfer exactly.
type Match struct {
	ID         int       `json:"id"`
	GameID     int       `json:"game_id"`
	SeasonID   *int      `json:"season_id,omitempty"`
	LeftScore  int       `json:"left_score"`
	RightScore int       `json:"right_score"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`

	LeftPlayerIDs  []int `json:"left_player_ids"`
	RightPlayerIDs []int `json:"right_player_ids"`

	// Optional linked data, populated by the service layer.
	LeftPlayers  []User `json:"left_players,omitempty"`
	RightPlayers []User `json:"right_players,omitempty"`
}
