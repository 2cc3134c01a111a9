package models

import "time"

// PlayerRating is the single row of rating state per (player, game) pair.
// Rows are seeded lazily with the configured starting points on first match
// participation and mutated only by match creation or deletion.
type PlayerRating struct {
	ID        int       `json:"id"`
	GameID    int       `json:"game_id"`
	PlayerID  int       `json:"player_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`

	Player *User `json:"player,omitempty"`
}
