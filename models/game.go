package models

import "time"

type Office struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Game struct {
	ID                int       `json:"id"`
	OfficeID          int       `json:"office_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Icon              *string   `json:"icon,omitempty"`
	MaxPlayersPerTeam int       `json:"max_players_per_team"`
	CreatedAt         time.Time `json:"created_at"`

	Office *Office `json:"office,omitempty"`
}

type Season struct {
	ID        int        `json:"id"`
	GameID    int        `json:"game_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Colour    *string    `json:"colour,omitempty"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
