package models

type Team struct {
	ID           int    `json:"id" db:"team_id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
}
