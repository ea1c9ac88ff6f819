package models

import "time"

// Tournament is a named competition with a date range. It owns its teams,
// matches and standings rows.
type Tournament struct {
	ID        int       `json:"id" db:"tournament_id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
}

// TournamentCounts is the aggregate shown on the dashboard card of a tournament.
type TournamentCounts struct {
	TournamentID     int `json:"tournament_id" db:"tournament_id"`
	TeamCount        int `json:"team_count" db:"team_count"`
	MatchCount       int `json:"match_count" db:"match_count"`
	CompletedMatches int `json:"completed_matches" db:"completed_matches"`
}
