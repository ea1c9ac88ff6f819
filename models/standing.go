package models

// StandingsRow is the per-team aggregate for one tournament. It is maintained
// incrementally by the result ledger and never recomputed from matches.
type StandingsRow struct {
	TournamentID  int `json:"tournament_id" db:"tournament_id"`
	TeamID        int `json:"team_id" db:"team_id"`
	MatchesPlayed int `json:"matches_played" db:"matches_played"`
	Wins          int `json:"wins" db:"wins"`
	Losses        int `json:"losses" db:"losses"`
	Draws         int `json:"draws" db:"draws"`
	Points        int `json:"points" db:"points"`
}

// Balanced reports whether matches played equals wins + losses + draws.
func (s StandingsRow) Balanced() bool {
	return s.MatchesPlayed == s.Wins+s.Losses+s.Draws
}

// StandingView is a standings row joined with the team name. Position is
// 1-based and assigned in ranking order.
type StandingView struct {
	StandingsRow
	TeamName string `json:"team_name" db:"team_name"`
	Position int    `json:"position" db:"-"`
}

// StandingDelta is the change one match result applies to a single team's row.
type StandingDelta struct {
	MatchesPlayed int
	Wins          int
	Losses        int
	Draws         int
	Points        int
}

// Negate returns the delta that undoes d.
func (d StandingDelta) Negate() StandingDelta {
	return StandingDelta{
		MatchesPlayed: -d.MatchesPlayed,
		Wins:          -d.Wins,
		Losses:        -d.Losses,
		Draws:         -d.Draws,
		Points:        -d.Points,
	}
}
