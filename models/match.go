package models

import "time"

type MatchStatus string

const (
	MatchStatusUnplayed MatchStatus = "unplayed"
	MatchStatusPlayed   MatchStatus = "played"
)

type Match struct {
	ID           int       `json:"id" db:"match_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Team1ID      int       `json:"team1_id" db:"team1_id"`
	Team2ID      int       `json:"team2_id" db:"team2_id"`
	MatchDate    time.Time `json:"match_date" db:"match_date"`
	Team1Score   *int      `json:"team1_score" db:"team1_score"`
	Team2Score   *int      `json:"team2_score" db:"team2_score"`
	WinnerID     *int      `json:"winner_id" db:"winner_id"` // nil when unplayed or drawn
}

// Status derives the lifecycle state from the recorded scores.
func (m Match) Status() MatchStatus {
	if m.Team1Score != nil && m.Team2Score != nil {
		return MatchStatusPlayed
	}
	return MatchStatusUnplayed
}

// IsPlayed reports whether a result has been recorded.
func (m Match) IsPlayed() bool {
	return m.Status() == MatchStatusPlayed
}

// MatchView is a match joined with its team and tournament names, as listed
// on the dashboard and the results screen.
type MatchView struct {
	Match
	Team1Name      string `json:"team1_name" db:"team1_name"`
	Team2Name      string `json:"team2_name" db:"team2_name"`
	TournamentName string `json:"tournament_name" db:"tournament_name"`
}
