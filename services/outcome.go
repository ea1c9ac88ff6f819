package services

import "github.com/Dosada05/sports-event-tracker/models"

// Points awarded per match.
const (
	PointsWin  = 2
	PointsDraw = 1
	PointsLoss = 0
)

type OutcomeKind string

const (
	OutcomeTeam1Win OutcomeKind = "team1_win"
	OutcomeTeam2Win OutcomeKind = "team2_win"
	OutcomeDraw     OutcomeKind = "draw"
)

// Outcome is the decision for one reported score and the standings delta it
// applies to each side.
type Outcome struct {
	Kind       OutcomeKind          `json:"kind"`
	WinnerID   *int                 `json:"winner_id"`
	Team1Delta models.StandingDelta `json:"-"`
	Team2Delta models.StandingDelta `json:"-"`
}

var (
	winDelta  = models.StandingDelta{MatchesPlayed: 1, Wins: 1, Points: PointsWin}
	lossDelta = models.StandingDelta{MatchesPlayed: 1, Losses: 1, Points: PointsLoss}
	drawDelta = models.StandingDelta{MatchesPlayed: 1, Draws: 1, Points: PointsDraw}
)

// DecideOutcome compares the scores of team1 and team2.
func DecideOutcome(team1ID, team2ID, team1Score, team2Score int) Outcome {
	switch {
	case team1Score > team2Score:
		winner := team1ID
		return Outcome{Kind: OutcomeTeam1Win, WinnerID: &winner, Team1Delta: winDelta, Team2Delta: lossDelta}
	case team2Score > team1Score:
		winner := team2ID
		return Outcome{Kind: OutcomeTeam2Win, WinnerID: &winner, Team1Delta: lossDelta, Team2Delta: winDelta}
	default:
		return Outcome{Kind: OutcomeDraw, Team1Delta: drawDelta, Team2Delta: drawDelta}
	}
}
