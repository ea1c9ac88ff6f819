package services

import (
	"testing"

	"github.com/Dosada05/sports-event-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideOutcome(t *testing.T) {
	tests := []struct {
		name       string
		s1, s2     int
		kind       OutcomeKind
		winner     int
		team1Delta models.StandingDelta
		team2Delta models.StandingDelta
	}{
		{
			name:       "home win",
			s1:         3,
			s2:         1,
			kind:       OutcomeTeam1Win,
			winner:     10,
			team1Delta: models.StandingDelta{MatchesPlayed: 1, Wins: 1, Points: 2},
			team2Delta: models.StandingDelta{MatchesPlayed: 1, Losses: 1},
		},
		{
			name:       "away win",
			s1:         0,
			s2:         4,
			kind:       OutcomeTeam2Win,
			winner:     20,
			team1Delta: models.StandingDelta{MatchesPlayed: 1, Losses: 1},
			team2Delta: models.StandingDelta{MatchesPlayed: 1, Wins: 1, Points: 2},
		},
		{
			name:       "goalless draw",
			s1:         0,
			s2:         0,
			kind:       OutcomeDraw,
			team1Delta: models.StandingDelta{MatchesPlayed: 1, Draws: 1, Points: 1},
			team2Delta: models.StandingDelta{MatchesPlayed: 1, Draws: 1, Points: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := DecideOutcome(10, 20, tt.s1, tt.s2)
			assert.Equal(t, tt.kind, outcome.Kind)
			if tt.winner == 0 {
				assert.Nil(t, outcome.WinnerID)
			} else {
				require.NotNil(t, outcome.WinnerID)
				assert.Equal(t, tt.winner, *outcome.WinnerID)
			}
			assert.Equal(t, tt.team1Delta, outcome.Team1Delta)
			assert.Equal(t, tt.team2Delta, outcome.Team2Delta)
		})
	}
}

func TestDecideOutcomeDoesNotShareWinner(t *testing.T) {
	a := DecideOutcome(1, 2, 1, 0)
	b := DecideOutcome(3, 4, 1, 0)
	*a.WinnerID = 99
	assert.Equal(t, 3, *b.WinnerID)
}
