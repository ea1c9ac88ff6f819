// Package fixtures builds match schedules for a set of teams.
package fixtures

import (
	"errors"
	"time"
)

var (
	ErrNotEnoughTeams = errors.New("at least 2 teams are required")
	ErrInvalidLegs    = errors.New("legs must be 1 or 2")
	ErrInvalidSpacing = errors.New("days between rounds must not be negative")
	ErrStartRequired  = errors.New("start date is required")
)

// Pairing is one generated match. Round is 1-based.
type Pairing struct {
	Round     int
	Team1ID   int
	Team2ID   int
	MatchDate time.Time
}

type Params struct {
	TeamIDs           []int
	Legs              int
	StartDate         time.Time
	DaysBetweenRounds int
}

type Generator interface {
	Generate(params Params) ([]Pairing, error)
	Name() string
}

func (p Params) validate() error {
	switch {
	case len(p.TeamIDs) < 2:
		return ErrNotEnoughTeams
	case p.Legs != 1 && p.Legs != 2:
		return ErrInvalidLegs
	case p.DaysBetweenRounds < 0:
		return ErrInvalidSpacing
	case p.StartDate.IsZero():
		return ErrStartRequired
	}
	return nil
}
