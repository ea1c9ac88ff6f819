package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/sports-event-tracker/repositories"
)

// Observer receives ledger and store events for metrics. A nil Observer is valid.
type Observer interface {
	ResultRecorded(outcome OutcomeKind, amended bool)
	ResultResubmitted()
	TournamentDeleted()
	OperationFailed(operation string, err error)
}

// Publisher pushes tournament events to live subscribers. A nil Publisher is valid.
type Publisher interface {
	PublishTournamentEvent(tournamentID int, eventType string, payload interface{})
}

type noopObserver struct{}

func (noopObserver) ResultRecorded(OutcomeKind, bool) {}
func (noopObserver) ResultResubmitted()               {}
func (noopObserver) TournamentDeleted()               {}
func (noopObserver) OperationFailed(string, error)    {}

type noopPublisher struct{}

func (noopPublisher) PublishTournamentEvent(int, string, interface{}) {}

// dateOnly drops the clock part so dates compare and persist as calendar days.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidID, id)
	}
	return nil
}

func validateTournamentInput(name string, start, end time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrTournamentNameRequired
	}
	if start.IsZero() || end.IsZero() {
		return ErrTournamentDatesRequired
	}
	if end.Before(start) {
		return fmt.Errorf("%w: start date (%s), end date (%s)", ErrTournamentInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

func validateScores(team1Score, team2Score int) error {
	if team1Score < 0 || team2Score < 0 {
		return fmt.Errorf("%w: got %d-%d", ErrNegativeScore, team1Score, team2Score)
	}
	return nil
}

// mapRepositoryError translates repository failures into service error kinds.
// Errors that already carry a kind pass through unchanged.
func mapRepositoryError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidationFailed), errors.Is(err, ErrPersistence):
		return err
	case errors.Is(err, repositories.ErrTournamentNotFound), errors.Is(err, repositories.ErrTeamTournamentInvalid):
		return fmt.Errorf("%s: %w", op, ErrTournamentNotFound)
	case errors.Is(err, repositories.ErrTeamNotFound), errors.Is(err, repositories.ErrMatchTeamInvalid):
		return fmt.Errorf("%s: %w", op, ErrTeamNotFound)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%s: %w", op, ErrMatchNotFound)
	case errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return fmt.Errorf("%s: %w", op, ErrTournamentNotFound)
	default:
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
}
