package services

import "errors"

// Error kinds. Every error returned by the services matches exactly one of
// these with errors.Is.
var (
	// NotFoundError: a referenced tournament, team or match does not exist.
	ErrNotFound = errors.New("requested resource not found")
	// ValidationError: the input breaks a business rule.
	ErrValidationFailed = errors.New("validation failed")
	// PersistenceError: connectivity or constraint failure in the database.
	ErrPersistence = errors.New("persistence failure")
)

// kindError is a sentinel with its own message that unwraps to an error kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrTournamentNotFound = newKindError(ErrNotFound, "tournament not found")
	ErrTeamNotFound       = newKindError(ErrNotFound, "team not found")
	ErrMatchNotFound      = newKindError(ErrNotFound, "match not found")

	ErrInvalidID                  = newKindError(ErrValidationFailed, "identifier must be a positive integer")
	ErrTournamentNameRequired     = newKindError(ErrValidationFailed, "tournament name is required")
	ErrTournamentDatesRequired    = newKindError(ErrValidationFailed, "tournament start and end dates are required")
	ErrTournamentInvalidDateRange = newKindError(ErrValidationFailed, "tournament end date must not be before start date")
	ErrTeamNameRequired           = newKindError(ErrValidationFailed, "team name is required")
	ErrMatchDateRequired          = newKindError(ErrValidationFailed, "match date is required")
	ErrMatchSameTeams             = newKindError(ErrValidationFailed, "teams cannot play against themselves")
	ErrMatchTeamNotInTournament   = newKindError(ErrValidationFailed, "team does not belong to the tournament")
	ErrNegativeScore              = newKindError(ErrValidationFailed, "scores must not be negative")
	ErrMatchNotPlayed             = newKindError(ErrValidationFailed, "match has no recorded result to amend")
	ErrFixturesInvalid            = newKindError(ErrValidationFailed, "cannot generate fixtures")
)
