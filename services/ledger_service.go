package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/models"
	"github.com/Dosada05/sports-event-tracker/repositories"
)

// Live event types published per tournament.
const (
	EventMatchResult       = "MATCH_RESULT"
	EventStandingsUpdated  = "STANDINGS_UPDATED"
	EventTournamentDeleted = "TOURNAMENT_DELETED"
)

// ResultReceipt describes a recorded result and the two standings rows it touched.
type ResultReceipt struct {
	Match       models.Match          `json:"match"`
	Outcome     Outcome               `json:"outcome"`
	Standings   []models.StandingsRow `json:"standings"`
	Resubmitted bool                  `json:"resubmitted"`
}

// LedgerService turns reported scores into match results and standings.
type LedgerService interface {
	// SubmitResult records the score of a match and adds the outcome to both
	// teams' standings rows in one transaction. Submitting again for a match
	// that already has a result adds the outcome a second time.
	SubmitResult(ctx context.Context, matchID, team1Score, team2Score int) (*ResultReceipt, error)
	// AmendResult replaces the recorded score of a played match, undoing the
	// previous outcome before applying the new one.
	AmendResult(ctx context.Context, matchID, team1Score, team2Score int) (*ResultReceipt, error)
}

type ledgerService struct {
	db           *db.DB
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	observer     Observer
	publisher    Publisher
	logger       *slog.Logger
}

func NewLedgerService(
	dbx *db.DB,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	observer Observer,
	publisher Publisher,
	logger *slog.Logger,
) LedgerService {
	if observer == nil {
		observer = noopObserver{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerService{
		db:           dbx,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		observer:     observer,
		publisher:    publisher,
		logger:       logger.With(slog.String("service", "ledger")),
	}
}

func (s *ledgerService) SubmitResult(ctx context.Context, matchID, team1Score, team2Score int) (*ResultReceipt, error) {
	if err := validateID(matchID); err != nil {
		return nil, err
	}
	if err := validateScores(team1Score, team2Score); err != nil {
		return nil, err
	}

	var receipt *ResultReceipt
	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return err
		}

		outcome := DecideOutcome(match.Team1ID, match.Team2ID, team1Score, team2Score)
		receipt, err = s.record(ctx, tx, match, team1Score, team2Score, outcome)
		if err != nil {
			return err
		}
		receipt.Resubmitted = match.IsPlayed()
		return nil
	})
	if err != nil {
		return nil, s.fail("submit result", err)
	}

	if receipt.Resubmitted {
		s.observer.ResultResubmitted()
		s.logger.Warn("result submitted for an already played match; standings counted twice",
			slog.Int("match_id", matchID))
	}
	s.observer.ResultRecorded(receipt.Outcome.Kind, false)
	s.logger.Info("match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("team1_score", team1Score),
		slog.Int("team2_score", team2Score),
		slog.String("outcome", string(receipt.Outcome.Kind)),
	)
	s.publish(ctx, receipt)
	return receipt, nil
}

func (s *ledgerService) AmendResult(ctx context.Context, matchID, team1Score, team2Score int) (*ResultReceipt, error) {
	if err := validateID(matchID); err != nil {
		return nil, err
	}
	if err := validateScores(team1Score, team2Score); err != nil {
		return nil, err
	}

	var receipt *ResultReceipt
	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !match.IsPlayed() {
			return fmt.Errorf("%w: match %d", ErrMatchNotPlayed, matchID)
		}

		previous := DecideOutcome(match.Team1ID, match.Team2ID, *match.Team1Score, *match.Team2Score)
		if err := s.standingRepo.RevertDelta(ctx, tx, match.TournamentID, match.Team1ID, previous.Team1Delta); err != nil {
			return err
		}
		if err := s.standingRepo.RevertDelta(ctx, tx, match.TournamentID, match.Team2ID, previous.Team2Delta); err != nil {
			return err
		}

		outcome := DecideOutcome(match.Team1ID, match.Team2ID, team1Score, team2Score)
		receipt, err = s.record(ctx, tx, match, team1Score, team2Score, outcome)
		return err
	})
	if err != nil {
		return nil, s.fail("amend result", err)
	}

	s.observer.ResultRecorded(receipt.Outcome.Kind, true)
	s.logger.Info("match result amended",
		slog.Int("match_id", matchID),
		slog.Int("team1_score", team1Score),
		slog.Int("team2_score", team2Score),
		slog.String("outcome", string(receipt.Outcome.Kind)),
	)
	s.publish(ctx, receipt)
	return receipt, nil
}

// record writes the scores onto the match and applies the outcome to both
// standings rows. It must run inside the caller's transaction.
func (s *ledgerService) record(ctx context.Context, tx *db.Tx, match *models.Match, team1Score, team2Score int, outcome Outcome) (*ResultReceipt, error) {
	if err := s.matchRepo.UpdateResult(ctx, tx, match.ID, team1Score, team2Score, outcome.WinnerID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.ApplyDelta(ctx, tx, match.TournamentID, match.Team1ID, outcome.Team1Delta); err != nil {
		return nil, err
	}
	if err := s.standingRepo.ApplyDelta(ctx, tx, match.TournamentID, match.Team2ID, outcome.Team2Delta); err != nil {
		return nil, err
	}

	rows := make([]models.StandingsRow, 0, 2)
	for _, teamID := range []int{match.Team1ID, match.Team2ID} {
		row, err := s.standingRepo.Get(ctx, tx, match.TournamentID, teamID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	updated := *match
	updated.Team1Score = &team1Score
	updated.Team2Score = &team2Score
	updated.WinnerID = outcome.WinnerID

	return &ResultReceipt{Match: updated, Outcome: outcome, Standings: rows}, nil
}

// publish pushes the result and the refreshed table to live subscribers. It
// runs after commit, so a failure here never affects the recorded result.
func (s *ledgerService) publish(ctx context.Context, receipt *ResultReceipt) {
	tournamentID := receipt.Match.TournamentID
	s.publisher.PublishTournamentEvent(tournamentID, EventMatchResult, receipt)

	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		s.logger.Error("failed to load standings for live update",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.publisher.PublishTournamentEvent(tournamentID, EventStandingsUpdated, standings)
}

func (s *ledgerService) fail(op string, err error) error {
	if errors.Is(err, repositories.ErrStandingNotFound) {
		// A played match without standings rows means the ledger was edited by hand.
		err = fmt.Errorf("%w: %s: standings missing for a played match: %w", ErrPersistence, op, err)
	}
	mapped := mapRepositoryError(op, err)
	s.observer.OperationFailed(op, mapped)
	return mapped
}
