package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/models"
)

var (
	ErrStandingNotFound   = errors.New("standings row not found")
	ErrStandingUnbalanced = errors.New("standings row would break matches_played = wins + losses + draws")
	ErrStandingRefInvalid = errors.New("standings row tournament or team reference is invalid")
)

type StandingRepository interface {
	ApplyDelta(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, delta models.StandingDelta) error
	RevertDelta(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, delta models.StandingDelta) error
	Get(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.StandingsRow, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.StandingView, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlStandingRepository struct {
	db *db.DB
}

func NewStandingRepository(dbx *db.DB) StandingRepository {
	return &sqlStandingRepository{db: dbx}
}

// ApplyDelta adds delta to the (tournament, team) row, creating the row when
// it does not exist yet. It is a single statement guarded by the primary key,
// so concurrent first results for the same team cannot insert twice.
func (r *sqlStandingRepository) ApplyDelta(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, d models.StandingDelta) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		INSERT INTO points_table (tournament_id, team_id, matches_played, wins, losses, draws, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			matches_played = points_table.matches_played + excluded.matches_played,
			wins = points_table.wins + excluded.wins,
			losses = points_table.losses + excluded.losses,
			draws = points_table.draws + excluded.draws,
			points = points_table.points + excluded.points`)

	_, err := executor.ExecContext(ctx, query,
		tournamentID, teamID, d.MatchesPlayed, d.Wins, d.Losses, d.Draws, d.Points,
	)
	return r.handleStandingError(err)
}

// RevertDelta subtracts delta from an existing row.
func (r *sqlStandingRepository) RevertDelta(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, d models.StandingDelta) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		UPDATE points_table SET
			matches_played = matches_played + ?,
			wins = wins + ?,
			losses = losses + ?,
			draws = draws + ?,
			points = points + ?
		WHERE tournament_id = ? AND team_id = ?`)

	d = d.Negate()

	result, err := executor.ExecContext(ctx, query,
		d.MatchesPlayed, d.Wins, d.Losses, d.Draws, d.Points, tournamentID, teamID,
	)
	if err != nil {
		return r.handleStandingError(err)
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *sqlStandingRepository) Get(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.StandingsRow, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT tournament_id, team_id, matches_played, wins, losses, draws, points
		FROM points_table
		WHERE tournament_id = ? AND team_id = ?`)

	var s models.StandingsRow
	if err := executor.GetContext(ctx, &s, query, tournamentID, teamID); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByTournament returns the standings ranked by points, then wins. Team id
// is the final key so equal rows keep a stable order.
func (r *sqlStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.StandingView, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT pt.tournament_id, pt.team_id, pt.matches_played, pt.wins, pt.losses, pt.draws, pt.points,
		       t.name AS team_name
		FROM points_table pt
		JOIN teams t ON pt.team_id = t.team_id
		WHERE pt.tournament_id = ?
		ORDER BY pt.points DESC, pt.wins DESC, pt.team_id ASC`)

	standings := make([]models.StandingView, 0)
	if err := executor.SelectContext(ctx, &standings, query, tournamentID); err != nil {
		return nil, err
	}
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings, nil
}

func (r *sqlStandingRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`DELETE FROM points_table WHERE tournament_id = ?`)
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}

func (r *sqlStandingRepository) handleStandingError(err error) error {
	if err == nil {
		return nil
	}
	switch kind, _ := db.ClassifyConstraint(err); kind {
	case db.ConstraintCheck:
		return ErrStandingUnbalanced
	case db.ConstraintForeignKey:
		return ErrStandingRefInvalid
	}
	return err
}
