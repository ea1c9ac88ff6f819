package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentInUse    = errors.New("tournament is in use (teams/matches/standings exist)")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Tournament, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Counts(ctx context.Context, exec SQLExecutor, id int) (models.TournamentCounts, error)
}

type sqlTournamentRepository struct {
	db *db.DB
}

func NewTournamentRepository(dbx *db.DB) TournamentRepository {
	return &sqlTournamentRepository{db: dbx}
}

func (r *sqlTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		INSERT INTO tournaments (name, start_date, end_date)
		VALUES (?, ?, ?)
		RETURNING tournament_id`)

	err := executor.QueryRowxContext(ctx, query, t.Name, t.StartDate, t.EndDate).Scan(&t.ID)
	return r.handleTournamentError(err)
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT tournament_id, name, start_date, end_date
		FROM tournaments
		WHERE tournament_id = ?`)

	var t models.Tournament
	if err := executor.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *sqlTournamentRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Tournament, error) {
	executor := pickExecutor(r.db, exec)
	query := `
		SELECT tournament_id, name, start_date, end_date
		FROM tournaments
		ORDER BY tournament_id`

	tournaments := make([]models.Tournament, 0)
	if err := executor.SelectContext(ctx, &tournaments, query); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`DELETE FROM tournaments WHERE tournament_id = ?`)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Counts returns the number of teams, matches and completed matches of a tournament.
// A match counts as completed once team1_score is set.
func (r *sqlTournamentRepository) Counts(ctx context.Context, exec SQLExecutor, id int) (models.TournamentCounts, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM teams WHERE tournament_id = ?) AS team_count,
			(SELECT COUNT(*) FROM matches WHERE tournament_id = ?) AS match_count,
			(SELECT COUNT(*) FROM matches WHERE tournament_id = ? AND team1_score IS NOT NULL) AS completed_matches`)

	counts := models.TournamentCounts{}
	if err := executor.GetContext(ctx, &counts, query, id, id, id); err != nil {
		return models.TournamentCounts{}, err
	}
	counts.TournamentID = id
	return counts, nil
}

func (r *sqlTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if kind, _ := db.ClassifyConstraint(err); kind == db.ConstraintForeignKey {
		// Rows in teams, matches or points_table still reference the tournament.
		return ErrTournamentInUse
	}
	return err
}
