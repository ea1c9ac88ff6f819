package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlTeamRepository struct {
	db *db.DB
}

func NewTeamRepository(dbx *db.DB) TeamRepository {
	return &sqlTeamRepository{db: dbx}
}

func (r *sqlTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		INSERT INTO teams (tournament_id, name)
		VALUES (?, ?)
		RETURNING team_id`)

	err := executor.QueryRowxContext(ctx, query, team.TournamentID, team.Name).Scan(&team.ID)
	return r.handleTeamError(err)
}

func (r *sqlTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`SELECT team_id, tournament_id, name FROM teams WHERE team_id = ?`)

	var team models.Team
	if err := executor.GetContext(ctx, &team, query, id); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *sqlTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT team_id, tournament_id, name
		FROM teams
		WHERE tournament_id = ?
		ORDER BY team_id`)

	teams := make([]models.Team, 0)
	if err := executor.SelectContext(ctx, &teams, query, tournamentID); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *sqlTeamRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`DELETE FROM teams WHERE tournament_id = ?`)
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}

func (r *sqlTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if kind, _ := db.ClassifyConstraint(err); kind == db.ConstraintForeignKey {
		return ErrTeamTournamentInvalid
	}
	return err
}
