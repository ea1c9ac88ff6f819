package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament reference is invalid")
	ErrMatchTeamInvalid       = errors.New("match team reference is invalid")
	ErrMatchConstraint        = errors.New("match violates a table constraint")
)

// ListMatchesFilter narrows ListViews. The zero value lists every match.
type ListMatchesFilter struct {
	TournamentID *int
	PendingOnly  bool
	Limit        int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetViewByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchView, error)
	ListViews(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]models.MatchView, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score int, winnerID *int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type sqlMatchRepository struct {
	db *db.DB
}

func NewMatchRepository(dbx *db.DB) MatchRepository {
	return &sqlMatchRepository{db: dbx}
}

const matchViewSelect = `
	SELECT m.match_id, m.tournament_id, m.team1_id, m.team2_id, m.match_date,
	       m.team1_score, m.team2_score, m.winner_id,
	       t1.name AS team1_name, t2.name AS team2_name, t.name AS tournament_name
	FROM matches m
	JOIN teams t1 ON m.team1_id = t1.team_id
	JOIN teams t2 ON m.team2_id = t2.team_id
	JOIN tournaments t ON m.tournament_id = t.tournament_id`

func (r *sqlMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		INSERT INTO matches (tournament_id, team1_id, team2_id, match_date)
		VALUES (?, ?, ?, ?)
		RETURNING match_id`)

	err := executor.QueryRowxContext(ctx, query, m.TournamentID, m.Team1ID, m.Team2ID, m.MatchDate).Scan(&m.ID)
	return r.handleMatchError(err)
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		SELECT match_id, tournament_id, team1_id, team2_id, match_date, team1_score, team2_score, winner_id
		FROM matches
		WHERE match_id = ?`)

	var m models.Match
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *sqlMatchRepository) GetViewByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchView, error) {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(matchViewSelect + ` WHERE m.match_id = ?`)

	var v models.MatchView
	if err := executor.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListViews returns matches with team and tournament names, newest date first.
func (r *sqlMatchRepository) ListViews(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]models.MatchView, error) {
	executor := pickExecutor(r.db, exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(matchViewSelect)
	queryBuilder.WriteString(" WHERE 1=1")

	args := []interface{}{}
	if filter.TournamentID != nil {
		queryBuilder.WriteString(" AND m.tournament_id = ?")
		args = append(args, *filter.TournamentID)
	}
	if filter.PendingOnly {
		queryBuilder.WriteString(" AND m.team1_score IS NULL")
	}

	queryBuilder.WriteString(" ORDER BY m.match_date DESC, m.match_id")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	matches := make([]models.MatchView, 0)
	if err := executor.SelectContext(ctx, &matches, executor.Rebind(queryBuilder.String()), args...); err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateResult records both scores and the winner (nil on a draw).
func (r *sqlMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score int, winnerID *int) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`
		UPDATE matches
		SET team1_score = ?, team2_score = ?, winner_id = ?
		WHERE match_id = ?`)

	result, err := executor.ExecContext(ctx, query, team1Score, team2Score, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := pickExecutor(r.db, exec)
	query := executor.Rebind(`DELETE FROM matches WHERE tournament_id = ?`)
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}

func (r *sqlMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	kind, constraint := db.ClassifyConstraint(err)
	switch kind {
	case db.ConstraintForeignKey:
		if constraint == "matches_tournament_id_fkey" {
			return ErrMatchTournamentInvalid
		}
		// SQLite does not report which foreign key failed.
		return ErrMatchTeamInvalid
	case db.ConstraintCheck:
		return ErrMatchConstraint
	}
	return err
}
