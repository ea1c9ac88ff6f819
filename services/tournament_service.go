package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/fixtures"
	"github.com/Dosada05/sports-event-tracker/models"
	"github.com/Dosada05/sports-event-tracker/repositories"
)

type CreateTournamentInput struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AddTeamInput struct {
	Name string `json:"name"`
}

type ScheduleMatchInput struct {
	Team1ID   int       `json:"team1_id"`
	Team2ID   int       `json:"team2_id"`
	MatchDate time.Time `json:"match_date"`
}

// GenerateFixturesInput configures a round-robin schedule. A zero StartDate
// falls back to the tournament's start date; zero Legs means a single leg.
type GenerateFixturesInput struct {
	Legs              int       `json:"legs"`
	StartDate         time.Time `json:"start_date"`
	DaysBetweenRounds int       `json:"days_between_rounds"`
}

// ListMatchesFilter narrows ListMatches. The zero value lists all matches of
// all tournaments.
type ListMatchesFilter struct {
	TournamentID *int
	PendingOnly  bool
	Limit        int
}

// TournamentService is the tournament store: tournaments, teams, scheduled
// matches and the read queries over them.
type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error

	AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)

	ScheduleMatch(ctx context.Context, tournamentID int, input ScheduleMatchInput) (*models.Match, error)
	GenerateFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) ([]models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.MatchView, error)
	ListMatches(ctx context.Context, filter ListMatchesFilter) ([]models.MatchView, error)

	GetStandings(ctx context.Context, tournamentID int) ([]models.StandingView, error)
	GetTournamentCounts(ctx context.Context, tournamentID int) (models.TournamentCounts, error)
}

type tournamentService struct {
	db             *db.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	generator      fixtures.Generator
	observer       Observer
	publisher      Publisher
	logger         *slog.Logger
}

func NewTournamentService(
	dbx *db.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	observer Observer,
	publisher Publisher,
	logger *slog.Logger,
) TournamentService {
	if observer == nil {
		observer = noopObserver{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		db:             dbx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		generator:      fixtures.NewRoundRobinGenerator(),
		observer:       observer,
		publisher:      publisher,
		logger:         logger.With(slog.String("service", "tournament")),
	}
}

func (s *tournamentService) fail(op string, err error) error {
	mapped := mapRepositoryError(op, err)
	if mapped != nil {
		s.observer.OperationFailed(op, mapped)
	}
	return mapped
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	start, end := dateOnly(input.StartDate), dateOnly(input.EndDate)
	if err := validateTournamentInput(input.Name, start, end); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      strings.TrimSpace(input.Name),
		StartDate: start,
		EndDate:   end,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, s.fail("create tournament", err)
	}

	s.logger.Info("tournament created", slog.Int("tournament_id", tournament.ID), slog.String("name", tournament.Name))
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.fail("get tournament", err)
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil)
	if err != nil {
		return nil, s.fail("list tournaments", err)
	}
	return tournaments, nil
}

// DeleteTournament removes the tournament and everything scoped to it in
// dependency order: matches, standings, teams, then the tournament row.
// All four deletes commit together or not at all.
func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := s.matchRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.standingRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.teamRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return s.fail("delete tournament", err)
	}

	s.observer.TournamentDeleted()
	s.publisher.PublishTournamentEvent(id, EventTournamentDeleted, map[string]int{"tournament_id": id})
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error) {
	if err := validateID(tournamentID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, s.fail("add team", err)
	}

	team := &models.Team{TournamentID: tournamentID, Name: name}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, s.fail("add team", err)
	}

	s.logger.Info("team added", slog.Int("tournament_id", tournamentID), slog.Int("team_id", team.ID))
	return team, nil
}

func (s *tournamentService) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	if err := validateID(tournamentID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, s.fail("list teams", err)
	}
	return teams, nil
}

// ScheduleMatch inserts an unplayed match. Both teams must exist, differ and
// belong to the tournament.
func (s *tournamentService) ScheduleMatch(ctx context.Context, tournamentID int, input ScheduleMatchInput) (*models.Match, error) {
	for _, id := range []int{tournamentID, input.Team1ID, input.Team2ID} {
		if err := validateID(id); err != nil {
			return nil, err
		}
	}
	if input.Team1ID == input.Team2ID {
		return nil, ErrMatchSameTeams
	}
	matchDate := dateOnly(input.MatchDate)
	if matchDate.IsZero() {
		return nil, ErrMatchDateRequired
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		MatchDate:    matchDate,
	}

	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID); err != nil {
			return err
		}
		for _, teamID := range []int{input.Team1ID, input.Team2ID} {
			team, err := s.teamRepo.GetByID(ctx, tx, teamID)
			if err != nil {
				return err
			}
			if team.TournamentID != tournamentID {
				return fmt.Errorf("%w: team %d is registered in tournament %d", ErrMatchTeamNotInTournament, teamID, team.TournamentID)
			}
		}
		return s.matchRepo.Create(ctx, tx, match)
	})
	if err != nil {
		return nil, s.fail("schedule match", err)
	}

	s.logger.Info("match scheduled",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", match.ID),
		slog.Int("team1_id", match.Team1ID),
		slog.Int("team2_id", match.Team2ID),
	)
	return match, nil
}

// GenerateFixtures schedules a round-robin between all teams of the
// tournament. Every generated match is inserted in one transaction.
func (s *tournamentService) GenerateFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) ([]models.Match, error) {
	if err := validateID(tournamentID); err != nil {
		return nil, err
	}
	if input.Legs == 0 {
		input.Legs = 1
	}

	var created []models.Match
	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		teams, err := s.teamRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		start := dateOnly(input.StartDate)
		if start.IsZero() {
			start = dateOnly(tournament.StartDate)
		}
		teamIDs := make([]int, len(teams))
		for i, team := range teams {
			teamIDs[i] = team.ID
		}

		pairings, err := s.generator.Generate(fixtures.Params{
			TeamIDs:           teamIDs,
			Legs:              input.Legs,
			StartDate:         start,
			DaysBetweenRounds: input.DaysBetweenRounds,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFixturesInvalid, err)
		}

		created = make([]models.Match, 0, len(pairings))
		for _, p := range pairings {
			match := models.Match{
				TournamentID: tournamentID,
				Team1ID:      p.Team1ID,
				Team2ID:      p.Team2ID,
				MatchDate:    p.MatchDate,
			}
			if err := s.matchRepo.Create(ctx, tx, &match); err != nil {
				return err
			}
			created = append(created, match)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("generate fixtures", err)
	}

	s.logger.Info("fixtures generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("generator", s.generator.Name()),
		slog.Int("matches", len(created)),
	)
	return created, nil
}

func (s *tournamentService) GetMatch(ctx context.Context, id int) (*models.MatchView, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	match, err := s.matchRepo.GetViewByID(ctx, nil, id)
	if err != nil {
		return nil, s.fail("get match", err)
	}
	return match, nil
}

// ListMatches lists matches with team and tournament names, ordered by date
// descending then match id.
func (s *tournamentService) ListMatches(ctx context.Context, filter ListMatchesFilter) ([]models.MatchView, error) {
	if filter.TournamentID != nil {
		if err := validateID(*filter.TournamentID); err != nil {
			return nil, err
		}
	}
	matches, err := s.matchRepo.ListViews(ctx, nil, repositories.ListMatchesFilter{
		TournamentID: filter.TournamentID,
		PendingOnly:  filter.PendingOnly,
		Limit:        filter.Limit,
	})
	if err != nil {
		return nil, s.fail("list matches", err)
	}
	return matches, nil
}

// GetStandings ranks the tournament's standings rows by points, then wins.
func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int) ([]models.StandingView, error) {
	if err := validateID(tournamentID); err != nil {
		return nil, err
	}
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, s.fail("get standings", err)
	}
	return standings, nil
}

func (s *tournamentService) GetTournamentCounts(ctx context.Context, tournamentID int) (models.TournamentCounts, error) {
	if err := validateID(tournamentID); err != nil {
		return models.TournamentCounts{}, err
	}
	counts, err := s.tournamentRepo.Counts(ctx, nil, tournamentID)
	if err != nil {
		return models.TournamentCounts{}, s.fail("get tournament counts", err)
	}
	return counts, nil
}
