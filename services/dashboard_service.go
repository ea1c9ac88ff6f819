package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/sports-event-tracker/models"
	"golang.org/x/sync/errgroup"
)

const (
	recentMatchesLimit   = 5
	dashboardConcurrency = 4
)

type DashboardService interface {
	GetOverview(ctx context.Context) (*models.DashboardOverview, error)
}

type dashboardService struct {
	store    TournamentService
	observer Observer
	logger   *slog.Logger
}

func NewDashboardService(store TournamentService, observer Observer, logger *slog.Logger) DashboardService {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardService{
		store:    store,
		observer: observer,
		logger:   logger.With(slog.String("service", "dashboard")),
	}
}

func (s *dashboardService) fail(op string, err error) error {
	mapped := mapRepositoryError(op, err)
	s.observer.OperationFailed(op, mapped)
	s.logger.Error("dashboard query failed", slog.String("operation", op), slog.Any("error", mapped))
	return mapped
}

// GetOverview collects every tournament with its counts plus the most recent
// matches. Counts are loaded concurrently; the first failure aborts the rest.
func (s *dashboardService) GetOverview(ctx context.Context) (*models.DashboardOverview, error) {
	tournaments, err := s.store.ListTournaments(ctx)
	if err != nil {
		return nil, s.fail("dashboard overview", err)
	}

	summaries := make([]models.TournamentSummary, len(tournaments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, t := range tournaments {
		g.Go(func() error {
			counts, err := s.store.GetTournamentCounts(gctx, t.ID)
			if err != nil {
				return err
			}
			summaries[i] = models.TournamentSummary{Tournament: t, Counts: counts}
			return nil
		})
	}

	var recent []models.MatchView
	g.Go(func() error {
		matches, err := s.store.ListMatches(gctx, ListMatchesFilter{Limit: recentMatchesLimit})
		if err != nil {
			return err
		}
		recent = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, s.fail("dashboard overview", err)
	}

	overview := &models.DashboardOverview{
		TournamentsTotal: len(tournaments),
		Tournaments:      summaries,
		RecentMatches:    recent,
	}
	if len(tournaments) > 0 {
		latest := tournaments[len(tournaments)-1]
		overview.Latest = &latest
	}
	return overview, nil
}
