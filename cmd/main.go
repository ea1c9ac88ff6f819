package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Dosada05/sports-event-tracker/config"
	"github.com/Dosada05/sports-event-tracker/db"
	"github.com/Dosada05/sports-event-tracker/db/migrate"
	"github.com/Dosada05/sports-event-tracker/handlers"
	"github.com/Dosada05/sports-event-tracker/live"
	"github.com/Dosada05/sports-event-tracker/metrics"
	"github.com/Dosada05/sports-event-tracker/repositories"
	api "github.com/Dosada05/sports-event-tracker/routes"
	"github.com/Dosada05/sports-event-tracker/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		slog.Error("failed to configure logger", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("db_driver", cfg.Database.Driver))

	// Ожидание сигнала завершения
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
	logger.Info("application exited")
}

// run serves until ctx is cancelled or the server fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.Database.Driver, cfg.DSN(), cfg.Database.ConnectTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	if err := migrate.Migrate(ctx, dbConn, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	tournamentRepo := repositories.NewTournamentRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	matchRepo := repositories.NewMatchRepository(dbConn)
	standingRepo := repositories.NewStandingRepository(dbConn)

	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		teamRepo,
		matchRepo,
		standingRepo,
		appMetrics,
		wsHub,
		logger,
	)
	ledgerService := services.NewLedgerService(
		dbConn,
		matchRepo,
		standingRepo,
		appMetrics,
		wsHub,
		logger,
	)
	dashboardService := services.NewDashboardService(tournamentService, appMetrics, logger)
	logger.Info("Services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Health:     handlers.NewHealthHandler(dbConn, logger),
		Dashboard:  handlers.NewDashboardHandler(dashboardService, logger),
		Tournament: handlers.NewTournamentHandler(tournamentService, logger),
		Match:      handlers.NewMatchHandler(tournamentService, ledgerService, logger),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, logger),
	}, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       registry,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received", slog.Any("cause", context.Cause(ctx)))
	}

	// Stop the hub first so websocket clients get a close frame.
	stopHub()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// newLogger builds the slog logger: JSON for machines, charmbracelet/log for
// humans at a terminal.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	if cfg.LogFormat == "text" {
		handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		return slog.New(handler), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})), nil
}
