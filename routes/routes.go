package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/sports-event-tracker/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 30 * time.Second

// Handlers groups every HTTP handler mounted by SetupRoutes.
type Handlers struct {
	Health     *handlers.HealthHandler
	Dashboard  *handlers.DashboardHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

// Options configures the cross-cutting parts of the router.
type Options struct {
	AllowedOrigins []string
	// Gatherer backs /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Check)
	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// Long-lived connections stay outside the request timeout.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Get("/dashboard", h.Dashboard.Overview)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListHandler)
			r.Post("/", h.Tournament.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByIDHandler)
				r.Delete("/", h.Tournament.DeleteHandler)
				r.Get("/counts", h.Tournament.CountsHandler)

				r.Get("/teams", h.Tournament.ListTeamsHandler)
				r.Post("/teams", h.Tournament.AddTeamHandler)

				r.Get("/matches", h.Match.ListByTournamentHandler)
				r.Post("/matches", h.Match.ScheduleHandler)
				r.Post("/fixtures", h.Match.GenerateFixturesHandler)

				r.Get("/standings", h.Tournament.StandingsHandler)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.ListHandler)
			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", h.Match.GetByIDHandler)
				r.Put("/result", h.Match.SubmitResultHandler)
				r.Patch("/result", h.Match.AmendResultHandler)
			})
		})
	})
}
