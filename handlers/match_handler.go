package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/sports-event-tracker/services"
)

type MatchHandler struct {
	tournamentService services.TournamentService
	ledgerService     services.LedgerService
	responder
}

func NewMatchHandler(ts services.TournamentService, ls services.LedgerService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		tournamentService: ts,
		ledgerService:     ls,
		responder:         newResponder(logger),
	}
}

type scheduleMatchRequest struct {
	Team1ID   int    `json:"team1_id"`
	Team2ID   int    `json:"team2_id"`
	MatchDate string `json:"match_date"`
}

type generateFixturesRequest struct {
	Legs              int    `json:"legs"`
	StartDate         string `json:"start_date"`
	DaysBetweenRounds int    `json:"days_between_rounds"`
}

// Scores are pointers so a missing field is told apart from a zero score.
type resultRequest struct {
	Team1Score *int `json:"team1_score"`
	Team2Score *int `json:"team2_score"`
}

// ScheduleHandler обрабатывает POST /api/tournaments/{tournamentID}/matches
func (h *MatchHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var req scheduleMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	matchDate, err := parseDate("match_date", req.MatchDate)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.ScheduleMatch(r.Context(), tournamentID, services.ScheduleMatchInput{
		Team1ID:   req.Team1ID,
		Team2ID:   req.Team2ID,
		MatchDate: matchDate,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.ok(w, r, http.StatusCreated, jsonResponse{"match": match})
}

// GenerateFixturesHandler обрабатывает POST /api/tournaments/{tournamentID}/fixtures
func (h *MatchHandler) GenerateFixturesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var req generateFixturesRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.GenerateFixtures(r.Context(), tournamentID, services.GenerateFixturesInput{
		Legs:              req.Legs,
		StartDate:         startDate,
		DaysBetweenRounds: req.DaysBetweenRounds,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.ok(w, r, http.StatusCreated, jsonResponse{"matches": matches})
}

// ListByTournamentHandler обрабатывает GET /api/tournaments/{tournamentID}/matches
func (h *MatchHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	filter, err := parseMatchFilter(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	filter.TournamentID = &tournamentID

	h.list(w, r, filter)
}

// ListHandler обрабатывает GET /api/matches
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMatchFilter(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, filter)
}

func (h *MatchHandler) list(w http.ResponseWriter, r *http.Request, filter services.ListMatchesFilter) {
	matches, err := h.tournamentService.ListMatches(r.Context(), filter)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.GetMatch(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.ok(w, r, http.StatusOK, jsonResponse{"match": match})
}

// SubmitResultHandler обрабатывает PUT /api/matches/{matchID}/result
func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	h.handleResult(w, r, h.ledgerService.SubmitResult)
}

// AmendResultHandler обрабатывает PATCH /api/matches/{matchID}/result
func (h *MatchHandler) AmendResultHandler(w http.ResponseWriter, r *http.Request) {
	h.handleResult(w, r, h.ledgerService.AmendResult)
}

type resultFunc func(ctx context.Context, matchID, team1Score, team2Score int) (*services.ResultReceipt, error)

func (h *MatchHandler) handleResult(w http.ResponseWriter, r *http.Request, apply resultFunc) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var req resultRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if req.Team1Score == nil || req.Team2Score == nil {
		h.badRequestResponse(w, r, errors.New("team1_score and team2_score are required"))
		return
	}

	receipt, err := apply(r.Context(), matchID, *req.Team1Score, *req.Team2Score)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.ok(w, r, http.StatusOK, jsonResponse{"result": receipt})
}

func parseMatchFilter(r *http.Request) (services.ListMatchesFilter, error) {
	var filter services.ListMatchesFilter
	query := r.URL.Query()

	if pendingStr := query.Get("pending"); pendingStr != "" {
		pending, err := strconv.ParseBool(pendingStr)
		if err != nil {
			return filter, errors.New("invalid pending query parameter")
		}
		filter.PendingOnly = pending
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return filter, errors.New("invalid limit query parameter")
		}
		filter.Limit = limit
	}
	return filter, nil
}
