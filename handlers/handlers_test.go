package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/sports-event-tracker/db/dbtest"
	"github.com/Dosada05/sports-event-tracker/handlers"
	"github.com/Dosada05/sports-event-tracker/live"
	"github.com/Dosada05/sports-event-tracker/metrics"
	"github.com/Dosada05/sports-event-tracker/repositories"
	"github.com/Dosada05/sports-event-tracker/routes"
	"github.com/Dosada05/sports-event-tracker/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	hub *live.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	dbx := dbtest.OpenSqlite(ctx, t)
	registry := prometheus.NewRegistry()
	appMetrics, err := metrics.New(registry)
	require.NoError(t, err)

	hub := live.NewHub(nil)
	go hub.Run(ctx)

	tournamentRepo := repositories.NewTournamentRepository(dbx)
	teamRepo := repositories.NewTeamRepository(dbx)
	matchRepo := repositories.NewMatchRepository(dbx)
	standingRepo := repositories.NewStandingRepository(dbx)

	store := services.NewTournamentService(dbx, tournamentRepo, teamRepo, matchRepo, standingRepo, appMetrics, hub, nil)
	ledger := services.NewLedgerService(dbx, matchRepo, standingRepo, appMetrics, hub, nil)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Health:     handlers.NewHealthHandler(dbx, nil),
		Dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(store, nil, nil), nil),
		Tournament: handlers.NewTournamentHandler(store, nil),
		Match:      handlers.NewMatchHandler(store, ledger, nil),
		WebSocket:  handlers.NewWebSocketHandler(hub, store, nil),
	}, routes.Options{
		AllowedOrigins: []string{"*"},
		Gatherer:       registry,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type idBody struct {
	ID int `json:"id"`
}

type standingBody struct {
	TeamName      string `json:"team_name"`
	Position      int    `json:"position"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	Points        int    `json:"points"`
}

func (s *testServer) seed(t *testing.T) (tournamentID, redID, blueID, matchID int) {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/tournaments",
		`{"name":"Cup","start_date":"2024-05-01","end_date":"2024-05-31"}`)
	require.Equal(t, http.StatusCreated, status)
	tournamentID = decode[idBody](t, body["tournament"]).ID

	status, body = s.do(t, http.MethodPost, "/api/tournaments/"+itoa(tournamentID)+"/teams", `{"name":"Red"}`)
	require.Equal(t, http.StatusCreated, status)
	redID = decode[idBody](t, body["team"]).ID

	status, body = s.do(t, http.MethodPost, "/api/tournaments/"+itoa(tournamentID)+"/teams", `{"name":"Blue"}`)
	require.Equal(t, http.StatusCreated, status)
	blueID = decode[idBody](t, body["team"]).ID

	status, body = s.do(t, http.MethodPost, "/api/tournaments/"+itoa(tournamentID)+"/matches",
		`{"team1_id":`+itoa(redID)+`,"team2_id":`+itoa(blueID)+`,"match_date":"2024-05-10"}`)
	require.Equal(t, http.StatusCreated, status)
	matchID = decode[idBody](t, body["match"]).ID
	return tournamentID, redID, blueID, matchID
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

func TestTournamentLifecycle(t *testing.T) {
	s := newTestServer(t)
	tournamentID, _, _, matchID := s.seed(t)
	base := "/api/tournaments/" + itoa(tournamentID)

	status, body := s.do(t, http.MethodGet, "/api/matches?pending=true", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]idBody](t, body["matches"]), 1)

	status, body = s.do(t, http.MethodPut, "/api/matches/"+itoa(matchID)+"/result", `{"team1_score":3,"team2_score":1}`)
	require.Equal(t, http.StatusOK, status)
	result := decode[struct {
		Outcome struct {
			Kind string `json:"kind"`
		} `json:"outcome"`
	}](t, body["result"])
	assert.Equal(t, "team1_win", result.Outcome.Kind)

	status, body = s.do(t, http.MethodGet, base+"/standings", "")
	require.Equal(t, http.StatusOK, status)
	table := decode[[]standingBody](t, body["standings"])
	assert.Equal(t, []standingBody{
		{TeamName: "Red", Position: 1, MatchesPlayed: 1, Wins: 1, Points: 2},
		{TeamName: "Blue", Position: 2, MatchesPlayed: 1, Losses: 1},
	}, table)

	status, body = s.do(t, http.MethodPatch, "/api/matches/"+itoa(matchID)+"/result", `{"team1_score":2,"team2_score":2}`)
	require.Equal(t, http.StatusOK, status)
	status, body = s.do(t, http.MethodGet, base+"/standings", "")
	require.Equal(t, http.StatusOK, status)
	table = decode[[]standingBody](t, body["standings"])
	for _, row := range table {
		assert.Equal(t, 1, row.Draws, row.TeamName)
		assert.Equal(t, 1, row.Points, row.TeamName)
		assert.Equal(t, 1, row.MatchesPlayed, row.TeamName)
	}

	status, body = s.do(t, http.MethodGet, base+"/counts", "")
	require.Equal(t, http.StatusOK, status)
	counts := decode[map[string]int](t, body["counts"])
	assert.Equal(t, 2, counts["team_count"])
	assert.Equal(t, 1, counts["match_count"])
	assert.Equal(t, 1, counts["completed_matches"])

	status, body = s.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1", string(body["tournaments_total"]))

	status, body = s.do(t, http.MethodGet, "/api/matches/"+itoa(matchID), "")
	require.Equal(t, http.StatusOK, status)
	match := decode[map[string]interface{}](t, body["match"])
	assert.Equal(t, "Red", match["team1_name"])
	assert.Equal(t, "Cup", match["tournament_name"])

	status, _ = s.do(t, http.MethodDelete, base, "")
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(t, http.MethodGet, base+"/teams", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]idBody](t, body["teams"]))
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	tournamentID, redID, _, matchID := s.seed(t)
	base := "/api/tournaments/" + itoa(tournamentID)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed date", http.MethodPost, "/api/tournaments", `{"name":"Cup","start_date":"01/05/2024","end_date":"2024-05-31"}`, http.StatusBadRequest},
		{"end before start", http.MethodPost, "/api/tournaments", `{"name":"Cup","start_date":"2024-05-31","end_date":"2024-05-01"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/tournaments", `{"title":"Cup"}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, base + "/teams", "", http.StatusBadRequest},
		{"blank team name", http.MethodPost, base + "/teams", `{"name":"  "}`, http.StatusBadRequest},
		{"same teams", http.MethodPost, base + "/matches", `{"team1_id":` + itoa(redID) + `,"team2_id":` + itoa(redID) + `,"match_date":"2024-05-10"}`, http.StatusBadRequest},
		{"missing score", http.MethodPut, "/api/matches/" + itoa(matchID) + "/result", `{"team1_score":1}`, http.StatusBadRequest},
		{"negative score", http.MethodPut, "/api/matches/" + itoa(matchID) + "/result", `{"team1_score":-1,"team2_score":0}`, http.StatusBadRequest},
		{"amend unplayed", http.MethodPatch, "/api/matches/" + itoa(matchID) + "/result", `{"team1_score":1,"team2_score":0}`, http.StatusBadRequest},
		{"unknown match", http.MethodPut, "/api/matches/9999/result", `{"team1_score":1,"team2_score":0}`, http.StatusNotFound},
		{"unknown tournament", http.MethodGet, "/api/tournaments/9999", "", http.StatusNotFound},
		{"non numeric id", http.MethodGet, "/api/tournaments/abc", "", http.StatusBadRequest},
		{"bad pending flag", http.MethodGet, "/api/matches?pending=maybe", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, "error")
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	_, _, _, matchID := s.seed(t)

	status, body := s.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"ok"`, string(body["status"]))

	status, _ = s.do(t, http.MethodPut, "/api/matches/"+itoa(matchID)+"/result", `{"team1_score":0,"team2_score":0}`)
	require.Equal(t, http.StatusOK, status)

	resp, err := s.Client().Get(s.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `sports_event_tracker_ledger_results_recorded_total{amended="false",outcome="draw"} 1`)
}

func TestLiveFeedReceivesResults(t *testing.T) {
	s := newTestServer(t)
	tournamentID, _, _, matchID := s.seed(t)

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/tournaments/" + itoa(tournamentID)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	room := live.RoomForTournament(tournamentID)
	require.Eventually(t, func() bool { return s.hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	status, _ := s.do(t, http.MethodPut, "/api/matches/"+itoa(matchID)+"/result", `{"team1_score":3,"team2_score":1}`)
	require.Equal(t, http.StatusOK, status)

	var types []string
	for len(types) < 2 {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg live.Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, room, msg.RoomID)
		types = append(types, msg.Type)
	}
	assert.Equal(t, []string{services.EventMatchResult, services.EventStandingsUpdated}, types)
}

func TestLiveFeedUnknownTournament(t *testing.T) {
	s := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/tournaments/9999"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateFixtures(t *testing.T) {
	s := newTestServer(t)
	tournamentID, _, _, _ := s.seed(t)
	base := "/api/tournaments/" + itoa(tournamentID)

	status, body := s.do(t, http.MethodPost, base+"/fixtures", `{"legs":2,"start_date":"2024-05-04","days_between_rounds":7}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, decode[[]idBody](t, body["matches"]), 2)

	status, _ = s.do(t, http.MethodPost, base+"/fixtures", `{"legs":3}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, base+"/matches", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]idBody](t, body["matches"]), 3)
}
