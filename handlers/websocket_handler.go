package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/sports-event-tracker/live"
	"github.com/Dosada05/sports-event-tracker/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are restricted by the CORS layer; the feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub               *live.Hub
	tournamentService services.TournamentService
	responder
}

func NewWebSocketHandler(hub *live.Hub, ts services.TournamentService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		responder:         newResponder(logger),
	}
}

// ServeWs subscribes the client to live results and standings of one
// tournament. Clients connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if _, err := h.tournamentService.GetTournament(r.Context(), tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("failed to upgrade websocket connection",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	room := live.RoomForTournament(tournamentID)
	if !h.hub.Attach(conn, room) {
		h.logger.Warn("websocket hub stopped, connection dropped", slog.String("room", room))
		return
	}
	h.logger.Debug("websocket client attached", slog.String("room", room))
}
