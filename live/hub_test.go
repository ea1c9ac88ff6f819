package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHub(t *testing.T, hub *Hub, room string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, room)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRoomForTournament(t *testing.T) {
	assert.Equal(t, "tournament_42", RoomForTournament(42))
}

func TestPublishReachesOnlyTheTournamentRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	first := dial(t, serveHub(t, hub, RoomForTournament(1)))
	second := dial(t, serveHub(t, hub, RoomForTournament(2)))
	require.Eventually(t, func() bool {
		return hub.RoomSize(RoomForTournament(1)) == 1 && hub.RoomSize(RoomForTournament(2)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishTournamentEvent(1, "MATCH_RESULT", map[string]int{"match_id": 7})

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, first.ReadJSON(&msg))
	assert.Equal(t, "MATCH_RESULT", msg.Type)
	assert.Equal(t, "tournament_1", msg.RoomID)
	assert.Equal(t, map[string]interface{}{"match_id": float64(7)}, msg.Payload)

	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := second.ReadMessage()
	assert.Error(t, err, "other rooms must not receive the event")
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub(nil)
	hub.BroadcastToRoom("tournament_9", Message{Type: "STANDINGS_UPDATED"})
	assert.Zero(t, hub.RoomSize("tournament_9"))
}

func TestClientDisconnectLeavesRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	room := RoomForTournament(3)
	conn := dial(t, serveHub(t, hub, room))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStoppedHubClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	room := RoomForTournament(4)
	url := serveHub(t, hub, room)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure),
		"unexpected error %v", err)
	assert.Zero(t, hub.RoomSize(room))

	// New connections are refused once the hub has stopped.
	late := dial(t, url)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
}
