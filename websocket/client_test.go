package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmcare/middleware"
	"farmcare/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialTestServer(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	token, err := middleware.GenerateToken(userID)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev wsEvent
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func newTestServer(t *testing.T, store Store) (*httptest.Server, *Hub) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	hub := NewHub(store)
	mux := http.NewServeMux()
	mux.Handle("/ws", ServeWS(hub))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return srv, hub
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeWSRejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/ws?token=not-a-jwt")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeWSWelcomeEvent(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})
	conn := dialTestServer(t, srv, "alice")

	ev := readEvent(t, conn)
	assert.Equal(t, "connected", ev.Type)

	var payload struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "alice", payload.UserID)
}

func TestDirectMessageOverSocket(t *testing.T) {
	store := &fakeStore{}
	srv, hub := newTestServer(t, store)

	alice := dialTestServer(t, srv, "alice")
	bob := dialTestServer(t, srv, "bob")
	readEvent(t, alice) // welcome
	readEvent(t, bob)

	// Both sides join the pair room.
	join := `{"type":"join_chat","payload":{"doctorId":"bob"}}`
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(join)))
	joinBob := `{"type":"join_chat","payload":{"doctorId":"alice"}}`
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte(joinBob)))

	room := DirectRoom("alice", "bob")
	require.Eventually(t, func() bool {
		return hub.RoomSize(room) == 2
	}, 2*time.Second, 10*time.Millisecond)

	send := `{"type":"send_message","payload":{"receiverId":"bob","content":"how is the calf doing"}}`
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(send)))

	var got [2]models.Message
	for i, conn := range []*websocket.Conn{alice, bob} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventReceiveMessage, ev.Type)
		require.NoError(t, json.Unmarshal(ev.Payload, &got[i]))
	}

	// Sender and receiver see the identical persisted record.
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, "alice", got[0].SenderID)
	assert.Equal(t, "how is the calf doing", got[0].Content)
	assert.NotZero(t, got[0].Timestamp)

	require.Len(t, store.savedMessages(), 1)
}

func TestMessagePersistedWithZeroListeners(t *testing.T) {
	store := &fakeStore{}
	srv, _ := newTestServer(t, store)

	alice := dialTestServer(t, srv, "alice")
	readEvent(t, alice) // welcome

	// Nobody joined the room, delivery is a no-op, persistence is not.
	send := `{"type":"send_message","payload":{"receiverId":"bob","content":"are you there"}}`
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(send)))

	require.Eventually(t, func() bool {
		return len(store.savedMessages()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "bob", store.savedMessages()[0].ReceiverID)
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})
	conn := dialTestServer(t, srv, "alice")
	readEvent(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	ev := readEvent(t, conn)
	assert.Equal(t, "pong", ev.Type)
}

func TestMalformedEventIsIgnored(t *testing.T) {
	srv, hub := newTestServer(t, &fakeStore{})
	conn := dialTestServer(t, srv, "alice")
	readEvent(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("this is not json")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	// The connection survives the garbage frame.
	ev := readEvent(t, conn)
	assert.Equal(t, "pong", ev.Type)
	assert.Equal(t, 1, hub.ClientCount())
}
