package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmcare/middleware"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	storeTimeout   = 10 * time.Second
)

type Client struct {
	conn   *websocket.Conn
	userID string
	hub    *Hub
	send   chan []byte

	// closed by the hub on unregister; send itself is never closed, so a
	// read pump that outlives its registration cannot panic on a late send
	done chan struct{}

	// room names this client joined; guarded by hub.mu
	rooms map[string]bool
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		conn:   conn,
		userID: userID,
		hub:    hub,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		rooms:  make(map[string]bool),
	}
}

func (c *Client) closeConn() {
	if c.conn != nil {
		c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades the request and runs the connection. The bearer token is
// passed as a query parameter because browser websocket clients cannot set
// headers.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ParseToken(token)
		if err != nil {
			log.Printf("websocket connection rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		client := newClient(hub, conn, claims.UserID)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": client.userID,
				"time":   time.Now().UnixMilli(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}

		var ev event
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Printf("websocket event unmarshal error: %v", err)
			continue
		}

		switch ev.Type {
		case eventJoinChat:
			c.handleJoinChat(ev.Payload)
		case eventJoinChannel:
			c.handleJoinChannel(ev.Payload)
		case eventSendMessage:
			c.handleSendMessage(ev.Payload)
		case eventSendChannelMessage:
			c.handleSendChannelMessage(ev.Payload)
		case eventPing:
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleJoinChat(raw json.RawMessage) {
	var p joinChatPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.DoctorID == "" {
		return
	}
	userID := p.UserID
	if userID == "" {
		userID = c.userID
	}
	room := DirectRoom(userID, p.DoctorID)
	c.hub.Join(c, room)
	log.Printf("user %s joined room %s", c.userID, room)
}

func (c *Client) handleJoinChannel(raw json.RawMessage) {
	var p joinChannelPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ChannelID == "" {
		return
	}
	c.hub.Join(c, ChannelRoom(p.ChannelID))
	log.Printf("user %s joined channel %s", c.userID, p.ChannelID)
}

// handleSendMessage persists the direct message, then fans the stored
// payload out to the pair room. The sender identity always comes from the
// authenticated connection, never the payload.
func (c *Client) handleSendMessage(raw json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ReceiverID == "" || p.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	msg, err := c.hub.store.SaveDirectMessage(ctx, c.userID, p.ReceiverID, p.Content)
	if err != nil {
		log.Printf("error saving direct message from %s: %v", c.userID, err)
		return
	}

	c.hub.EmitToRoom(DirectRoom(c.userID, p.ReceiverID), EventReceiveMessage, msg)
}

func (c *Client) handleSendChannelMessage(raw json.RawMessage) {
	var p sendChannelMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ChannelID == "" || p.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	msg, err := c.hub.store.SaveChannelMessage(ctx, p.ChannelID, c.userID, p.Content)
	if err != nil {
		log.Printf("error saving channel message from %s: %v", c.userID, err)
		return
	}

	// Emit the persisted record so every member sees the same id and
	// timestamp regardless of who authored the send.
	c.hub.EmitToRoom(ChannelRoom(p.ChannelID), EventReceiveChannelMessage, msg)
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type": "pong",
		"payload": map[string]interface{}{
			"time": time.Now().UnixMilli(),
		},
	})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
