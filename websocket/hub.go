package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub owns the live connections and the room table. Room state is process
// local: it is built empty at startup and lost on shutdown, so reconnecting
// clients must re-join their rooms. The message store stays the source of
// truth; everything the hub delivers is an optimization on top of it.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	store   Store
	closed  bool
}

func NewHub(store Store) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		store:   store,
	}
}

// DirectRoom derives the room name for a direct chat from the unordered
// participant pair. Both sides compute the same name without a lookup.
func DirectRoom(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// ChannelRoom derives the room name for a channel.
func ChannelRoom(channelID string) string {
	return "channel_" + channelID
}

// Register adds a connection to the hub. It reports false once the hub has
// been closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	log.Printf("websocket client registered, total clients: %d", len(h.clients))
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(c.done)
	log.Printf("websocket client unregistered, total clients: %d", len(h.clients))
}

// Join adds the connection to a named room. Joining a room twice is a no-op;
// a connection may belong to any number of rooms.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
	c.rooms[room] = true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// EmitToRoom fans an event out to every connection currently in the room.
// Delivery is best effort: an empty room is a silent no-op, and a client
// whose send buffer is full is dropped rather than awaited. Callers emitting
// sequentially see their events delivered in call order.
func (h *Hub) EmitToRoom(room, eventType string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("error marshaling %s event: %v", eventType, err)
		return
	}

	var stale []*Client
	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		log.Printf("dropping slow websocket client %s", c.userID)
		h.Unregister(c)
		c.closeConn()
	}
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close tears the hub down: all clients are dropped and later registrations
// are rejected.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	for _, c := range clients {
		h.removeLocked(c)
	}
	h.closed = true
	h.mu.Unlock()

	for _, c := range clients {
		c.closeConn()
	}
}
