package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"farmcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records saved messages in memory. Safe for use from the
// connection read pumps.
type fakeStore struct {
	mu    sync.Mutex
	saved []*models.Message
	err   error
}

func (s *fakeStore) SaveDirectMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	msg := &models.Message{
		Scope:       models.ScopeDirect,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: models.TypeText,
		Timestamp:   time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.saved = append(s.saved, msg)
	s.mu.Unlock()
	return msg, nil
}

func (s *fakeStore) SaveChannelMessage(ctx context.Context, channelID, senderID, content string) (*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	msg := &models.Message{
		Scope:     models.ScopeChannel,
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.saved = append(s.saved, msg)
	s.mu.Unlock()
	return msg, nil
}

func (s *fakeStore) savedMessages() []*models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Message, len(s.saved))
	copy(out, s.saved)
	return out
}

func TestDirectRoomSymmetry(t *testing.T) {
	assert.Equal(t, DirectRoom("alice", "bob"), DirectRoom("bob", "alice"))
	assert.Equal(t, "alice_bob", DirectRoom("bob", "alice"))
	assert.NotEqual(t, DirectRoom("alice", "bob"), DirectRoom("alice", "carol"))
}

func TestChannelRoom(t *testing.T) {
	assert.Equal(t, "channel_abc123", ChannelRoom("abc123"))
}

func TestHubJoinAndLeave(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))

	hub.Join(c, "room1")
	assert.Equal(t, 1, hub.RoomSize("room1"))

	// Joining twice is a no-op
	hub.Join(c, "room1")
	assert.Equal(t, 1, hub.RoomSize("room1"))

	hub.Leave(c, "room1")
	assert.Equal(t, 0, hub.RoomSize("room1"))
}

func TestHubJoinUnregisteredClient(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")

	hub.Join(c, "room1")
	assert.Equal(t, 0, hub.RoomSize("room1"))
}

func TestEmitToRoomDeliversToMembersOnly(t *testing.T) {
	hub := NewHub(&fakeStore{})

	member := newClient(hub, nil, "alice")
	outsider := newClient(hub, nil, "bob")
	require.True(t, hub.Register(member))
	require.True(t, hub.Register(outsider))
	hub.Join(member, "room1")

	hub.EmitToRoom("room1", "test_event", map[string]string{"hello": "world"})

	select {
	case raw := <-member.send:
		var ev struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "test_event", ev.Type)
		assert.Equal(t, "world", ev.Payload["hello"])
	default:
		t.Fatal("expected member to receive event")
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider should not receive room events")
	default:
	}
}

func TestEmitToEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(&fakeStore{})
	hub.EmitToRoom("nobody-here", "test_event", "payload")
}

func TestEmitPreservesSendOrder(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))
	hub.Join(c, "room1")

	for i := 0; i < 10; i++ {
		hub.EmitToRoom("room1", "seq", i)
	}

	for i := 0; i < 10; i++ {
		raw := <-c.send
		var ev struct {
			Payload int `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, i, ev.Payload)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))
	hub.Join(c, "room1")

	// Fill the send buffer past capacity; the overflowing emit drops the client.
	for i := 0; i < cap(c.send)+1; i++ {
		hub.EmitToRoom("room1", "flood", i)
	}

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomSize("room1"))
}

func TestUnregisterCleansUpRooms(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))
	hub.Join(c, "room1")
	hub.Join(c, "room2")

	hub.Unregister(c)

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomSize("room1"))
	assert.Equal(t, 0, hub.RoomSize("room2"))

	// done is closed after unregister so the write pump shuts down
	select {
	case <-c.done:
	default:
		t.Fatal("done should be closed after unregister")
	}

	// double unregister must not panic
	hub.Unregister(c)
}

func TestSendAfterUnregisterDoesNotPanic(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))
	hub.Join(c, "room1")

	hub.Unregister(c)

	// A read pump can still be handling an inbound event when the hub drops
	// the client; late sends must be swallowed, not panic.
	assert.NotPanics(t, func() {
		c.sendPong()
		hub.EmitToRoom("room1", "late_event", "payload")
	})
}

func TestClosedHubRejectsRegistration(t *testing.T) {
	hub := NewHub(&fakeStore{})
	c := newClient(hub, nil, "alice")
	require.True(t, hub.Register(c))

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	late := newClient(hub, nil, "bob")
	assert.False(t, hub.Register(late))
}

func TestHandleSendMessagePersistFailureEmitsNothing(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	hub := NewHub(store)

	sender := newClient(hub, nil, "alice")
	receiver := newClient(hub, nil, "bob")
	require.True(t, hub.Register(sender))
	require.True(t, hub.Register(receiver))
	room := DirectRoom("alice", "bob")
	hub.Join(sender, room)
	hub.Join(receiver, room)

	payload, _ := json.Marshal(sendMessagePayload{ReceiverID: "bob", Content: "hi"})
	sender.handleSendMessage(payload)

	select {
	case <-receiver.send:
		t.Fatal("no event should be emitted when persistence fails")
	default:
	}
}

func TestHandleSendMessageSenderFromConnection(t *testing.T) {
	store := &fakeStore{}
	hub := NewHub(store)

	sender := newClient(hub, nil, "alice")
	receiver := newClient(hub, nil, "bob")
	require.True(t, hub.Register(sender))
	require.True(t, hub.Register(receiver))
	room := DirectRoom("alice", "bob")
	hub.Join(sender, room)
	hub.Join(receiver, room)

	payload, _ := json.Marshal(sendMessagePayload{ReceiverID: "bob", Content: "hello bob"})
	sender.handleSendMessage(payload)

	saved := store.savedMessages()
	require.Len(t, saved, 1)
	assert.Equal(t, "alice", saved[0].SenderID)
	assert.Equal(t, "bob", saved[0].ReceiverID)

	// Both room members, sender included, get the persisted record.
	for _, c := range []*Client{sender, receiver} {
		select {
		case raw := <-c.send:
			var ev struct {
				Type    string         `json:"type"`
				Payload models.Message `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, EventReceiveMessage, ev.Type)
			assert.Equal(t, "hello bob", ev.Payload.Content)
			assert.Equal(t, "alice", ev.Payload.SenderID)
		default:
			t.Fatalf("client %s did not receive the message", c.userID)
		}
	}
}

func TestConcurrentJoinAndEmit(t *testing.T) {
	hub := NewHub(&fakeStore{})

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			c := newClient(hub, nil, fmt.Sprintf("user-%d", n))
			if !hub.Register(c) {
				return
			}
			hub.Join(c, "busy")
			hub.EmitToRoom("busy", "tick", n)
			hub.Unregister(c)
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomSize("busy"))
}
