package ws

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldwide-social/worldwide/internal/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Initialize("error", "")
	os.Exit(m.Run())
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.allClients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.unicast)
	assert.NotNil(t, hub.metrics)
	assert.NotNil(t, hub.handlers)
}

func TestRateLimiter(t *testing.T) {
	// 5 per second with a burst of 10
	rl := NewRateLimiter(5, 10)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow(), "Request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow(), "Request 11 should be denied")

	time.Sleep(300 * time.Millisecond)
	assert.True(t, rl.Allow(), "Request after wait should be allowed")
}

func TestNewMessage(t *testing.T) {
	payload := map[string]string{"test": "data"}
	msg := NewMessage(MessageTypeChatMessage, payload)

	assert.Equal(t, MessageTypeChatMessage, msg.Type)
	assert.NotNil(t, msg.Payload)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewReply(t *testing.T) {
	original := NewMessage(MessageTypePing, nil)
	original.ID = "original-id"
	reply := NewReply(original, MessageTypePong, nil)

	assert.Equal(t, MessageTypePong, reply.Type)
	assert.Equal(t, "original-id", reply.ReplyTo)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("test_error", "Something went wrong")

	assert.Equal(t, MessageTypeError, msg.Type)

	payload, ok := msg.Payload.(ErrorPayload)
	assert.True(t, ok)
	assert.Equal(t, "test_error", payload.Code)
	assert.Equal(t, "Something went wrong", payload.Message)
}

func TestMessageParsePayload(t *testing.T) {
	msg := NewMessage(MessageTypePing, map[string]interface{}{
		"client_time": float64(1234567890),
	})

	var ping PingPayload
	err := msg.ParsePayload(&ping)
	assert.NoError(t, err)
	assert.Equal(t, int64(1234567890), ping.ClientTime)
}

func TestMessageJSONSerialization(t *testing.T) {
	msg := NewMessage(MessageTypeChatMessage, ChatMessagePayload{
		MessageID:   "msg-123",
		SenderID:    "user-1",
		RecipientID: "user-2",
		MediaType:   "text",
		Text:        "hey!",
	})
	msg.ID = "msg-id"

	data, err := json.Marshal(msg)
	assert.NoError(t, err)

	var parsed Message
	err = json.Unmarshal(data, &parsed)
	assert.NoError(t, err)

	assert.Equal(t, MessageTypeChatMessage, parsed.Type)
	assert.Equal(t, "msg-id", parsed.ID)
	assert.NotNil(t, parsed.Payload)
}

func TestFlexibleTimeAcceptsUnixMillis(t *testing.T) {
	var ft FlexibleTime
	require.NoError(t, json.Unmarshal([]byte("1700000000000"), &ft))
	assert.Equal(t, time.UnixMilli(1700000000000), ft.Time)
}

func TestFlexibleTimeAcceptsRFC3339(t *testing.T) {
	var ft FlexibleTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-29T12:00:00Z"`), &ft))
	assert.Equal(t, 2026, ft.Year())
}

func TestFlexibleTimeRejectsGarbage(t *testing.T) {
	var ft FlexibleTime
	assert.Error(t, json.Unmarshal([]byte(`"not a time"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`{"nested": true}`), &ft))
}

func TestHubHandlerRegistration(t *testing.T) {
	hub := NewHub()

	hub.RegisterHandler(MessageTypeChatMessage, func(client *Client, msg *Message) error {
		return nil
	})

	_, ok := hub.GetHandler(MessageTypeChatMessage)
	assert.True(t, ok)
	_, ok = hub.GetHandler("nonexistent")
	assert.False(t, ok)
}

func TestHubOnlineTracking(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		hub:    hub,
		UserID: "user-1",
		send:   make(chan []byte, 8),
	}
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline("user-1")
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, hub.UserConnectionCount("user-1"))
	assert.Contains(t, hub.OnlineUsers(), "user-1")
	assert.Equal(t, int64(1), hub.GetMetrics().ActiveConnections)

	hub.Unregister(client)
	require.Eventually(t, func() bool {
		return !hub.IsUserOnline("user-1")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(0), hub.GetMetrics().ActiveConnections)
}

func TestUnicastDeliversToUserOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := &Client{hub: hub, UserID: "alice", send: make(chan []byte, 8)}
	bob := &Client{hub: hub, UserID: "bob", send: make(chan []byte, 8)}
	hub.Register(alice)
	hub.Register(bob)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline("alice") && hub.IsUserOnline("bob")
	}, time.Second, 5*time.Millisecond)

	hub.SendToUser("alice", NewMessage(MessageTypeNotification, nil))

	select {
	case data := <-alice.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MessageTypeNotification, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("alice never received the unicast")
	}

	select {
	case <-bob.send:
		t.Fatal("bob should not receive alice's unicast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLiveManagerRoster(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	lm := NewLiveManager(hub)
	lm.Start()

	alice := &Client{hub: hub, UserID: "alice", Username: "alice", send: make(chan []byte, 64)}
	hub.Register(alice)
	require.Eventually(t, func() bool { return hub.IsUserOnline("alice") }, time.Second, 5*time.Millisecond)

	require.NoError(t, lm.handleJoin(alice, NewMessage(MessageTypeLiveJoin, LiveSessionPayload{
		SessionID: "room-1",
	})))

	participants := lm.Participants("room-1")
	require.Len(t, participants, 1)
	assert.Equal(t, "alice", participants[0].UserID)
	assert.Equal(t, 1, lm.SessionCount())

	// Speaking toggles the participant state
	require.NoError(t, lm.handleSpeaking(alice, NewMessage(MessageTypeLiveSpeaking, SpeakingPayload{
		SessionID: "room-1",
		Speaking:  true,
	})))
	assert.True(t, lm.Participants("room-1")[0].Speaking)

	// Leaving the room empties and removes it
	require.NoError(t, lm.handleLeave(alice, NewMessage(MessageTypeLiveLeave, LiveSessionPayload{
		SessionID: "room-1",
	})))
	assert.Empty(t, lm.Participants("room-1"))
	assert.Equal(t, 0, lm.SessionCount())
}

func TestLiveManagerRejectsSpeakingOutsideRoom(t *testing.T) {
	hub := NewHub()
	lm := NewLiveManager(hub)

	stranger := &Client{hub: hub, UserID: "stranger", send: make(chan []byte, 8)}
	err := lm.handleSpeaking(stranger, NewMessage(MessageTypeLiveSpeaking, SpeakingPayload{
		SessionID: "room-x",
		Speaking:  true,
	}))
	assert.Error(t, err)
}

func TestLiveManagerDisconnectLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	lm := NewLiveManager(hub)

	alice := &Client{hub: hub, UserID: "alice", Username: "alice", send: make(chan []byte, 64)}
	require.NoError(t, lm.handleJoin(alice, NewMessage(MessageTypeLiveJoin, LiveSessionPayload{SessionID: "room-1"})))
	require.NoError(t, lm.handleJoin(alice, NewMessage(MessageTypeLiveJoin, LiveSessionPayload{SessionID: "room-2"})))
	assert.Equal(t, 2, lm.SessionCount())

	// alice has no registered connections, so the disconnect is final
	lm.OnClientDisconnect(alice)
	assert.Equal(t, 0, lm.SessionCount())
}
