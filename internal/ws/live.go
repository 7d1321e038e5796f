package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

// Participant is one user inside a live room
type Participant struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Speaking  bool      `json:"speaking"`
	JoinedAt  time.Time `json:"joined_at"`
}

// LiveManager tracks live session rooms: who is in each room, who is
// speaking, and fans reactions out to everyone in the room.
type LiveManager struct {
	hub *Hub

	mu       sync.RWMutex
	sessions map[string]map[string]*Participant

	// Reverse index so a dropped connection leaves its rooms
	userSessions map[string]map[string]struct{}
}

// NewLiveManager creates a live session manager
func NewLiveManager(hub *Hub) *LiveManager {
	return &LiveManager{
		hub:          hub,
		sessions:     make(map[string]map[string]*Participant),
		userSessions: make(map[string]map[string]struct{}),
	}
}

// Start registers the live session message handlers with the hub
func (lm *LiveManager) Start() {
	lm.hub.RegisterHandler(MessageTypeLiveJoin, lm.handleJoin)
	lm.hub.RegisterHandler(MessageTypeLiveLeave, lm.handleLeave)
	lm.hub.RegisterHandler(MessageTypeLiveSpeaking, lm.handleSpeaking)
	lm.hub.RegisterHandler(MessageTypeLiveReaction, lm.handleReaction)
	logger.Log.Info("Live session manager started")
}

func (lm *LiveManager) handleJoin(client *Client, msg *Message) error {
	var payload LiveSessionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if payload.SessionID == "" {
		return fmt.Errorf("live_join requires session_id")
	}

	lm.mu.Lock()
	if lm.sessions[payload.SessionID] == nil {
		lm.sessions[payload.SessionID] = make(map[string]*Participant)
	}
	lm.sessions[payload.SessionID][client.UserID] = &Participant{
		UserID:    client.UserID,
		Username:  client.Username,
		AvatarURL: payload.AvatarURL,
		JoinedAt:  time.Now().UTC(),
	}
	if lm.userSessions[client.UserID] == nil {
		lm.userSessions[client.UserID] = make(map[string]struct{})
	}
	lm.userSessions[client.UserID][payload.SessionID] = struct{}{}
	lm.mu.Unlock()

	lm.broadcastToSession(payload.SessionID, NewMessage(MessageTypeLiveJoin, LiveSessionPayload{
		SessionID: payload.SessionID,
		UserID:    client.UserID,
		Username:  client.Username,
		AvatarURL: payload.AvatarURL,
		Timestamp: time.Now().UnixMilli(),
	}))
	lm.sendRoster(payload.SessionID)
	return nil
}

func (lm *LiveManager) handleLeave(client *Client, msg *Message) error {
	var payload LiveSessionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	lm.removeFromSession(payload.SessionID, client.UserID, client.Username)
	return nil
}

func (lm *LiveManager) handleSpeaking(client *Client, msg *Message) error {
	var payload SpeakingPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	lm.mu.Lock()
	participants, ok := lm.sessions[payload.SessionID]
	if !ok {
		lm.mu.Unlock()
		return fmt.Errorf("unknown live session %s", payload.SessionID)
	}
	p, ok := participants[client.UserID]
	if !ok {
		lm.mu.Unlock()
		return fmt.Errorf("not in live session %s", payload.SessionID)
	}
	p.Speaking = payload.Speaking
	lm.mu.Unlock()

	lm.broadcastToSession(payload.SessionID, NewMessage(MessageTypeLiveSpeaking, SpeakingPayload{
		SessionID: payload.SessionID,
		UserID:    client.UserID,
		Speaking:  payload.Speaking,
		Timestamp: time.Now().UnixMilli(),
	}))
	return nil
}

func (lm *LiveManager) handleReaction(client *Client, msg *Message) error {
	var payload ReactionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if payload.Emoji == "" {
		return fmt.Errorf("live_reaction requires an emoji")
	}

	// Reactions are ephemeral: fan out, never stored
	lm.broadcastToSession(payload.SessionID, NewMessage(MessageTypeLiveReaction, ReactionPayload{
		SessionID: payload.SessionID,
		UserID:    client.UserID,
		Emoji:     payload.Emoji,
		Timestamp: time.Now().UnixMilli(),
	}))
	return nil
}

// OnClientDisconnect removes the user from every room they were in once
// their last connection drops
func (lm *LiveManager) OnClientDisconnect(client *Client) {
	if lm.hub.UserConnectionCount(client.UserID) > 0 {
		return
	}

	lm.mu.RLock()
	sessionIDs := make([]string, 0, len(lm.userSessions[client.UserID]))
	for id := range lm.userSessions[client.UserID] {
		sessionIDs = append(sessionIDs, id)
	}
	lm.mu.RUnlock()

	for _, id := range sessionIDs {
		lm.removeFromSession(id, client.UserID, client.Username)
	}
}

func (lm *LiveManager) removeFromSession(sessionID, userID, username string) {
	lm.mu.Lock()
	participants, ok := lm.sessions[sessionID]
	if ok {
		delete(participants, userID)
		if len(participants) == 0 {
			delete(lm.sessions, sessionID)
		}
	}
	if sessions, ok := lm.userSessions[userID]; ok {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(lm.userSessions, userID)
		}
	}
	lm.mu.Unlock()

	if !ok {
		return
	}

	lm.broadcastToSession(sessionID, NewMessage(MessageTypeLiveLeave, LiveSessionPayload{
		SessionID: sessionID,
		UserID:    userID,
		Username:  username,
		Timestamp: time.Now().UnixMilli(),
	}))
	lm.sendRoster(sessionID)

	logger.Log.Debug("Left live session",
		zap.String("session", sessionID),
		zap.String("user", userID),
	)
}

// Participants returns a snapshot of a room's members
func (lm *LiveManager) Participants(sessionID string) []Participant {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	participants := make([]Participant, 0, len(lm.sessions[sessionID]))
	for _, p := range lm.sessions[sessionID] {
		participants = append(participants, *p)
	}
	return participants
}

// SessionCount returns how many rooms are currently live
func (lm *LiveManager) SessionCount() int {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return len(lm.sessions)
}

func (lm *LiveManager) broadcastToSession(sessionID string, msg *Message) {
	lm.mu.RLock()
	userIDs := make([]string, 0, len(lm.sessions[sessionID]))
	for userID := range lm.sessions[sessionID] {
		userIDs = append(userIDs, userID)
	}
	lm.mu.RUnlock()

	for _, userID := range userIDs {
		lm.hub.SendToUser(userID, msg)
	}
}

func (lm *LiveManager) sendRoster(sessionID string) {
	lm.mu.RLock()
	roster := make([]LiveSessionPayload, 0, len(lm.sessions[sessionID]))
	for _, p := range lm.sessions[sessionID] {
		roster = append(roster, LiveSessionPayload{
			SessionID: sessionID,
			UserID:    p.UserID,
			Username:  p.Username,
			AvatarURL: p.AvatarURL,
			Timestamp: p.JoinedAt.UnixMilli(),
		})
	}
	lm.mu.RUnlock()

	lm.broadcastToSession(sessionID, NewMessage(MessageTypeLiveRoster, RosterPayload{
		SessionID:    sessionID,
		Participants: roster,
		Timestamp:    time.Now().UnixMilli(),
	}))
}
