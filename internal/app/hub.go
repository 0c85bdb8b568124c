package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"blanks/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleRoomTimeout is how long before an empty room is cleaned up
	StaleRoomTimeout = 2 * time.Hour

	cleanupInterval = 10 * time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GameHub manages all active game sessions. Each room gets its own deck,
// shuffled at creation.
type GameHub struct {
	sessions       map[string]*GameSession
	mu             sync.RWMutex
	set            domain.CardSet
	cfg            SessionConfig
	roomCodeLength int
	logger         *slog.Logger
	clock          clockwork.Clock
	done           chan struct{}
}

// NewGameHub creates a new game hub over the given card set.
func NewGameHub(set domain.CardSet, cfg SessionConfig, roomCodeLength int, logger *slog.Logger, clock clockwork.Clock) *GameHub {
	if roomCodeLength <= 0 {
		roomCodeLength = DefaultRoomCodeLength
	}

	hub := &GameHub{
		sessions:       make(map[string]*GameSession),
		set:            set,
		cfg:            cfg,
		roomCodeLength: roomCodeLength,
		logger:         logger,
		clock:          clock,
		done:           make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateGame creates a new room and returns its session.
func (h *GameHub) CreateGame() (*GameSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}
	if _, exists := h.sessions[roomCode]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	session := NewGameSession(roomCode, h.set, h.cfg, h.logger, h.clock)
	h.sessions[roomCode] = session

	h.logger.Info("room created", "room", roomCode)

	return session, nil
}

// GetSession returns a game session by room code.
func (h *GameHub) GetSession(roomCode string) (*GameSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession removes a game session.
func (h *GameHub) DeleteSession(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room deleted", "room", roomCode)
	}
}

// GetSessionCount returns the number of active sessions.
func (h *GameHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalPlayerCount returns the total number of players across all
// sessions.
func (h *GameHub) GetTotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions.
func (h *GameHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*GameSession)
}

// generateRoomCode generates a random room code.
func (h *GameHub) generateRoomCode() string {
	b := make([]byte, h.roomCodeLength)
	rand.Read(b)

	code := make([]byte, h.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale rooms.
func (h *GameHub) cleanupLoop() {
	ticker := h.clock.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.Chan():
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms that have sat empty for too long.
func (h *GameHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	for roomCode, session := range h.sessions {
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > StaleRoomTimeout {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("stale room cleaned up", "room", roomCode)
		}
	}
}
