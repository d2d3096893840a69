package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// maxPendingQuestions bounds the answers in flight per session.
	maxPendingQuestions = 4
)

// Session represents one connected listener
type Session struct {
	SessionID uuid.UUID
	UserID    string // empty when auth is disabled
	Conn      *websocket.Conn

	// ctx is cancelled when the session closes so in-flight answers stop
	ctx    context.Context
	cancel context.CancelFunc

	pending chan struct{}

	// State
	ConnectedAt time.Time
	lastActive  time.Time
	IsActive    bool
	mutex       sync.RWMutex
}

// NewSession creates a new WebSocket session
func NewSession(userID string, conn *websocket.Conn) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		SessionID:   uuid.New(),
		UserID:      userID,
		Conn:        conn,
		ctx:         ctx,
		cancel:      cancel,
		pending:     make(chan struct{}, maxPendingQuestions),
		ConnectedAt: time.Now(),
		lastActive:  time.Now(),
		IsActive:    true,
	}
}

// Context is done once the session is closed.
func (s *Session) Context() context.Context {
	return s.ctx
}

// acquireQuestion reserves a slot for one answer. It never blocks.
func (s *Session) acquireQuestion() bool {
	select {
	case s.pending <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Session) releaseQuestion() {
	<-s.pending
}

// SendWebSocketMessage sends a message to the WebSocket client
func (s *Session) SendWebSocketMessage(msgType MessageType, data interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return fmt.Errorf("session not active")
	}

	msg := WSMessage{
		Type:      msgType,
		Data:      data,
		SessionID: s.SessionID.String(),
		Timestamp: time.Now(),
	}

	_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.Conn.WriteJSON(msg)
}

// SendError sends an error message to the client
func (s *Session) SendError(code, message string) error {
	return s.SendWebSocketMessage(MessageTypeError, ErrorMessage{
		Code:    code,
		Message: message,
	})
}

// ping writes a control ping, serialized with the other writers.
func (s *Session) ping() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return fmt.Errorf("session not active")
	}
	return s.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// UpdateLastActive updates the last activity timestamp
func (s *Session) UpdateLastActive() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

// Close closes the session and cleans up resources. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	s.cancel()

	return s.Conn.Close()
}

// IsExpired checks if the session has expired based on inactivity
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return time.Since(s.lastActive) > timeout
}

// IsAlive checks if the session is active
func (s *Session) IsAlive() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.IsActive
}

// LastActive returns the last activity timestamp
func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}
