package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/ticnote/internal/domains/pipeline"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// ConnectionManager is the set of connected listeners, keyed by session.
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[uuid.UUID]*Session
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	closeOnce      sync.Once
	sessionTimeout time.Duration
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *Logger.Logger) *ConnectionManager {
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[uuid.UUID]*Session),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: 30 * time.Minute, // 30 minutes default timeout
	}

	// Start cleanup goroutine
	cm.startCleanupRoutine()

	return cm
}

// RegisterConnection registers a new session
func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[session.SessionID] = session
	cm.logger.Infof("Registered listener session %s (user: %q)", session.SessionID, session.UserID)
}

// UnregisterConnection removes a session
func (cm *ConnectionManager) UnregisterConnection(sessionID uuid.UUID) {
	cm.mutex.Lock()
	session, exists := cm.sessions[sessionID]
	delete(cm.sessions, sessionID)
	cm.mutex.Unlock()

	if !exists {
		return
	}
	cm.logger.Infof("Unregistering listener session %s", sessionID)
	if err := session.Close(); err != nil {
		cm.logger.Debugf("Error closing session %s: %v", sessionID, err)
	}
}

// GetSession retrieves a session by ID
func (cm *ConnectionManager) GetSession(sessionID uuid.UUID) (*Session, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	session, exists := cm.sessions[sessionID]
	return session, exists
}

// GetSessionCount returns the number of active sessions
func (cm *ConnectionManager) GetSessionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.sessions)
}

func (cm *ConnectionManager) snapshot() []*Session {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	sessions := make([]*Session, 0, len(cm.sessions))
	for _, session := range cm.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// BroadcastMessage sends a message to every connected listener. Delivery is
// best effort: failed writes are logged and skipped.
func (cm *ConnectionManager) BroadcastMessage(msgType MessageType, data interface{}) int {
	delivered := 0
	// Send to all sessions without holding the lock
	for _, session := range cm.snapshot() {
		if err := session.SendWebSocketMessage(msgType, data); err != nil {
			cm.logger.Warnf("Failed to broadcast %s to session %s: %v", msgType, session.SessionID, err)
			continue
		}
		delivered++
	}
	return delivered
}

// BroadcastAudioProcessed pushes a processed upload to every listener.
func (cm *ConnectionManager) BroadcastAudioProcessed(_ context.Context, result *pipeline.Result) {
	msg := NewAudioProcessedMessage(result)
	delivered := cm.BroadcastMessage(MessageTypeAudioProcessed, msg)
	cm.logger.Debugf("audioProcessed for %s delivered to %d listeners", msg.Filename, delivered)
}

// startCleanupRoutine starts a goroutine to clean up expired sessions
func (cm *ConnectionManager) startCleanupRoutine() {
	cm.cleanupTicker = time.NewTicker(5 * time.Minute) // Check every 5 minutes

	go func() {
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				cm.cleanupTicker.Stop()
				return
			}
		}
	}()
}

// cleanupExpiredSessions removes sessions that stopped answering pings
func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.Lock()
	expired := make([]*Session, 0)
	for sessionID, session := range cm.sessions {
		if session.IsExpired(cm.sessionTimeout) {
			expired = append(expired, session)
			delete(cm.sessions, sessionID)
		}
	}
	cm.mutex.Unlock()

	for _, session := range expired {
		cm.logger.Infof("Cleaning up expired session %s", session.SessionID)
		session.Close()
	}

	if len(expired) > 0 {
		cm.logger.Infof("Cleaned up %d expired sessions", len(expired))
	}
}

// Close shuts down the connection manager
func (cm *ConnectionManager) Close() error {
	cm.closeOnce.Do(func() {
		close(cm.stopCleanup)
	})

	cm.mutex.Lock()
	sessions := cm.sessions
	cm.sessions = make(map[uuid.UUID]*Session)
	cm.mutex.Unlock()

	for sessionID, session := range sessions {
		if err := session.Close(); err != nil {
			cm.logger.Errorf("Error closing session %s: %v", sessionID, err)
		}
	}

	cm.logger.Infof("Connection manager closed")
	return nil
}

// GetStats returns connection manager statistics
func (cm *ConnectionManager) GetStats() map[string]interface{} {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := map[string]interface{}{
		"active_sessions": len(cm.sessions),
		"session_timeout": cm.sessionTimeout.String(),
	}

	// Add per-session stats
	sessionStats := make([]map[string]interface{}, 0, len(cm.sessions))
	for _, session := range cm.sessions {
		sessionStats = append(sessionStats, map[string]interface{}{
			"user_id":      session.UserID,
			"session_id":   session.SessionID.String(),
			"connected_at": session.ConnectedAt,
			"last_active":  session.LastActive(),
			"is_active":    session.IsAlive(),
		})
	}
	stats["sessions"] = sessionStats

	return stats
}

// NewAudioProcessedMessage flattens a pipeline result into the broadcast
// payload.
func NewAudioProcessedMessage(result *pipeline.Result) AudioProcessedMessage {
	msg := AudioProcessedMessage{
		Transcription: result.Transcription,
		Summary:       result.Summary,
	}
	if result.File != nil {
		msg.Filename = result.File.Filename
		msg.OriginalName = result.File.OriginalName
		msg.Path = result.File.Path
	}
	return msg
}
