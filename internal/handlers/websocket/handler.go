package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
	"github.com/xpanvictor/ticnote/internal/domains/insight"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Answerer is the question answering side of insight.Service.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// WebSocketHandler handles WebSocket connections and routes
type WebSocketHandler struct {
	logger            *Logger.Logger
	answerer          Answerer
	verifier          auth.Verifier // nil when auth is disabled
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	logger *Logger.Logger,
	answerer Answerer,
	verifier auth.Verifier,
	connectionManager *ConnectionManager,
) *WebSocketHandler {
	return &WebSocketHandler{
		logger:            logger,
		answerer:          answerer,
		verifier:          verifier,
		connectionManager: connectionManager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// UI runs on another origin
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes. The upgrade route checks its own
// token query, so it goes on public; stats goes on protected.
func (h *WebSocketHandler) RegisterRoutes(public, protected gin.IRouter) {
	public.GET("/ws", h.HandleWebSocket)
	protected.GET("/ws/stats", h.HandleStats)
}

// HandleWebSocket upgrades the request and keeps the listener registered
// until it disconnects.
// @Summary Listener channel
// @Description Upgrades to a WebSocket that receives audioProcessed broadcasts and answers askQuestion messages
// @Tags Realtime
// @Param token query string false "Access token, required when auth is enabled"
// @Success 101 "Switching protocols"
// @Failure 401 {object} map[string]string "Invalid token"
// @Router /ws [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var userID string
	if h.verifier != nil {
		identity, err := h.verifier.Validate(c.Request.Context(), c.Query("token"))
		if err != nil {
			h.logger.Debugf("WebSocket token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		userID = identity.UserID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	session := NewSession(userID, conn)

	// Register connection and setup cleanup
	h.connectionManager.RegisterConnection(session)
	defer h.connectionManager.UnregisterConnection(session.SessionID)

	if err := session.SendWebSocketMessage(MessageTypeInit, InitMessage{
		Status:    "connected",
		SessionID: session.SessionID.String(),
		UserID:    userID,
	}); err != nil {
		h.logger.Errorf("Failed to send init to session %s: %v", session.SessionID, err)
		return
	}

	go h.keepAlive(session)
	h.handleConnection(session)
}

// HandleStats provides connection statistics
// @Summary Listener statistics
// @Tags Realtime
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ws/stats [get]
func (h *WebSocketHandler) HandleStats(c *gin.Context) {
	stats := h.connectionManager.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   stats,
	})
}

// keepAlive pings the client until the session closes.
func (h *WebSocketHandler) keepAlive(session *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-session.Context().Done():
			return
		case <-ticker.C:
			if err := session.ping(); err != nil {
				h.logger.Debugf("Ping failed for session %s: %v", session.SessionID, err)
				return
			}
		}
	}
}

// handleConnection handles the main WebSocket connection loop
func (h *WebSocketHandler) handleConnection(session *Session) {
	conn := session.Conn
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		session.UpdateLastActive()
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("WebSocket read error for session %s: %v", session.SessionID, err)
			} else {
				h.logger.Infof("WebSocket connection closed for session %s", session.SessionID)
			}
			return
		}

		session.UpdateLastActive()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.TextMessage:
			h.handleTextMessage(session, data)
		default:
			session.SendError("UNSUPPORTED_MESSAGE", "Only JSON text messages are supported")
		}
	}
}

// handleTextMessage processes incoming text messages
func (h *WebSocketHandler) handleTextMessage(session *Session, data []byte) {
	var wsMsg inboundMessage
	if err := json.Unmarshal(data, &wsMsg); err != nil {
		h.logger.Debugf("Failed to unmarshal WebSocket message: %v", err)
		session.SendError("INVALID_MESSAGE", "Invalid message format")
		return
	}

	switch wsMsg.Type {
	case MessageTypeAskQuestion:
		var ask AskQuestionMessage
		if len(wsMsg.Data) > 0 {
			if err := json.Unmarshal(wsMsg.Data, &ask); err != nil {
				session.SendError("INVALID_MESSAGE", "Invalid askQuestion payload")
				return
			}
		}
		if !session.acquireQuestion() {
			if err := session.SendWebSocketMessage(MessageTypeQuestionError, QuestionErrorMessage{Error: "Too many pending questions"}); err != nil {
				h.logger.Debugf("Failed to send questionError to session %s: %v", session.SessionID, err)
			}
			return
		}
		// answered off the read loop
		go func() {
			defer session.releaseQuestion()
			h.answerQuestion(session, ask)
		}()

	default:
		h.logger.Debugf("Unknown message type %q from session %s", wsMsg.Type, session.SessionID)
		session.SendError("UNKNOWN_MESSAGE_TYPE", fmt.Sprintf("Unknown message type: %s", wsMsg.Type))
	}
}

func (h *WebSocketHandler) answerQuestion(session *Session, ask AskQuestionMessage) {
	answer, err := h.answerer.Answer(session.Context(), ask.Question, ask.Context)
	if err != nil {
		message := "Failed to answer question"
		if errors.Is(err, insight.ErrQuestionRequired) {
			message = "Question is required"
		} else {
			h.logger.Errorf("Answer for session %s failed: %v", session.SessionID, err)
		}
		if sendErr := session.SendWebSocketMessage(MessageTypeQuestionError, QuestionErrorMessage{Error: message}); sendErr != nil {
			h.logger.Debugf("Failed to send questionError to session %s: %v", session.SessionID, sendErr)
		}
		return
	}

	if err := session.SendWebSocketMessage(MessageTypeQuestionAnswered, QuestionAnsweredMessage{
		Question: ask.Question,
		Answer:   answer,
	}); err != nil {
		h.logger.Debugf("Failed to send answer to session %s: %v", session.SessionID, err)
	}
}

// Close shuts down the WebSocket handler
func (h *WebSocketHandler) Close() error {
	return h.connectionManager.Close()
}
