package websocket

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeInit             MessageType = "init"
	MessageTypeAudioProcessed   MessageType = "audioProcessed"
	MessageTypeAskQuestion      MessageType = "askQuestion"
	MessageTypeQuestionAnswered MessageType = "questionAnswered"
	MessageTypeQuestionError    MessageType = "questionError"
	MessageTypeError            MessageType = "error"
)

// WSMessage represents the structure of WebSocket messages
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// inboundMessage is WSMessage as read from a client, data left raw until
// the type is known.
type inboundMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// InitMessage is sent once right after the upgrade.
type InitMessage struct {
	Status    string `json:"status"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
}

// AudioProcessedMessage is broadcast to every listener after an upload has
// been transcribed and summarized.
type AudioProcessedMessage struct {
	Filename      string `json:"filename"`
	OriginalName  string `json:"originalname"`
	Path          string `json:"path"`
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

// AskQuestionMessage contains a question about some context, usually a
// previous transcription
type AskQuestionMessage struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type QuestionAnsweredMessage struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuestionErrorMessage struct {
	Error string `json:"error"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
