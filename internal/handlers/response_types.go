package handlers

import (
	"github.com/xpanvictor/ticnote/internal/domains/asset"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
)

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// UploadResponse represents a fully processed recording
type UploadResponse struct {
	Message       string               `json:"message" example:"File processed successfully"`
	File          *asset.UploadedAsset `json:"file"`
	Transcription string               `json:"transcription" example:"This is a simulated transcription of your audio file"`
	Summary       string               `json:"summary" example:"A short recording about the weekly plan."`
}

// PartialUploadResponse is returned when the recording was stored and
// transcribed but summarizing it failed.
type PartialUploadResponse struct {
	Error         string               `json:"error" example:"Processing failed"`
	Stage         string               `json:"stage" example:"summary"`
	File          *asset.UploadedAsset `json:"file"`
	Transcription string               `json:"transcription"`
}

// SummarizeRequest represents the request body for summarization
type SummarizeRequest struct {
	Text string `json:"text" example:"Long meeting transcript..."`
}

// SummarizeResponse represents a generated summary
type SummarizeResponse struct {
	Summary string `json:"summary" example:"The team agreed to ship on Friday."`
}

// AskRequest represents a question about a transcript
type AskRequest struct {
	Question string `json:"question" example:"What is this about?"`
	Context  string `json:"context" example:"Meeting transcript..."`
}

// AskResponse represents a generated answer
type AskResponse struct {
	Answer string `json:"answer" example:"It's about the release plan."`
}

// LoginResponse represents the response for login
type LoginResponse struct {
	Message  string         `json:"message" example:"Login successful"`
	Identity auth.Identity  `json:"identity"`
	Token    auth.AuthToken `json:"token"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
