package stt

import (
	"context"
	"io"
	"time"
)

// AudioFile is one stored recording handed to a transcriber.
type AudioFile struct {
	Name     string
	Path     string
	MimeType string
	Body     io.Reader
}

type Transcript struct {
	Text        string
	Language    string
	GeneratedAt time.Time
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio AudioFile) (*Transcript, error)
	Name() string
}
