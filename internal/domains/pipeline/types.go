package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/xpanvictor/ticnote/internal/domains/asset"
)

type RunPhase string

const (
	STORED       RunPhase = "stored"
	TRANSCRIBING RunPhase = "transcribing"
	SUMMARIZING  RunPhase = "summarizing"
	PROCESSED    RunPhase = "processed"
	FAILED       RunPhase = "failed"
)

type RunEvents string

const (
	TRANSCRIBE RunEvents = "transcribe"
	SUMMARIZE  RunEvents = "summarize"
	COMPLETE   RunEvents = "complete"
	FAIL       RunEvents = "fail"
)

// Stage names reported in Error.
const (
	StageTranscription = "transcription"
	StageSummary       = "summary"
)

var ErrEmptyTranscript = errors.New("transcription returned no text")

// Error is a failure of one pipeline stage.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Upload is an incoming recording before it is stored.
type Upload struct {
	Body     io.Reader
	Filename string
	MimeType string
}

// Result is the outcome of one pipeline run. On a summary failure it is
// returned alongside the error with Summary left empty.
type Result struct {
	File          *asset.UploadedAsset `json:"file"`
	Transcription string               `json:"transcription"`
	Language      string               `json:"language,omitempty"`
	Summary       string               `json:"summary"`
}
