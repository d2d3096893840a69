package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
)

// TranscriptionResponse represents the response from Whisper STT service
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// TranscriptionSegment represents a timed segment of transcription
type TranscriptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// WhisperClient talks to a self-hosted whisper ASR webservice.
type WhisperClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *Logger.Logger
}

// NewWhisperClient creates a new Whisper client. Request deadlines come from
// the caller's context.
func NewWhisperClient(baseURL, language string, logger *Logger.Logger) *WhisperClient {
	return &WhisperClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (w *WhisperClient) Name() string {
	return "whisper"
}

// Transcribe streams the recording to /asr and returns the transcription.
func (w *WhisperClient) Transcribe(ctx context.Context, audio stt.AudioFile) (*stt.Transcript, error) {
	if audio.Body == nil {
		return nil, fmt.Errorf("no audio body provided")
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("audio_file", filepath.Base(audio.Name))
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, audio.Body); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to write audio data: %w", err))
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	query := url.Values{}
	query.Set("encode", "true")
	query.Set("task", "transcribe")
	query.Set("output", "json")
	if w.language != "" {
		query.Set("language", w.language)
	}
	requestURL := fmt.Sprintf("%s/asr?%s", w.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("Whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return nil, fmt.Errorf("whisper service returned status %d", resp.StatusCode)
	}

	if len(strings.TrimSpace(string(responseBody))) == 0 {
		return nil, fmt.Errorf("whisper service returned empty response")
	}

	var transcription TranscriptionResponse
	if err := json.Unmarshal(responseBody, &transcription); err != nil {
		// output=txt deployments answer with the bare transcript
		w.logger.Debugf("Treating whisper response as plain text (length=%d)", len(responseBody))
		transcription = TranscriptionResponse{Text: string(responseBody), Language: w.language}
	}

	text := strings.TrimSpace(transcription.Text)
	if text == "" {
		return nil, fmt.Errorf("whisper service returned no text")
	}

	w.logger.Debugf("Whisper transcription done (language: %s, chars: %d)", transcription.Language, len(text))

	return &stt.Transcript{
		Text:        text,
		Language:    transcription.Language,
		GeneratedAt: time.Now(),
	}, nil
}
