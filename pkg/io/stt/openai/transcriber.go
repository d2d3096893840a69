package openai

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
)

// Transcriber sends recordings to the hosted OpenAI transcription endpoint.
type Transcriber struct {
	client   sdk.Client
	model    string
	language string
}

func New(cfg config.OpenAIConfig, language string) *Transcriber {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.TranscriptionModel
	if model == "" {
		model = "whisper-1"
	}
	return &Transcriber{
		client:   sdk.NewClient(opts...),
		model:    model,
		language: language,
	}
}

func (t *Transcriber) Name() string {
	return "openai"
}

func (t *Transcriber) Transcribe(ctx context.Context, audio stt.AudioFile) (*stt.Transcript, error) {
	if audio.Body == nil {
		return nil, fmt.Errorf("no audio body provided")
	}

	params := sdk.AudioTranscriptionNewParams{
		File:  sdk.File(audio.Body, filepath.Base(audio.Name), audio.MimeType),
		Model: sdk.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = sdk.String(t.language)
	}

	res, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai transcription failed: %w", err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return nil, fmt.Errorf("openai transcription returned no text")
	}

	return &stt.Transcript{
		Text:        text,
		Language:    t.language,
		GeneratedAt: time.Now(),
	}, nil
}
