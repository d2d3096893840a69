package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/assistant"
	"github.com/xpanvictor/ticnote/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/ticnote/pkg/assistant/providers/ollama"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
	sttopenai "github.com/xpanvictor/ticnote/pkg/io/stt/openai"
	"github.com/xpanvictor/ticnote/pkg/io/stt/whisper"
)

const (
	providerGemini  = "gemini"
	providerOpenAI  = "openai"
	providerOllama  = "ollama"
	providerWhisper = "whisper"
	providerMock    = "mock"
)

// ProviderFactory builds the text generator and the transcriber from the
// configured settings.
type ProviderFactory struct {
	config *config.Settings
	logger *Logger.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Settings, logger *Logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		logger: logger,
	}
}

// AssistantProvider resolves the generator name. Without an explicit choice
// the first provider with credentials wins, then mock.
func (f *ProviderFactory) AssistantProvider() string {
	cfg := f.config.Assistant
	switch {
	case cfg.Provider != "":
		return strings.ToLower(cfg.Provider)
	case cfg.Gemini.APIKey != "":
		return providerGemini
	case cfg.OpenAI.APIKey != "":
		return providerOpenAI
	case len(cfg.Ollama.URLs) > 0:
		return providerOllama
	default:
		return providerMock
	}
}

// TranscriptionProvider resolves the transcriber name the same way.
func (f *ProviderFactory) TranscriptionProvider() string {
	cfg := f.config.Transcription
	switch {
	case cfg.Provider != "":
		return strings.ToLower(cfg.Provider)
	case cfg.Whisper.BaseURL != "":
		return providerWhisper
	case f.config.Assistant.OpenAI.APIKey != "":
		return providerOpenAI
	default:
		return providerMock
	}
}

// CreateGenerator creates the text generator used for summaries and answers.
func (f *ProviderFactory) CreateGenerator(ctx context.Context) (assistant.Generator, error) {
	cfg := f.config.Assistant

	var generator assistant.Generator
	switch name := f.AssistantProvider(); name {
	case providerGemini:
		provider, err := gemini.New(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		generator = provider
	case providerOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider selected without an API key")
		}
		generator = assistant.NewOpenAI(cfg.OpenAI)
	case providerOllama:
		provider, err := ollama.New(cfg.Ollama, f.logger.SugaredLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama provider: %w", err)
		}
		generator = provider
	case providerMock:
		f.logger.Warn("no assistant provider configured, using mock responses")
		generator = assistant.NewMock()
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", name)
	}

	f.logger.Infof("assistant provider: %s", generator.Name())
	return generator, nil
}

// CreateTranscriber creates the speech to text backend.
func (f *ProviderFactory) CreateTranscriber() (stt.Transcriber, error) {
	cfg := f.config.Transcription

	var transcriber stt.Transcriber
	switch name := f.TranscriptionProvider(); name {
	case providerWhisper:
		if cfg.Whisper.BaseURL == "" {
			return nil, fmt.Errorf("whisper provider selected without a base_url")
		}
		transcriber = whisper.NewWhisperClient(cfg.Whisper.BaseURL, cfg.Language, f.logger)
	case providerOpenAI:
		if f.config.Assistant.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai transcription selected without an API key")
		}
		transcriber = sttopenai.New(f.config.Assistant.OpenAI, cfg.Language)
	case providerMock:
		f.logger.Warn("no transcription provider configured, using simulated transcripts")
		transcriber = stt.NewMock(cfg.MockDelay)
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", name)
	}

	f.logger.Infof("transcription provider: %s", transcriber.Name())
	return transcriber, nil
}
