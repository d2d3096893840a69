package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/pkg/assistant"
	"google.golang.org/api/option"
)

// GeminiProvider generates text with a single Gemini model.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// New creates a new GeminiProvider instance.
func New(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Generate implements assistant.Generator.
func (gp *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if gp.client == nil {
		return "", fmt.Errorf("gemini client is not initialized")
	}

	resp, err := gp.client.GenerativeModel(gp.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := collectText(resp)
	if text == "" {
		return "", assistant.ErrEmptyResponse
	}
	return text, nil
}

func (gp *GeminiProvider) Name() string {
	return "gemini"
}

func (gp *GeminiProvider) Close() error {
	return gp.client.Close()
}

// collectText joins the text parts of the first candidate that has any.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if out := strings.TrimSpace(sb.String()); out != "" {
			return out
		}
	}
	return ""
}
