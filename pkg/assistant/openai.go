package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/ticnote/internal/config"
)

type openAIGenerator struct {
	client openai.Client
	model  string
}

// Generate implements Generator.
func (o openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	chatCompletion, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Model: openai.ChatModel(o.model),
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(chatCompletion.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (o openAIGenerator) Name() string {
	return "openai"
}

// NewOpenAI builds a chat-completion backed Generator. BaseURL may point at
// any OpenAI compatible endpoint.
func NewOpenAI(cfg config.OpenAIConfig) Generator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.ChatModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	return openAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}
