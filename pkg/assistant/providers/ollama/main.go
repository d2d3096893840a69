package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/pkg/assistant"
	"go.uber.org/zap"
)

// OllamaProvider generates text on the first online server of a farm.
type OllamaProvider struct {
	ollamafarm *ollamafarm.Farm
	model      string
}

func New(cfg config.OllamaConfig, logger *zap.SugaredLogger) (*OllamaProvider, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("no ollama servers configured")
	}
	farm := ollamafarm.New()

	registered := 0
	for _, url := range cfg.URLs {
		if err := farm.RegisterURL(url, nil); err != nil {
			logger.Warnf("failed to register ollama server %s: %v", url, err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return nil, fmt.Errorf("none of the %d ollama servers could be registered", len(cfg.URLs))
	}

	return &OllamaProvider{
		ollamafarm: farm,
		model:      cfg.Model,
	}, nil
}

// Generate implements assistant.Generator.
func (o *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	// pick first available client
	server := o.ollamafarm.First(&ollamafarm.Where{Offline: false})
	if server == nil {
		return "", fmt.Errorf("no online ollama server for model %v", o.model)
	}

	stream := false
	var collector responseCollector
	err := server.Client().Generate(ctx, &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
	}, collector.add)
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}
	return collector.text()
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}

// responseCollector accumulates streamed or single-shot generate chunks.
type responseCollector struct {
	sb strings.Builder
}

func (c *responseCollector) add(resp api.GenerateResponse) error {
	c.sb.WriteString(resp.Response)
	return nil
}

func (c *responseCollector) text() (string, error) {
	out := strings.TrimSpace(c.sb.String())
	if out == "" {
		return "", assistant.ErrEmptyResponse
	}
	return out, nil
}
