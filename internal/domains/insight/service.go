package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xpanvictor/ticnote/internal/constants/prompts"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/assistant"
)

// Common errors
var (
	ErrTextRequired     = errors.New("text is required")
	ErrQuestionRequired = errors.New("question is required")
)

// ProviderError wraps any failure of the generative provider.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Service produces summaries and answers from text.
type Service interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, question, contextText string) (string, error)
}

type insightService struct {
	generator assistant.Generator
	timeout   time.Duration
	logger    *Logger.Logger
}

// NewService builds a Service on top of generator. A positive timeout bounds
// every provider call.
func NewService(generator assistant.Generator, timeout time.Duration, logger *Logger.Logger) Service {
	return &insightService{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Summarize implements Service
func (s *insightService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrTextRequired
	}
	if summarizer, ok := s.generator.(assistant.TextSummarizer); ok {
		return s.call(ctx, "summarize", func(ctx context.Context) (string, error) {
			return summarizer.SummarizeText(ctx, text)
		})
	}
	prompt := prompts.SUMMARY_PROMPT.GetCurrentPrompt().Render(text)
	return s.generate(ctx, "summarize", prompt)
}

// Answer implements Service
func (s *insightService) Answer(ctx context.Context, question, contextText string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrQuestionRequired
	}
	if strings.TrimSpace(contextText) == "" {
		contextText = prompts.NoContext
	}
	prompt := prompts.ANSWER_PROMPT.GetCurrentPrompt().Render(contextText, question)
	return s.generate(ctx, "answer", prompt)
}

func (s *insightService) generate(ctx context.Context, op, prompt string) (string, error) {
	return s.call(ctx, op, func(ctx context.Context) (string, error) {
		return s.generator.Generate(ctx, prompt)
	})
}

func (s *insightService) call(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	out, err := fn(ctx)
	if err == nil && strings.TrimSpace(out) == "" {
		err = assistant.ErrEmptyResponse
	}
	if err != nil {
		s.logger.Errorf("%s via %s failed after %s: %v", op, s.generator.Name(), time.Since(started), err)
		return "", &ProviderError{Provider: s.generator.Name(), Op: op, Err: err}
	}
	s.logger.Debugf("%s via %s done in %s", op, s.generator.Name(), time.Since(started))
	return out, nil
}
