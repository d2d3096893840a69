package assistant

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// Generator turns a single prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backing provider in logs and errors.
	Name() string
}

// TextSummarizer is implemented by generators that summarize raw text
// without a prompt. The insight service prefers it over Generate.
type TextSummarizer interface {
	SummarizeText(ctx context.Context, text string) (string, error)
}
