package assistant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const previewRunes = 100

var cannedResponses = []string{
	"This recording covers a short discussion of the main topic with a few follow-up points.",
	"The speaker outlines the key ideas, gives an example and closes with next steps.",
	"A brief note: the main point is stated early and repeated at the end for emphasis.",
	"Not enough real analysis is available offline, so this is a placeholder response.",
}

// MockGenerator answers every prompt with a random canned string and
// summarizes text from its shape. It is used when no provider credentials
// are configured.
type MockGenerator struct {
	responses []string
}

func NewMock() *MockGenerator {
	return &MockGenerator{responses: cannedResponses}
}

// NewMockWith is NewMock with a fixed response set.
func NewMockWith(responses ...string) *MockGenerator {
	if len(responses) == 0 {
		return NewMock()
	}
	return &MockGenerator{responses: responses}
}

func (m *MockGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.responses[rand.IntN(len(m.responses))], nil
}

func (m *MockGenerator) Name() string {
	return "mock"
}

// SummarizeText reports the size of text and a short preview of it.
func (m *MockGenerator) SummarizeText(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	preview := text
	if utf8.RuneCountInString(text) > previewRunes {
		preview = string([]rune(text)[:previewRunes]) + "..."
	}
	return fmt.Sprintf(
		"Summary (offline): %d characters, %d words.\nPreview: %s\nConfigure a provider API key for a real summary.",
		utf8.RuneCountInString(text), len(strings.Fields(text)), preview,
	), nil
}
