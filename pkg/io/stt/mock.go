package stt

import (
	"context"
	"fmt"
	"time"
)

// MockTranscriber simulates a speech service: it waits for the configured
// delay and returns a canned transcript naming the stored file.
type MockTranscriber struct {
	delay time.Duration
}

func NewMock(delay time.Duration) *MockTranscriber {
	return &MockTranscriber{delay: delay}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio AudioFile) (*Transcript, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Transcript{
		Text: fmt.Sprintf(
			"This is a simulated transcription of your audio file: %s. "+
				"In a real application, this would be the actual transcribed text from the audio.",
			audio.Path,
		),
		Language:    "en-US",
		GeneratedAt: time.Now(),
	}, nil
}

func (m *MockTranscriber) Name() string {
	return "mock"
}
