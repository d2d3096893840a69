package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xpanvictor/ticnote/internal/constants/prompts"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/assistant"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	out     string
	err     error
	block   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func TestSummarizeRequiresText(t *testing.T) {
	gen := &fakeGenerator{out: "summary"}
	svc := NewService(gen, 0, Logger.NewNop())

	for _, text := range []string{"", "   \n\t"} {
		if _, err := svc.Summarize(context.Background(), text); !errors.Is(err, ErrTextRequired) {
			t.Errorf("expected ErrTextRequired for %q, got %v", text, err)
		}
	}
	if gen.calls() != 0 {
		t.Errorf("provider must not be called for invalid input")
	}
}

func TestSummarizeUsesPrompt(t *testing.T) {
	gen := &fakeGenerator{out: "short summary"}
	svc := NewService(gen, time.Second, Logger.NewNop())

	out, err := svc.Summarize(context.Background(), "long transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "short summary" {
		t.Errorf("unexpected summary %q", out)
	}
	want := prompts.SUMMARY_PROMPT.GetCurrentPrompt().Render("long transcript")
	if gen.prompts[0] != want {
		t.Errorf("unexpected prompt %q", gen.prompts[0])
	}
}

func TestSummarizePrefersTextSummarizer(t *testing.T) {
	svc := NewService(assistant.NewMockWith("canned"), time.Second, Logger.NewNop())

	out, err := svc.Summarize(context.Background(), "notes from the standup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "canned" || !strings.Contains(out, "4 words") || !strings.Contains(out, "notes from the standup") {
		t.Errorf("expected a summary derived from the text, got %q", out)
	}

	answer, err := svc.Answer(context.Background(), "what?", "notes")
	if err != nil || answer != "canned" {
		t.Errorf("answers still go through Generate, got %q, %v", answer, err)
	}
}

func TestAnswerRequiresQuestion(t *testing.T) {
	gen := &fakeGenerator{out: "answer"}
	svc := NewService(gen, 0, Logger.NewNop())

	if _, err := svc.Answer(context.Background(), " ", "some context"); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("expected ErrQuestionRequired, got %v", err)
	}
	if gen.calls() != 0 {
		t.Errorf("provider must not be called for invalid input")
	}
}

func TestAnswerWithEmptyContext(t *testing.T) {
	gen := &fakeGenerator{out: "I do not have enough context."}
	svc := NewService(gen, 0, Logger.NewNop())

	out, err := svc.Answer(context.Background(), "What is this about?", "")
	if err != nil {
		t.Fatalf("empty context should be allowed: %v", err)
	}
	if out != "I do not have enough context." {
		t.Errorf("unexpected answer %q", out)
	}
	if !strings.Contains(gen.prompts[0], prompts.NoContext) {
		t.Errorf("prompt should carry the no-context marker: %q", gen.prompts[0])
	}
}

func TestAnswerPassesProviderText(t *testing.T) {
	gen := &fakeGenerator{out: "It's about X"}
	svc := NewService(gen, 0, Logger.NewNop())

	out, err := svc.Answer(context.Background(), "What is this about?", "...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "It's about X" {
		t.Errorf("unexpected answer %q", out)
	}
	if !strings.Contains(gen.prompts[0], "Question: What is this about?") {
		t.Errorf("prompt missing question: %q", gen.prompts[0])
	}
}

func TestProviderFailuresAreWrapped(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGenerator
		want error
	}{
		{"transport error", &fakeGenerator{err: errors.New("dial tcp: refused")}, nil},
		{"empty payload", &fakeGenerator{out: "  "}, assistant.ErrEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.gen, 0, Logger.NewNop())
			_, err := svc.Summarize(context.Background(), "text")

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if providerErr.Provider != "fake" || providerErr.Op != "summarize" {
				t.Errorf("unexpected error fields %+v", providerErr)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("expected %v in chain, got %v", tc.want, err)
			}
		})
	}
}

func TestProviderTimeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := NewService(gen, 20*time.Millisecond, Logger.NewNop())

	_, err := svc.Answer(context.Background(), "question", "context")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
