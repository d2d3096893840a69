package prompts

import (
	"strings"
	"testing"
)

func TestCurrentPromptsRender(t *testing.T) {
	summary := SUMMARY_PROMPT.GetCurrentPrompt().Render("the transcript")
	if !strings.HasSuffix(summary, "\n\nthe transcript") {
		t.Errorf("summary prompt should end with the text, got %q", summary)
	}

	answer := ANSWER_PROMPT.GetCurrentPrompt().Render("ctx body", "What is this about?")
	if !strings.Contains(answer, "Context: ctx body") || !strings.HasSuffix(answer, "Question: What is this about?") {
		t.Errorf("unexpected answer prompt %q", answer)
	}
}

func TestGetVersion(t *testing.T) {
	v1, ok := SUMMARY_PROMPT.GetVersion(0.1)
	if !ok {
		t.Fatalf("expected version 0.1 to exist")
	}
	if got := v1.Render("abc"); got != "Summarize the following text:\n\nabc" {
		t.Errorf("unexpected v0.1 render %q", got)
	}
	if _, ok := ANSWER_PROMPT.GetVersion(9.9); ok {
		t.Errorf("unknown version should not be found")
	}
}
