package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xpanvictor/ticnote/internal/config"
)

func newChatServer(t *testing.T, status int, content string) (*httptest.Server, <-chan string) {
	t.Helper()
	models := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		models <- body.Model

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, models
}

func TestOpenAIGenerate(t *testing.T) {
	srv, models := newChatServer(t, http.StatusOK, "  It's about X \n")

	gen := NewOpenAI(config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL, ChatModel: "gpt-test"})
	out, err := gen.Generate(context.Background(), "What is this about?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "It's about X" {
		t.Errorf("expected trimmed answer, got %q", out)
	}
	if got := <-models; got != "gpt-test" {
		t.Errorf("expected configured model, got %q", got)
	}
}

func TestOpenAIEmptyContent(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusOK, "")

	gen := NewOpenAI(config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL})
	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOpenAINon2xx(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusBadRequest, "")

	gen := NewOpenAI(config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL})
	if _, err := gen.Generate(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error for 400 response")
	}
}
