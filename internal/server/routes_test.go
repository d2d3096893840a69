package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
	"github.com/xpanvictor/ticnote/internal/domains/insight"
	"github.com/xpanvictor/ticnote/internal/domains/pipeline"
	"github.com/xpanvictor/ticnote/internal/handlers"
	"github.com/xpanvictor/ticnote/internal/handlers/websocket"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/assistant"
	"golang.org/x/crypto/bcrypt"
)

type nopIngester struct{}

func (nopIngester) Ingest(context.Context, pipeline.Upload) (*pipeline.Result, error) {
	return &pipeline.Result{}, nil
}

func newTestRouter(t *testing.T, withAuth bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := Logger.NewNop()

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "uploads/1700000000000.webm", []byte("webm-bytes"), 0o644)

	connections := websocket.NewConnectionManager(logger)
	t.Cleanup(func() { connections.Close() })
	insightService := insight.NewService(assistant.NewMockWith("canned"), time.Second, logger)

	dep := Dependencies{
		Logger:         logger,
		Uploads:        afero.NewHttpFs(fs).Dir("uploads"),
		AudioHandler:   handlers.NewAudioHandler(nopIngester{}, connections, 1<<20, logger),
		InsightHandler: handlers.NewInsightHandler(insightService, logger),
	}

	var verifier auth.Verifier
	if withAuth {
		hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		service := auth.NewAuthService(
			auth.NewAccountRepository([]config.AccountConfig{{Username: "demo", PasswordHash: string(hash)}}),
			logger, "secret", time.Hour,
		)
		dep.AuthHandler = handlers.NewAuthHandler(service, logger)
		dep.Verifier = service
		verifier = service
	}
	dep.WebSocketHandler = websocket.NewWebSocketHandler(logger, insightService, verifier, connections)

	r := gin.New()
	InitializeRoutes(r, dep)
	return r
}

func serve(r http.Handler, method, path string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBannerAndHealth(t *testing.T) {
	r := newTestRouter(t, false)

	rec := serve(r, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != banner {
		t.Errorf("unexpected banner %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected health %d %q", rec.Code, rec.Body.String())
	}
}

func TestBothRouteFamiliesAnswer(t *testing.T) {
	r := newTestRouter(t, false)
	body := []byte(`{"question":"What is this about?","context":"..."}`)

	for _, path := range []string{"/ask", "/api/ask"} {
		rec := serve(r, http.MethodPost, path, body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var resp handlers.AskResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Answer != "canned" {
			t.Errorf("%s: unexpected answer %q", path, resp.Answer)
		}
	}
}

func TestWrongVerbIsMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/upload"},
		{http.MethodGet, "/api/upload"},
		{http.MethodPut, "/api/summarize"},
		{http.MethodDelete, "/ask"},
		{http.MethodGet, "/api/ask"},
	} {
		rec := serve(r, tc.method, tc.path, nil, nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.path, rec.Code)
			continue
		}
		if rec.Body.String() != `{"error":"Method not allowed"}` {
			t.Errorf("%s %s: unexpected body %q", tc.method, tc.path, rec.Body.String())
		}
	}
}

func TestUploadsAreServed(t *testing.T) {
	r := newTestRouter(t, false)

	rec := serve(r, http.MethodGet, "/uploads/1700000000000.webm", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "webm-bytes" {
		t.Errorf("unexpected static response %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodGet, "/uploads/missing.webm", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing upload, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, false)

	rec := serve(r, http.MethodOptions, "/api/upload", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("credentials must not be allowed with a wildcard origin, got %q", got)
	}
}

func TestSwaggerDoc(t *testing.T) {
	r := newTestRouter(t, false)

	rec := serve(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("/api/upload")) {
		t.Errorf("unexpected swagger doc %d", rec.Code)
	}
}

func TestAuthProtectsAPI(t *testing.T) {
	r := newTestRouter(t, true)
	body := []byte(`{"text":"notes"}`)

	rec := serve(r, http.MethodPost, "/api/summarize", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	for _, path := range []string{"/uploads/1700000000000.webm", "/ws/stats"} {
		if rec := serve(r, http.MethodGet, path, nil, nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401 without a token, got %d", path, rec.Code)
		}
	}

	rec = serve(r, http.MethodPost, "/login", []byte(`{"login":"demo","password":"pw"}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var login handlers.LoginResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &login)

	rec = serve(r, http.MethodPost, "/api/summarize", body, map[string]string{"Authorization": "Bearer " + login.Token.AccessToken})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with a token, got %d %s", rec.Code, rec.Body.String())
	}
	bearer := map[string]string{"Authorization": "Bearer " + login.Token.AccessToken}
	if rec := serve(r, http.MethodGet, "/uploads/1700000000000.webm", nil, bearer); rec.Code != http.StatusOK {
		t.Errorf("expected upload to be served with a token, got %d", rec.Code)
	}
}
