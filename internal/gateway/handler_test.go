package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eleven-am/vision-nav/internal/dto"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	svc, err := NewTokenService("devkey", "devsecret-devsecret-devsecret-32", "ws://localhost:7880", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewHandler(svc, "vision-nav-room", logger)
}

func doTokenRequest(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/livekit/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateToken(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCreateToken(t *testing.T) {
	h := newTestHandler(t)
	rec := doTokenRequest(t, h, `{"identity":"nav-client","name":"Navigation Client"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected non-empty token")
	}
	if resp.Room != "vision-nav-room" {
		t.Errorf("expected default room, got %q", resp.Room)
	}
	if resp.Identity != "nav-client" {
		t.Errorf("expected identity nav-client, got %q", resp.Identity)
	}
	if resp.URL != "ws://localhost:7880" {
		t.Errorf("expected server URL, got %q", resp.URL)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expected future expiry, got %v", resp.ExpiresAt)
	}
}

func TestCreateTokenExplicitRoom(t *testing.T) {
	h := newTestHandler(t)
	rec := doTokenRequest(t, h, `{"identity":"cam-1","room":"other-room"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Room != "other-room" {
		t.Errorf("expected other-room, got %q", resp.Room)
	}
}

func TestCreateTokenMissingIdentity(t *testing.T) {
	h := newTestHandler(t)
	rec := doTokenRequest(t, h, `{"room":"vision-nav-room"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateTokenInvalidBody(t *testing.T) {
	h := newTestHandler(t)
	rec := doTokenRequest(t, h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
