package gateway

import (
	"strings"
	"testing"
	"time"
)

func TestNewTokenServiceRequiresCredentials(t *testing.T) {
	cases := []struct {
		name   string
		key    string
		secret string
	}{
		{"missing key", "", "secret"},
		{"missing secret", "key", ""},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTokenService(tc.key, tc.secret, "ws://localhost:7880", time.Hour)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestNewTokenServiceDefaultTTL(t *testing.T) {
	svc, err := NewTokenService("key", "secret", "ws://localhost:7880", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.TTL() != DefaultTokenTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTokenTTL, svc.TTL())
	}
}

func TestGenerateToken(t *testing.T) {
	svc, err := NewTokenService("devkey", "devsecret-devsecret-devsecret-32", "ws://localhost:7880", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := svc.GenerateToken("nav-client", "Navigation Client", "vision-nav-room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected a JWT with three segments, got %q", token)
	}
}

func TestTokenServiceURL(t *testing.T) {
	svc, err := NewTokenService("key", "secret", "wss://livekit.example.com", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.URL() != "wss://livekit.example.com" {
		t.Errorf("expected URL to round-trip, got %q", svc.URL())
	}
}
