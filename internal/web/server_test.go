package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propdesk/leadbook/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 30 * time.Second,
		},
		Session: config.SessionConfig{
			DemoUserID: "11111111-1111-1111-1111-111111111111",
			CookieName: "userId",
		},
		Rate: config.RateLimitConfig{Enabled: false},
	}
}

func TestHandleLogin_SetsSessionCookie(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "userId" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("no userId cookie set")
	}
	if session.Value != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("cookie value = %q, want demo user id", session.Value)
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestHandleGetLead_InvalidID(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestRateLimiter_BlocksAfterBudget(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first request should pass")
	}
	if !rl.allow("10.0.0.1") {
		t.Fatal("second request should pass")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request should be rejected")
	}

	// Other IPs have their own budget.
	if !rl.allow("10.0.0.2") {
		t.Error("different IP should pass")
	}
}
