package auth

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken() error = %v", err)
	}
	if len(tok) != 64 {
		t.Errorf("len(token) = %d, want 64", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Errorf("token %q is not hex: %v", tok, err)
	}

	other, _ := NewSessionToken()
	if other == tok {
		t.Error("two NewSessionToken() calls returned the same token")
	}
}

func TestTokenHasher_Digest(t *testing.T) {
	h, err := NewTokenHasher("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenHasher() error = %v", err)
	}

	d1 := h.Digest("token-a")
	if d1 != h.Digest("token-a") {
		t.Error("Digest() is not deterministic")
	}
	if d1 == h.Digest("token-b") {
		t.Error("different tokens produced the same digest")
	}
	if d1 == "token-a" {
		t.Error("Digest() returned the raw token")
	}
	if len(d1) != 64 {
		t.Errorf("len(digest) = %d, want 64 hex chars", len(d1))
	}

	other, _ := NewTokenHasher("another-secret-of-16-chars")
	if other.Digest("token-a") == d1 {
		t.Error("digest does not depend on the secret")
	}
}

func TestNewTokenHasher_ShortSecret(t *testing.T) {
	if _, err := NewTokenHasher("short"); err == nil {
		t.Fatal("NewTokenHasher() should reject short secrets")
	}
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie("abc", 24*time.Hour, true)

	if c.Name != SessionCookieName || c.Value != "abc" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
	if c.Domain != "" {
		t.Errorf("Domain = %q, want host-only", c.Domain)
	}
	if c.MaxAge != 86400 {
		t.Errorf("MaxAge = %d, want 86400", c.MaxAge)
	}
	if !c.Secure {
		t.Error("Secure should follow the flag")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("TokenFromRequest() without cookie = %q, want empty", got)
	}

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "xyz"})
	if got := TokenFromRequest(r); got != "xyz" {
		t.Errorf("TokenFromRequest() = %q, want %q", got, "xyz")
	}
}
