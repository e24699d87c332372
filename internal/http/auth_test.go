package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"pflegebox/internal/http/handlers"
)

func TestAdminLoginSuccessFailAndThrottle(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{LoginLimit: handlers.LoginLimit{Max: 2, Window: time.Minute}})

	bad := env.do(t, "POST", "/api/admin/login", map[string]string{"password": "wrong"})
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", bad.StatusCode)
	}
	if findCookie(bad, handlers.AdminCookie) != nil {
		t.Fatal("failed login must not issue a session cookie")
	}
	if body := decodeJSON(t, bad); body["ok"] != false || body["error"] == "" {
		t.Fatalf("unexpected failure body: %v", body)
	}

	good := env.do(t, "POST", "/api/admin/login", map[string]string{"password": testAdminPassword})
	if good.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", good.StatusCode)
	}
	c := findCookie(good, handlers.AdminCookie)
	if c == nil || c.Value == "" {
		t.Fatal("session cookie missing")
	}
	if !c.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.Secure {
		t.Fatal("Secure is only set in production")
	}
	if ttl := time.Until(c.Expires); ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Fatalf("cookie should live 7 days, got %s", ttl)
	}

	third := env.do(t, "POST", "/api/admin/login", map[string]string{"password": "wrong"})
	if third.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", third.StatusCode)
	}
}

func TestAdminSessionEndpoint(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})

	resp := env.do(t, "GET", "/api/admin/session", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 when logged out, got %d", resp.StatusCode)
	}

	c := env.adminCookie(t)
	resp = env.do(t, "GET", "/api/admin/session", nil, c)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 when logged in, got %d", resp.StatusCode)
	}
	if body := decodeJSON(t, resp); body["role"] != "admin" {
		t.Fatalf("unexpected session body: %v", body)
	}
}

func TestTamperedSessionCookieRejected(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	c := env.adminCookie(t)

	parts := strings.Split(c.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	payload := []byte(parts[1])
	if payload[1] == 'A' {
		payload[1] = 'B'
	} else {
		payload[1] = 'A'
	}
	forged := *c
	forged.Value = parts[0] + "." + string(payload) + "." + parts[2]

	for _, v := range []string{forged.Value, "garbage", "a..b", ""} {
		cookie := &http.Cookie{Name: handlers.AdminCookie, Value: v}
		resp := env.do(t, "GET", "/api/admin/customers", nil, cookie)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("cookie %q: expected 401, got %d", v, resp.StatusCode)
		}
	}
}

func TestAdminLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	env.adminCookie(t)

	resp := env.do(t, "POST", "/api/admin/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	c := findCookie(resp, handlers.AdminCookie)
	if c == nil || c.Value != "" || c.Expires.After(time.Now()) {
		t.Fatalf("expected an expired empty cookie, got %+v", c)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	env.deps.AuthHandler.Auth = mustUnconfiguredAuth(t)

	resp := env.do(t, "POST", "/api/admin/login", map[string]string{"password": "anything"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 without admin secrets, got %d", resp.StatusCode)
	}
}
