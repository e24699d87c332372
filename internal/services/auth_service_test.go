package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pflegebox/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	a, err := services.NewAuthService("Geheim123!", "", "signing-secret", 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	a := newAuth(t)
	if _, _, err := a.Login("wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	tok, exp, err := a.Login("Geheim123!")
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(exp); d < 7*24*time.Hour-time.Minute || d > 7*24*time.Hour+time.Minute {
		t.Fatalf("want 7d expiry, got %s", d)
	}
	sess, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if sess.Role != "admin" {
		t.Fatalf("want admin role, got %q", sess.Role)
	}
}

func TestVerifyRejectsTamperedAndMalformed(t *testing.T) {
	a := newAuth(t)
	tok, _, err := a.Login("Geheim123!")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape %q", tok)
	}
	// swap the payload for another one: the signature no longer matches
	other := []byte(parts[1])
	if other[0] == 'e' {
		other[0] = 'f'
	} else {
		other[0] = 'e'
	}
	tampered := parts[0] + "." + string(other) + "." + parts[2]

	for _, bad := range []string{tampered, "", "abc", "a.b", "a.b.c", parts[0] + "." + parts[1] + ".", "%%%.###.!!!"} {
		if _, err := a.Verify(bad); !errors.Is(err, services.ErrUnauthorized) {
			t.Fatalf("token %q: want ErrUnauthorized, got %v", bad, err)
		}
	}
}

func TestVerifyRejectsExpiredAndRotatedSecret(t *testing.T) {
	a := newAuth(t)
	tok, _, _ := a.Login("Geheim123!")

	a.Now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, err := a.Verify(tok); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expired token accepted: %v", err)
	}

	rotated, _ := services.NewAuthService("Geheim123!", "", "new-secret", 0)
	if _, err := rotated.Verify(tok); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("token survived secret rotation: %v", err)
	}
}

func TestPasswordHashConfig(t *testing.T) {
	h, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	a, err := services.NewAuthService("ignored", string(h), "s", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Login("Passw0rd!"); err != nil {
		t.Fatalf("hash login failed: %v", err)
	}
	if a.TTL() != 7*24*time.Hour {
		t.Fatalf("default ttl not applied: %s", a.TTL())
	}
	if _, err := services.NewAuthService("", "not-a-bcrypt-hash", "s", 0); err == nil {
		t.Fatal("expected bad hash error")
	}
}

func TestUnconfiguredGate(t *testing.T) {
	a, err := services.NewAuthService("", "", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Login("anything"); !errors.Is(err, services.ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
	if _, err := a.Verify("x.y.z"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}
