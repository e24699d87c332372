package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"pflegebox/internal/domain"
	"pflegebox/internal/metrics"
)

var (
	ErrBadCreds      = errors.New("invalid password")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotConfigured = errors.New("admin login is not configured")
)

// AuthService is the admin gate: one shared secret, one capability token.
// There are no user accounts and no revocation list; a token dies with its
// expiry or with rotation of the signing secret.
type AuthService struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	Now    func() time.Time
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService prepares the gate. passwordHash (bcrypt) takes precedence
// over the plain password, which is hashed once here. An empty password or
// secret leaves the gate unconfigured: every Login fails with
// ErrNotConfigured and every Verify fails.
func NewAuthService(password, passwordHash, secret string, ttl time.Duration) (*AuthService, error) {
	s := &AuthService{secret: []byte(secret), ttl: ttl, Now: time.Now}
	if s.ttl <= 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		s.hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.hash = h
	}
	return s, nil
}

func (s *AuthService) configured() bool { return len(s.hash) > 0 && len(s.secret) > 0 }

func (s *AuthService) TTL() time.Duration { return s.ttl }

// Login checks candidate against the admin secret and issues a signed
// session token on success.
func (s *AuthService) Login(candidate string) (string, time.Time, error) {
	if !s.configured() {
		return "", time.Time{}, ErrNotConfigured
	}
	if bcrypt.CompareHashAndPassword(s.hash, []byte(candidate)) != nil {
		metrics.AdminLogins.WithLabelValues("fail").Inc()
		return "", time.Time{}, ErrBadCreds
	}
	now := s.Now()
	exp := now.Add(s.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	metrics.AdminLogins.WithLabelValues("ok").Inc()
	return signed, exp, nil
}

// Verify accepts only tokens whose signature recomputes exactly under the
// current secret, that are unexpired and carry the admin role. Malformed
// tokens are invalid, never a crash.
func (s *AuthService) Verify(token string) (*domain.AdminSession, error) {
	if !s.configured() || token == "" {
		return nil, ErrUnauthorized
	}
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Role != domain.RoleAdmin {
		return nil, ErrUnauthorized
	}
	sess := &domain.AdminSession{Role: claims.Role, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	return sess, nil
}
