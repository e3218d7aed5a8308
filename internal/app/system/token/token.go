// Package token mints and verifies the signed session tokens used for
// stateless bearer authentication. A token carries only the user ID and
// its issue time; validity is determined by signature and expiry alone.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when a Manager is constructed with a zero expiry.
const DefaultTTL = 90 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or missing its subject.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified content of a session token.
type Claims struct {
	UserID   string
	IssuedAt time.Time
}

// Manager issues and verifies HS256-signed session tokens. It has no
// state beyond its configuration and is safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTTL.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a signed token for userID with the configured expiry.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// All failure modes collapse to ErrInvalidToken so callers cannot leak
// the distinction to clients.
func (m *Manager) Verify(tokenString string) (Claims, error) {
	var rc jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenString, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(rc.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}

	var issuedAt time.Time
	if rc.IssuedAt != nil {
		issuedAt = rc.IssuedAt.Time
	}
	return Claims{UserID: rc.Subject, IssuedAt: issuedAt}, nil
}
