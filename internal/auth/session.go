package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatherly/gatherly/internal/model"
)

// DefaultSessionTTL is the lifetime of an issued session token.
const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrMissingToken indicates no session token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken indicates a bad signature or malformed payload.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims is the signed payload of a session token.
type SessionClaims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies stateless session tokens.
// Tokens are HS256 JWTs; nothing is stored server-side, so a token stays
// valid until it expires even after the client discards it.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// NewSessionManager creates a SessionManager signing with secret.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionManager(secret string, ttl time.Duration, opts ...SessionOption) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the configured token lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the identity and returns it with its expiry.
func (m *SessionManager) Issue(identity model.Identity) (string, time.Time, error) {
	if identity.UserID == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := &SessionClaims{
		UserID: identity.UserID,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the token signature and expiry and returns the identity it carries.
func (m *SessionManager) Verify(tokenString string) (*model.Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		UserID: claims.UserID,
		Name:   claims.Name,
	}, nil
}
