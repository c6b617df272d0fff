// Package token implements the session authority: it issues and verifies
// signed, time-bounded credentials carrying account identity and role.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carelink/internal/models"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Identity is what a verified credential proves about the caller.
// Callers see nothing of the signing material.
type Identity struct {
	AccountID int64
	Name      string
	Role      models.Role
}

// Claims embeds the registered JWT claims plus the identity fields.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64       `json:"account_id"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
}

// Manager issues and verifies session credentials with an injected secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret comes from configuration;
// there is no package-level signing state.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue produces a signed credential for the given account.
func (m *Manager) Issue(accountID int64, name string, role models.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: accountID,
		Name:      name,
		Role:      role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks a credential and returns the identity it encodes.
// It has no side effects and distinguishes malformed tokens, bad
// signatures, and expired tokens.
func (m *Manager) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !parsed.Valid || claims.AccountID == 0 {
		return nil, ErrTokenInvalid
	}

	return &Identity{
		AccountID: claims.AccountID,
		Name:      claims.Name,
		Role:      claims.Role,
	}, nil
}
