// Package token issues and verifies the signed access tokens shared
// between the identity service and the gateway.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/taskmesh/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed structure, bad signature, expiry, or missing user id.
var ErrInvalidToken = errors.New("invalid token")

// Manager issues and verifies access tokens using a single symmetric
// secret and a single fixed algorithm, both set at construction.
type Manager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	log    *zap.Logger
}

// New constructs a Manager. algorithm must name a known HMAC signing
// method (e.g. "HS256"); ttl is the lifetime of issued tokens.
func New(secret, algorithm string, ttl time.Duration, log *zap.Logger) (*Manager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("algorithm %q is not a symmetric method", algorithm)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		log:    log,
	}, nil
}

// Issue creates a signed token carrying the subject username and user id,
// expiring after the configured TTL.
func (m *Manager) Issue(username string, userID int64) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the raw token string and returns its claims.
// Any signature mismatch, malformed structure, expired timestamp, or
// missing user id yields ErrInvalidToken, never partial claims.
func (m *Manager) Verify(raw string) (*models.Claims, error) {
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}))
	if err != nil {
		m.log.Debug("token verification failed", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		m.log.Debug("token rejected", zap.String("reason", "token not valid"))
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		m.log.Debug("token rejected", zap.String("reason", "missing user_id claim"))
		return nil, ErrInvalidToken
	}
	return claims, nil
}
