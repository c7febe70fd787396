// Package auth issues and verifies the signed identity tokens that gate every
// protected endpoint. Tokens are HS256 JWTs carrying the customer id and role
// and are never persisted or revoked server-side; they simply expire.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed payload, or an expired token. Callers only need to
// know the token is unusable, not why.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity decoded from a verified token.
type Claims struct {
	CustomerID uint64
	Role       string
}

// Issuer signs and verifies tokens with a process-wide secret. The secret is
// injected at construction rather than read from a global so tests can run
// with distinct secrets.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with secret. Tokens expire ttl after
// issuance.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue builds and signs an HS256 JWT embedding the customer id and role.
// Claims are `id` for the subject and `role`, alongside the standard exp/iat
// timestamps.
func (i *Issuer) Issue(customerID uint64, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":   customerID,
		"role": role,
		"exp":  now.Add(i.ttl).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify parses and validates a token string. It succeeds only for tokens
// signed with this issuer's secret using HMAC and not yet expired; every
// failure is reported as ErrInvalidToken.
func (i *Issuer) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	id, ok := mc["id"].(float64) // JSON numbers decode as float64
	if !ok || id < 0 {
		return Claims{}, ErrInvalidToken
	}
	role, ok := mc["role"].(string)
	if !ok || role == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{CustomerID: uint64(id), Role: role}, nil
}
