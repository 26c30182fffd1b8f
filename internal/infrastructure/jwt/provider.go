package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload. The user id travels in the registered
// Subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared secret.
type Provider struct {
	secret    []byte
	expiry    time.Duration
	expiryRaw string
}

// NewProvider builds a Provider from the shared secret and the configured
// expiry. expiryRaw is echoed back verbatim as the expiresIn of auth
// responses, so it must be the same value expiry was parsed from.
func NewProvider(secret string, expiry time.Duration, expiryRaw string) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &Provider{secret: []byte(secret), expiry: expiry, expiryRaw: expiryRaw}, nil
}

// Sign issues a token carrying userID as the subject claim.
func (p *Provider) Sign(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks the signature and expiry and returns the claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ExpiresIn returns the configured expiry window as it appears in config,
// e.g. "24h".
func (p *Provider) ExpiresIn() string {
	return p.expiryRaw
}
