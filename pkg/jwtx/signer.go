package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken reports a token that failed signature or structural checks.
	ErrInvalidToken = errors.New("jwtx: invalid token")
	// ErrTokenExpired reports a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Signer signs and verifies portal access tokens with a shared HS256 secret.
// The gateway is both issuer and sole verifier, so symmetric signing keeps
// the key handling simple.
type Signer struct {
	secret []byte
	issuer string
}

func NewSigner(secret []byte, issuer string) (*Signer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwtx: signing secret must be at least 32 bytes, got %d", len(secret))
	}
	if issuer == "" {
		return nil, errors.New("jwtx: issuer must not be empty")
	}
	return &Signer{secret: secret, issuer: issuer}, nil
}

// Sign produces a compact HS256 JWT for claims.
func (s *Signer) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

// Issue mints a signed access token for subject with this signer's issuer.
func (s *Signer) Issue(subject, email, role string, ttl time.Duration, now time.Time) (string, error) {
	return s.Sign(NewAccessClaims(subject, email, role, s.issuer, ttl, now))
}

// Verify parses raw, checks the signature, expiry and issuer, and returns
// the embedded claims.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
