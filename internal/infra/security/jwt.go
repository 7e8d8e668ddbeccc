package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure reported for any credential that does
// not verify: bad signature, malformed payload, expiry, or wrong algorithm.
// Callers must not learn which check failed.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Claims carried by an issued credential.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CredentialCodec issues and verifies HMAC-signed bearer credentials.
// It holds no per-request state and is safe for concurrent use.
type CredentialCodec struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
	now      func() time.Time
}

// NewCredentialCodec constructs a codec over the configured signing secret.
func NewCredentialCodec(secret, issuer string, tokenTTL time.Duration) (*CredentialCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt: signing secret must not be empty")
	}
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("jwt: token ttl must be positive")
	}

	return &CredentialCodec{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}, nil
}

// WithClock injects a custom clock, primarily for testing.
func (c *CredentialCodec) WithClock(now func() time.Time) *CredentialCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// Issue signs a credential for the given subject and username.
func (c *CredentialCodec) Issue(subjectID, username string) (string, error) {
	now := c.now()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a credential, returning its claims.
// Every failure mode collapses into ErrInvalidToken.
func (c *CredentialCodec) Verify(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
