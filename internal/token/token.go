// Package token encodes and verifies the signed tokens issued by the
// authentication service. Tokens are HS512 JWTs; the scope claim is present
// only on access tokens and carries the space-joined role names snapshotted
// at issuance.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	issuer string
}

func NewCodec(signerKey, issuer string) (*Codec, error) {
	if signerKey == "" {
		return nil, errors.New("jwt signer key is required")
	}
	return &Codec{secret: []byte(signerKey), issuer: issuer}, nil
}

// Issue signs a token for subject with the given lifetime. An empty scope is
// omitted from the claim set.
func (c *Codec) Issue(subject string, ttl time.Duration, scope string) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
}

// Verify parses the token and checks its signature. Expiry is deliberately
// not enforced here; callers decide how an expired-but-well-signed token is
// treated (introspection reports valid=false instead of failing).
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expired reports whether the claim set's expiry is strictly before now.
func (c *Codec) Expired(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(time.Now())
}
