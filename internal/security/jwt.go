package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token validation errors.
var (
	// ErrInvalidToken indicates a token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("token expired")
)

// IdentityClaims are the claims this service consumes from tokens issued by
// the external identity provider. Token issuance and session refresh are the
// provider's concern; only verification happens here.
type IdentityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the provider-issued UUID carried in the subject claim.
func (c *IdentityClaims) UserID() string {
	return strings.TrimSpace(c.Subject)
}

// ParseIdentityToken verifies an identity provider JWT with the shared HS256
// secret and returns its claims. The subject must be a valid UUID.
func ParseIdentityToken(secret, tokenString string, leeway time.Duration) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(leeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, errParse := uuid.Parse(claims.UserID()); errParse != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
