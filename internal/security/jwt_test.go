package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "portal-test-secret"

func signTestToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := IdentityClaims{
		Email: "member@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if errSign != nil {
		t.Fatalf("sign: %v", errSign)
	}
	return signed
}

func TestParseIdentityTokenValid(t *testing.T) {
	subject := "6f1e5a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b"
	token := signTestToken(t, testSecret, subject, time.Now().Add(time.Hour))

	claims, errParse := ParseIdentityToken(testSecret, token, 30*time.Second)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.UserID() != subject {
		t.Fatalf("expected subject %s, got %s", subject, claims.UserID())
	}
	if claims.Email != "member@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
}

func TestParseIdentityTokenWrongSecret(t *testing.T) {
	token := signTestToken(t, "other-secret", "6f1e5a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b", time.Now().Add(time.Hour))

	_, errParse := ParseIdentityToken(testSecret, token, 0)
	if !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", errParse)
	}
}

func TestParseIdentityTokenExpired(t *testing.T) {
	token := signTestToken(t, testSecret, "6f1e5a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b", time.Now().Add(-time.Hour))

	_, errParse := ParseIdentityToken(testSecret, token, 0)
	if !errors.Is(errParse, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", errParse)
	}
}

func TestParseIdentityTokenExpiredWithinLeeway(t *testing.T) {
	token := signTestToken(t, testSecret, "6f1e5a2b-3c4d-4e5f-8a9b-0c1d2e3f4a5b", time.Now().Add(-10*time.Second))

	if _, errParse := ParseIdentityToken(testSecret, token, 30*time.Second); errParse != nil {
		t.Fatalf("expected leeway to cover skew, got %v", errParse)
	}
}

func TestParseIdentityTokenNonUUIDSubject(t *testing.T) {
	token := signTestToken(t, testSecret, "service-account-1", time.Now().Add(time.Hour))

	_, errParse := ParseIdentityToken(testSecret, token, 0)
	if !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for non-uuid subject, got %v", errParse)
	}
}

func TestParseIdentityTokenGarbage(t *testing.T) {
	_, errParse := ParseIdentityToken(testSecret, "not-a-token", 0)
	if !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", errParse)
	}
}
