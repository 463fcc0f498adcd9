package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func unsignedToken(claims jwt.Claims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SigningString()
	return s + ".fake_signature"
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := unsignedToken(jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	c, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Subject != "42" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}
	if c.Expired(time.Now()) {
		t.Error("token should not be expired")
	}
	if !c.Expired(exp.Add(time.Minute)) {
		t.Error("token should be expired after exp")
	}
}

func TestParseClaims_Opaque(t *testing.T) {
	if _, err := ParseClaims("12|plain-api-token"); !errors.Is(err, ErrOpaqueToken) {
		t.Errorf("expected ErrOpaqueToken, got %v", err)
	}
}

func TestClaims_NoExpiry(t *testing.T) {
	c, err := ParseClaims(unsignedToken(jwt.RegisteredClaims{Subject: "1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Expired(time.Now().Add(100 * 24 * time.Hour)) {
		t.Error("a token without exp never reports expired")
	}
}
