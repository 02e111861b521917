package auth_test

import (
	"errors"
	"testing"
	"time"

	"cashpoints/config"
	"cashpoints/internal/auth"
)

func jwtConfig(expiry time.Duration) *config.JWTConfig {
	return &config.JWTConfig{
		Secret: "test-secret",
		Expiry: expiry,
		Issuer: "cashpoints",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := jwtConfig(time.Hour)

	token, err := auth.GenerateToken(cfg, 925584, "session-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := auth.ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.TelegramID != 925584 || claims.SessionID != "session-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(jwtConfig(time.Hour), 925584, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	other := jwtConfig(time.Hour)
	other.Secret = "wrong"
	if _, err := auth.ParseToken(other, token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	cfg := jwtConfig(-time.Minute)
	token, err := auth.GenerateToken(cfg, 925584, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ParseToken(cfg, token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
