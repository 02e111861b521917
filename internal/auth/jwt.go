package auth

import (
	"errors"
	"time"

	"cashpoints/config"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	TelegramID int64  `json:"telegram_id"`
	SessionID  string `json:"session_id"`
	jwt.RegisteredClaims
}

func GenerateToken(cfg *config.JWTConfig, telegramID int64, sessionID string) (string, error) {
	claims := Claims{
		TelegramID: telegramID,
		SessionID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

var ErrInvalidToken = errors.New("invalid token")

func ParseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
