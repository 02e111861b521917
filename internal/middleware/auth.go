package middleware

import (
	"net/http"
	"strings"

	"cashpoints/config"
	"cashpoints/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates JWT and sets the Telegram user id in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("telegram_id", claims.TelegramID)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// GetTelegramID returns the authenticated Telegram user id from context.
func GetTelegramID(c *gin.Context) int64 {
	v, _ := c.Get("telegram_id")
	id, _ := v.(int64)
	return id
}
