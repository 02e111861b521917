package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cashpoints/config"
	"cashpoints/internal/auth"
	"cashpoints/internal/middleware"

	"github.com/gin-gonic/gin"
)

func authTestRouter(cfg *config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", middleware.AuthRequired(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"telegram_id": middleware.GetTelegramID(c)})
	})
	return router
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s", Expiry: time.Hour}
	router := authTestRouter(cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", w.Code)
	}
}

func TestAuthRequiredBadToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s", Expiry: time.Hour}
	router := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s", Expiry: time.Hour}
	router := authTestRouter(cfg)

	token, err := auth.GenerateToken(cfg, 925584, "session-1")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "925584") {
		t.Errorf("response should carry the telegram id: %s", body)
	}
}
