package handler

import (
	"net/http"
	"time"

	"cashpoints/config"
	"cashpoints/internal/auth"
	"cashpoints/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthHandler(cfg *config.Config, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, userRepo: userRepo}
}

// Authenticate exchanges Telegram WebApp initData for a session token.
// POST /auth/telegram
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data required"})
		return
	}

	webUser, err := auth.VerifyInitData(req.InitData, h.cfg.Telegram.BotToken, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	user, err := h.userRepo.GetOrCreate(webUser.ID, webUser.Username, webUser.FirstName, webUser.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	token, err := auth.GenerateToken(&h.cfg.JWT, user.TelegramID, uuid.NewString())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
