package handler

import (
	"net/http"
	"strconv"

	"cashpoints/config"
	"cashpoints/internal/middleware"
	"cashpoints/internal/repository"
	"cashpoints/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	cfg          *config.Config
	userRepo     *repository.UserRepository
	earningsRepo *repository.EarningsRepository
	oracle       service.MembershipChecker
}

func NewMeHandler(cfg *config.Config, userRepo *repository.UserRepository, earningsRepo *repository.EarningsRepository, oracle service.MembershipChecker) *MeHandler {
	return &MeHandler{cfg: cfg, userRepo: userRepo, earningsRepo: earningsRepo, oracle: oracle}
}

// GetMe returns the authenticated user's profile and balances.
// GET /api/me
func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.userRepo.GetByTelegramID(middleware.GetTelegramID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetAccess reports whether the gated mini app content should unlock.
// Membership errors read as "not a member".
// GET /api/me/access
func (h *MeHandler) GetAccess(c *gin.Context) {
	userID := middleware.GetTelegramID(c)
	member, err := h.oracle.IsMember(c.Request.Context(), userID)
	if err != nil {
		member = false
	}
	c.JSON(http.StatusOK, gin.H{
		"is_member":  member,
		"group_name": h.cfg.Telegram.GroupName,
		"group_link": h.cfg.Telegram.GroupLink,
	})
}

// GetEarnings lists the user's reward payout history.
// GET /api/me/earnings
func (h *MeHandler) GetEarnings(c *gin.Context) {
	userID := middleware.GetTelegramID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.earningsRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list earnings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": records, "total": len(records)})
}
