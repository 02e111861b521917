package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"cashpoints/config"
	"cashpoints/internal/middleware"
	"cashpoints/internal/repository"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	cfg          *config.Config
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(cfg *config.Config, referralRepo *repository.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{cfg: cfg, referralRepo: referralRepo}
}

// GetMyReferralCode returns the user's referral code and share link,
// creating the code if it doesn't exist yet.
// GET /api/me/referral-code
func (h *ReferralHandler) GetMyReferralCode(c *gin.Context) {
	userID := middleware.GetTelegramID(c)
	rc, err := h.referralRepo.GetOrCreateCode(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get referral code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":       rc.Code,
		"link":       fmt.Sprintf("https://t.me/%s?start=%s", h.cfg.Telegram.BotUsername, rc.Code),
		"is_active":  rc.IsActive,
		"created_at": rc.CreatedAt,
	})
}

// GetMyReferrals lists users the caller has referred with their reward state.
// GET /api/me/referrals
func (h *ReferralHandler) GetMyReferrals(c *gin.Context) {
	userID := middleware.GetTelegramID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	referrals, err := h.referralRepo.ListByReferrerID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list referrals"})
		return
	}

	out := make([]gin.H, 0, len(referrals))
	for _, ref := range referrals {
		out = append(out, gin.H{
			"referred_id":  ref.ReferredID,
			"status":       ref.Status,
			"reward_given": ref.RewardGiven,
			"rejoin_count": ref.RejoinCount,
			"created_at":   ref.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"referrals": out, "total": len(out)})
}
