package router

import (
	"cashpoints/config"
	"cashpoints/internal/handler"
	"cashpoints/internal/middleware"
	"cashpoints/internal/repository"
	"cashpoints/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires the mini-app API. The membership oracle and rate limiter are
// built by the caller because they are shared with the bot transport.
func Setup(cfg *config.Config, db *gorm.DB, oracle service.MembershipChecker, limiter middleware.RateLimiter) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(limiter))

	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db, cfg.Referral.CodePrefix)
	earningsRepo := repository.NewEarningsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	meHandler := handler.NewMeHandler(cfg, userRepo, earningsRepo, oracle)
	referralHandler := handler.NewReferralHandler(cfg, referralRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	r.POST("/auth/telegram", authHandler.Authenticate)

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(&cfg.JWT))
	{
		api.GET("/me", meHandler.GetMe)
		api.GET("/me/access", meHandler.GetAccess)
		api.GET("/me/earnings", meHandler.GetEarnings)
		api.GET("/me/referral-code", referralHandler.GetMyReferralCode)
		api.GET("/me/referrals", referralHandler.GetMyReferrals)
		api.GET("/me/notifications", notificationHandler.List)
		api.POST("/me/notifications/:id/read", notificationHandler.MarkRead)
	}

	return r
}
