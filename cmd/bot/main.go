package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashpoints/config"
	"cashpoints/internal/bot"
	"cashpoints/internal/database"
	"cashpoints/internal/middleware"
	"cashpoints/internal/repository"
	"cashpoints/internal/router"
	"cashpoints/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	if cfg.Telegram.BotUsername == "" || api.Self.UserName != "" {
		cfg.Telegram.BotUsername = api.Self.UserName
	}

	limiter := newRateLimiter(cfg)
	oracle := bot.NewGroupMembership(api, cfg.Telegram.GroupID, cfg.Telegram.MembershipTimeout)

	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db, cfg.Referral.CodePrefix)
	notificationRepo := repository.NewNotificationRepository(db)
	earningsRepo := repository.NewEarningsRepository(db)

	notifSvc := service.NewNotificationService(notificationRepo, bot.NewMessenger(api))
	rewardSvc := service.NewRewardService(userRepo, earningsRepo, notifSvc, cfg.Referral.Reward)
	rejoinGuard := service.NewRejoinGuard(referralRepo, notifSvc, cfg.Referral.MaxRejoinAttempts)
	attribution := service.NewAttributionService(userRepo, referralRepo, oracle, rewardSvc, rejoinGuard)

	b := bot.New(api, cfg, attribution, referralRepo, userRepo, limiter)
	go b.Run()

	engine := router.Setup(cfg, db, oracle, limiter)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("mini-app API listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	b.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("stopped")
}

func newRateLimiter(cfg *config.Config) middleware.RateLimiter {
	if cfg.Redis.Addr == "" {
		return middleware.NewInMemoryRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[main] redis unreachable, falling back to in-memory rate limiter: %v", err)
		return middleware.NewInMemoryRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
	return middleware.NewRedisRateLimiter(client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
}
