package bot

import (
	"log"

	"cashpoints/config"
	"cashpoints/internal/middleware"
	"cashpoints/internal/repository"
	"cashpoints/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the Telegram transport. Every update is handled on its own
// goroutine; all ordering guarantees live in the service layer.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.Config
	attribution *service.AttributionService
	referrals   *repository.ReferralRepository
	users       *repository.UserRepository
	limiter     middleware.RateLimiter
}

func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	attribution *service.AttributionService,
	referrals *repository.ReferralRepository,
	users *repository.UserRepository,
	limiter middleware.RateLimiter,
) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		attribution: attribution,
		referrals:   referrals,
		users:       users,
		limiter:     limiter,
	}
}

// Run consumes the update channel until it is closed.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	log.Printf("[bot] @%s handling updates", b.cfg.Telegram.BotUsername)

	for update := range updates {
		go b.handleUpdate(update)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[bot] panic in update handler: %v", rec)
		}
	}()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) allow(userID int64) bool {
	if b.limiter == nil {
		return true
	}
	return b.limiter.Allow(formatID(userID))
}
