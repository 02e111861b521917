package bot

import (
	"context"
	"fmt"
	"log"

	"cashpoints/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const callbackCheckMembership = "check_membership"

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if !b.allow(userID) {
		log.Printf("[bot] rate limited user %d, dropping /%s", userID, msg.Command())
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "group":
		b.send(tgbotapi.NewMessage(msg.Chat.ID, b.groupInfoText()), userID)
	case "help":
		b.send(tgbotapi.NewMessage(msg.Chat.ID, b.helpText()), userID)
	case "referral":
		b.handleReferral(msg)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	profile := profileFromUser(msg.From)
	outcome := b.attribution.OnStart(context.Background(), profile, msg.CommandArguments())
	b.sendOutcome(msg.Chat.ID, msg.From.FirstName, outcome)
}

func (b *Bot) handleReferral(msg *tgbotapi.Message) {
	userID := msg.From.ID
	rc, err := b.referrals.GetOrCreateCode(userID)
	if err != nil {
		log.Printf("[bot] referral code for %d unavailable: %v", userID, err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Referral links are temporarily unavailable. Please try again later."), userID)
		return
	}

	var balance int64
	var total int
	if u, err := b.users.GetByTelegramID(userID); err == nil {
		balance = u.Balance
		total = u.TotalReferrals
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", b.cfg.Telegram.BotUsername, rc.Code)
	b.send(tgbotapi.NewMessage(msg.Chat.ID, b.referralText(rc.Code, link, balance, total)), userID)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("[bot] callback ack failed: %v", err)
	}
	if query.Data != callbackCheckMembership || query.From == nil {
		return
	}
	userID := query.From.ID
	if !b.allow(userID) {
		log.Printf("[bot] rate limited user %d, dropping callback", userID)
		return
	}

	outcome := b.attribution.OnMembershipRecheck(context.Background(), profileFromUser(query.From))

	if outcome.Kind == service.OutcomeJoinRequired && query.Message != nil {
		// Refresh the original prompt in place so repeated taps don't
		// pile up messages.
		edit := tgbotapi.NewEditMessageTextAndMarkup(
			query.Message.Chat.ID, query.Message.MessageID,
			b.stillNotMemberText(query.From.FirstName),
			b.joinKeyboard(),
		)
		if _, err := b.api.Send(edit); err != nil {
			b.sendOutcome(query.Message.Chat.ID, query.From.FirstName, outcome)
		}
		return
	}
	if query.Message != nil {
		b.sendOutcome(query.Message.Chat.ID, query.From.FirstName, outcome)
	}
}

func (b *Bot) sendOutcome(chatID int64, firstName string, outcome service.Outcome) {
	switch outcome.Kind {
	case service.OutcomeJoinRequired:
		msg := tgbotapi.NewMessage(chatID, b.joinRequiredText(firstName))
		msg.ReplyMarkup = b.joinKeyboard()
		b.send(msg, chatID)
	case service.OutcomeRejoinSeen:
		b.send(tgbotapi.NewMessage(chatID, b.rejoinText(firstName, outcome.RejoinCount)), chatID)
	default:
		b.sendWelcome(chatID, firstName, outcome.ReferrerRewarded)
	}
}

func (b *Bot) sendWelcome(chatID int64, firstName string, referrerRewarded bool) {
	caption := b.welcomeText(firstName, referrerRewarded)
	keyboard := b.miniAppKeyboard()

	if b.cfg.Telegram.WelcomeImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(b.cfg.Telegram.WelcomeImageURL))
		photo.Caption = caption
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err == nil {
			return
		}
		// Fall back to plain text when the image can't be delivered.
	}
	msg := tgbotapi.NewMessage(chatID, caption)
	msg.ReplyMarkup = keyboard
	b.send(msg, chatID)
}

func (b *Bot) send(c tgbotapi.Chattable, userID int64) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("[bot] send to %d failed: %v", userID, err)
	}
}

func profileFromUser(u *tgbotapi.User) service.StartProfile {
	return service.StartProfile{
		TelegramID: u.ID,
		Username:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}
