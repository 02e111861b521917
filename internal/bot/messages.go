package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) joinKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Join "+b.cfg.Telegram.GroupName+" 📱", b.cfg.Telegram.GroupLink),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("I've Joined ✅", callbackCheckMembership),
		),
	)
}

func (b *Bot) miniAppKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Open and Earn 💰", b.cfg.Telegram.MiniAppURL),
		),
	)
}

func (b *Bot) joinRequiredText(firstName string) string {
	return fmt.Sprintf(
		"🔒 Group Join Required\n\n"+
			"Hello %s! You need to join %s before the mini app unlocks.\n\n"+
			"1. Join the group\n"+
			"2. Tap \"I've Joined\"\n"+
			"3. Get mini app access",
		firstName, b.cfg.Telegram.GroupName)
}

func (b *Bot) stillNotMemberText(firstName string) string {
	return fmt.Sprintf(
		"❌ Not a member yet\n\n"+
			"%s, we couldn't confirm your membership in %s.\n"+
			"Join the group first, then tap \"I've Joined\" again.",
		firstName, b.cfg.Telegram.GroupName)
}

func (b *Bot) welcomeText(firstName string, referrerRewarded bool) string {
	text := fmt.Sprintf(
		"🎉 Welcome %s!\n\n"+
			"✅ Group membership verified.\n"+
			"Open the mini app below and start earning.",
		firstName)
	if referrerRewarded {
		text += fmt.Sprintf("\n\n💰 Your referrer just earned %d points for inviting you.", b.cfg.Referral.Reward)
	}
	return text
}

func (b *Bot) rejoinText(firstName string, count int) string {
	return fmt.Sprintf(
		"🔄 Welcome back, %s.\n\n"+
			"We noticed you've rejoined the group (%d time(s) now). "+
			"Your membership is confirmed and the mini app stays unlocked, "+
			"but referral rewards are only issued for the first join.",
		firstName, count)
}

func (b *Bot) groupInfoText() string {
	return fmt.Sprintf(
		"📱 Group Information\n\n"+
			"Name: %s\n"+
			"Link: %s\n\n"+
			"Joining unlocks the mini app and makes your referrals count. "+
			"Every friend who joins through your link earns you %d points.",
		b.cfg.Telegram.GroupName, b.cfg.Telegram.GroupLink, b.cfg.Referral.Reward)
}

func (b *Bot) helpText() string {
	return fmt.Sprintf(
		"🤖 Cash Points Bot\n\n"+
			"/start — check membership and open the mini app\n"+
			"/referral — your personal invite link and stats\n"+
			"/group — group info and join link\n"+
			"/help — this message\n\n"+
			"Invite friends with your referral link: you earn %d points for "+
			"each one who joins %s.",
		b.cfg.Referral.Reward, b.cfg.Telegram.GroupName)
}

func (b *Bot) referralText(code, link string, balance int64, totalReferrals int) string {
	return fmt.Sprintf(
		"🔗 Your referral link\n\n"+
			"%s\n\n"+
			"Code: %s\n"+
			"Successful referrals: %d\n"+
			"Balance: %d points\n\n"+
			"You earn %d points whenever someone joins %s through your link.",
		link, code, totalReferrals, balance, b.cfg.Referral.Reward, b.cfg.Telegram.GroupName)
}
