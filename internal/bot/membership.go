package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GroupMembership answers membership questions against the required Telegram
// group. Lookups are bounded by the configured timeout; the caller maps both
// errors and timeouts to "not a member".
type GroupMembership struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	timeout time.Duration
}

func NewGroupMembership(api *tgbotapi.BotAPI, chatID int64, timeout time.Duration) *GroupMembership {
	return &GroupMembership{api: api, chatID: chatID, timeout: timeout}
}

func (g *GroupMembership) IsMember(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type lookup struct {
		member tgbotapi.ChatMember
		err    error
	}
	ch := make(chan lookup, 1)
	go func() {
		member, err := g.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: g.chatID,
				UserID: userID,
			},
		})
		ch <- lookup{member: member, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return false, res.err
		}
		return isActiveMember(res.member), nil
	}
}

func isActiveMember(member tgbotapi.ChatMember) bool {
	if member.IsCreator() || member.IsAdministrator() {
		return true
	}
	return member.Status == "member"
}
