package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Messenger is the notification delivery adapter handed to the service layer.
type Messenger struct {
	api *tgbotapi.BotAPI
}

func NewMessenger(api *tgbotapi.BotAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendText(chatID int64, text string) error {
	_, err := m.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
