// internal/infra/telegram/notifier.go
package telegram

import (
	"time"

	"gopkg.in/telebot.v3"
)

// Notifier implements notify.Notifier over a Telegram chat. The bot is used
// send-only; no handlers, no polling.
type Notifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	// NewBot validates the token against the API, so a bad token fails here.
	pref := telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Notify sends one plain-text message to the configured chat.
func (n *Notifier) Notify(text string) error {
	recipient := &telebot.User{ID: n.chatID}
	_, err := n.bot.Send(recipient, text, &telebot.SendOptions{})
	return err
}
