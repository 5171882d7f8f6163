package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskboard/internal/model"
)

// TelegramNotifier forwards task events as plain messages to a single chat.
// Best effort like every other sink: send failures are logged and dropped.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] telegram notifier authorized on account %s", api.Self.UserName)

	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Publish(event string, payload any) {
	msg := tgbotapi.NewMessage(n.chatID, formatEvent(event, payload))
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("telegram send: %v", err)
	}
}

func formatEvent(event string, payload any) string {
	task, ok := payload.(*model.Task)
	if !ok {
		return event
	}
	return fmt.Sprintf("%s: %q [%s] due %s", event, task.Title, task.Status,
		task.DueDate.Format("2006-01-02 15:04"))
}
