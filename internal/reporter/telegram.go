package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-openclaw-apply/internal/history"
)

// Telegram pushes run notifications to a private chat. Optional: the
// pipeline runs fine without a notifier wired in.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *Telegram) ApplicationSubmitted(rec history.ApplicationRecord) {
	text := fmt.Sprintf(
		"📨 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📊 %s\n"+
			"🔗 <a href=\"%s\">Listing</a>",
		rec.Title,
		rec.Company,
		rec.Outcome,
		rec.URL,
	)
	t.send(text)
}

func (t *Telegram) RunFinished(applied, processed int) {
	t.send(fmt.Sprintf("🏁 Run finished: <b>%d</b> applications submitted, %d jobs processed.", applied, processed))
}
