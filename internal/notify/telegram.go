package notify

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the sink uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink posts events to a single chat.
type TelegramSink struct {
	bot    sender
	chatID int64
}

// NewTelegramSink logs in with token. It contacts the Bot API once to
// validate the token.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramSink{bot: botAPI, chatID: chatID}, nil
}

func (s *TelegramSink) Notify(_ context.Context, e Event) error {
	msg := tgbotapi.NewMessage(s.chatID, formatMessage(e))
	msg.ParseMode = "HTML"
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("sending %s to telegram: %w", e.Type, err)
	}
	return nil
}

func formatMessage(e Event) string {
	var b strings.Builder
	switch e.Type {
	case EventReviewStateChanged:
		b.WriteString("📋 <b>Plan review</b>\n")
	case EventWeeklyDigest:
		b.WriteString("📊 <b>Weekly digest</b>\n")
	default:
		fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(e.Type))
	}
	fmt.Fprintf(&b, "plan <code>%s</code>\n", e.PlanID.Hex())

	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", html.EscapeString(k), html.EscapeString(fmt.Sprint(e.Payload[k])))
	}
	return b.String()
}
