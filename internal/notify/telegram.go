// Package notify tells the kitchen about new orders.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MikeMC777/ordenes-mesa/internal/order"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts each placed order to the kitchen chat.
type Telegram struct {
	api    Sender
	chatID int64
}

// NewTelegram connects to the bot API. It returns nil, nil when token or chat
// are not configured so callers can run without a kitchen chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func NewTelegramWithSender(api Sender, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

func (t *Telegram) OrderPlaced(ctx context.Context, o order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatOrder(o))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send order %s: %w", o.ID, err)
	}
	return nil
}

// FormatOrder renders the kitchen ticket.
func FormatOrder(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 New order, table %s\n", o.Table)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s × %d\n", it.Name, it.Quantity)
	}
	if r := strings.TrimSpace(o.Request); r != "" {
		fmt.Fprintf(&b, "Request: %s\n", r)
	}
	fmt.Fprintf(&b, "Total: $%s", o.Total.StringFixed(2))
	return b.String()
}
