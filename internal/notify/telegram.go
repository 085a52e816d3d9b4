package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dori/tasknag/internal/model"
)

// TelegramChannel sends reminders as Telegram messages to a single chat
type TelegramChannel struct {
	token  string
	chatID int64

	once sync.Once
	bot  *tgbotapi.BotAPI
	err  error
}

// NewTelegramChannel creates a telegram channel. The bot connection is
// established lazily on first delivery so an unreachable Telegram API
// does not block daemon startup.
func NewTelegramChannel(token string, chatID int64) *TelegramChannel {
	return &TelegramChannel{token: token, chatID: chatID}
}

// Name identifies the channel
func (c *TelegramChannel) Name() string { return "telegram" }

// Available reports whether the channel is configured
func (c *TelegramChannel) Available() bool {
	return c.token != "" && c.chatID != 0
}

// Deliver sends the reminder to the configured chat
func (c *TelegramChannel) Deliver(ctx context.Context, task model.Task, reminder model.Reminder) error {
	bot, err := c.connect(ctx)
	if err != nil {
		return err
	}

	msg := RenderMessage(task, reminder)
	text := fmt.Sprintf("⏰ %s\n%s", msg.Title, msg.Body)

	if _, err := bot.Send(tgbotapi.NewMessage(c.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (c *TelegramChannel) connect(ctx context.Context) (*tgbotapi.BotAPI, error) {
	c.once.Do(func() {
		// The bot API has no context plumbing; a client timeout keeps a
		// stalled Telegram endpoint from hanging the dispatch loop.
		timeout := 30 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			if d := time.Until(deadline); d < timeout {
				timeout = d
			}
		}
		client := &http.Client{Timeout: timeout}
		c.bot, c.err = tgbotapi.NewBotAPIWithClient(c.token, tgbotapi.APIEndpoint, client)
	})
	if c.err != nil {
		return nil, fmt.Errorf("telegram connect: %w", c.err)
	}
	return c.bot, nil
}
