package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"relief-service/internal/logging"
	"relief-service/internal/models"
	"relief-service/internal/utils"
)

// messageSender is the part of *bot.Bot used here.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// Telegram forwards destructive toasts to a responder chat.
type Telegram struct {
	sender  messageSender
	chatID  int64
	limiter *rate.Limiter
	logger  *logging.Logger
}

func NewTelegram(token string, chatID int64, ratePerSecond int, logger *logging.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return newTelegram(b, chatID, ratePerSecond, logger), nil
}

func newTelegram(sender messageSender, chatID int64, ratePerSecond int, logger *logging.Logger) *Telegram {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Telegram{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:  logger,
	}
}

func (t *Telegram) Notify(ctx context.Context, toast models.Toast) {
	if toast.Severity != models.SeverityDestructive {
		return
	}

	if err := t.limiter.Wait(ctx); err != nil {
		t.logger.Errorf("Telegram rate limit wait aborted: %v", err)
		return
	}

	text := formatTelegram(toast)
	err := utils.Retry(ctx, t.logger, 3, time.Second, func() error {
		params := &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := t.sender.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
	if err != nil {
		t.logger.Errorf("Dispatch error via telegram: %v", err)
	}
}

func formatTelegram(toast models.Toast) string {
	return fmt.Sprintf("*%s*\n%s", toast.Title, toast.Description)
}
