package notify

import (
	"context"
	"fmt"

	"bookman/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the subset of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier mirrors the admin notification into a Telegram chat.
type TelegramNotifier struct {
	sender TelegramSender
	chatID int64
	log    zerolog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "telegram-notify").Logger()
	}
	return &TelegramNotifier{sender: bot, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) NotifyBookingCreated(ctx context.Context, booking *models.Booking, editURL string) error {
	text := Subject(booking) + "\n\n" + Body(booking, editURL)
	msg := tgbotapi.NewMessage(n.chatID, text)

	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	n.log.Info().Int64("booking_id", booking.ID).Int64("chat_id", n.chatID).Msg("telegram notification sent")
	return nil
}
