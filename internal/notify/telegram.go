package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/model"
)

// UserSource источник профилей для резолва telegram chat id
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TelegramNotifier отправляет участникам бронирования уведомления в Telegram.
// Все сбои только логируются: уведомления не влияют на результат операции.
type TelegramNotifier struct {
	bot    *bot.Bot
	users  UserSource
	logger *zap.Logger
}

func NewTelegramNotifier(token string, users UserSource, logger *zap.Logger) (*TelegramNotifier, error) {
	botInstance, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    botInstance,
		users:  users,
		logger: logger,
	}, nil
}

// BookingCreated уведомляет репетитора о новой заявке на занятие
func (n *TelegramNotifier) BookingCreated(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf(
		"📚 Новая заявка на занятие\n%s\n%s\nСтоимость: %.2f",
		booking.Subject,
		formatBookingTime(booking),
		booking.Price,
	)
	n.send(ctx, booking.TutorID, text)
}

// BookingStatusChanged уведомляет обоих участников о смене статуса
func (n *TelegramNotifier) BookingStatusChanged(ctx context.Context, booking *model.Booking) {
	text := fmt.Sprintf(
		"%s Занятие %s\n%s",
		statusEmoji(booking.Status),
		statusLabel(booking.Status),
		formatBookingTime(booking),
	)
	n.send(ctx, booking.StudentID, text)
	n.send(ctx, booking.TutorID, text)
}

// send отправляет сообщение пользователю, если у него привязан Telegram
func (n *TelegramNotifier) send(ctx context.Context, userID uuid.UUID, text string) {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Error("Failed to resolve notification recipient",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	if user == nil || user.TelegramChatID == nil {
		return
	}

	_, err = n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *user.TelegramChatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Error("Failed to send telegram notification",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

func formatBookingTime(booking *model.Booking) string {
	return fmt.Sprintf("%s %s-%s",
		booking.StartTime.Format("02.01.2006"),
		booking.StartTime.Format("15:04"),
		booking.EndTime.Format("15:04"),
	)
}

func statusEmoji(status model.BookingStatus) string {
	switch status {
	case model.BookingStatusConfirmed:
		return "✅"
	case model.BookingStatusCompleted:
		return "🎓"
	case model.BookingStatusCancelled:
		return "❌"
	default:
		return "⏳"
	}
}

func statusLabel(status model.BookingStatus) string {
	switch status {
	case model.BookingStatusConfirmed:
		return "подтверждено"
	case model.BookingStatusCompleted:
		return "завершено"
	case model.BookingStatusCancelled:
		return "отменено"
	default:
		return "ожидает подтверждения"
	}
}
