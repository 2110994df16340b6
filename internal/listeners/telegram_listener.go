package listeners

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"support-desk/internal/entities"
	"support-desk/internal/events"
	"support-desk/pkg/constants"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/telegram"
	"support-desk/pkg/utils"
)

// TelegramListener шлёт в чат поддержки срочные заявки и решённые заявки.
type TelegramListener struct {
	tg     telegram.ServiceInterface
	chatID int64
	logger *zap.Logger
}

func NewTelegramListener(tg telegram.ServiceInterface, chatID int64, logger *zap.Logger) *TelegramListener {
	return &TelegramListener{tg: tg, chatID: chatID, logger: logger}
}

// Register ничего не подписывает, если бот не настроен.
func (l *TelegramListener) Register(bus *eventbus.Bus) {
	if l.tg == nil || l.chatID == 0 {
		l.logger.Info("Telegram не настроен, уведомления в чат отключены")
		return
	}
	bus.Subscribe(events.TicketCreatedName, l.handleCreated)
	bus.Subscribe(events.TicketUpdatedName, l.handleUpdated)
	l.logger.Info("TelegramListener подписан на события заявок", zap.Int64("chat_id", l.chatID))
}

func (l *TelegramListener) handleCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TicketCreatedEvent)
	if !ok || e.Ticket.Priority != constants.PriorityHigh {
		return nil
	}
	return l.send(ctx, "🔥 Новая срочная заявка", e.Ticket)
}

func (l *TelegramListener) handleUpdated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TicketUpdatedEvent)
	if !ok || !e.BecameResolved() {
		return nil
	}
	return l.send(ctx, "✅ Заявка решена", e.After)
}

func (l *TelegramListener) send(ctx context.Context, header string, t entities.Ticket) error {
	text := formatTicket(header, t)
	if err := l.tg.SendMessageEx(ctx, l.chatID, text, telegram.WithMarkdownV2(), telegram.WithoutPreview()); err != nil {
		return fmt.Errorf("telegram: заявка %s: %w", t.ID, err)
	}
	l.logger.Debug("Уведомление отправлено в Telegram", zap.String("ticket_id", t.ID))
	return nil
}

func formatTicket(header string, t entities.Ticket) string {
	var b strings.Builder
	b.WriteString("*" + telegram.EscapeTextForMarkdownV2(header) + "*\n\n")
	b.WriteString(telegram.EscapeTextForMarkdownV2(t.Title) + "\n")
	company := t.CompanyName
	if company == "" {
		company = "без компании"
	}
	b.WriteString("Компания: " + telegram.EscapeTextForMarkdownV2(company) + "\n")
	b.WriteString("Приоритет: " + telegram.EscapeTextForMarkdownV2(t.Priority))
	if t.AssignedTo != "" {
		b.WriteString("\nИсполнитель: " + telegram.EscapeTextForMarkdownV2(t.AssignedTo))
	}
	if t.TimeSpent > 0 {
		b.WriteString("\nЗатрачено: " + telegram.EscapeTextForMarkdownV2(utils.FormatHoursToHumanReadable(t.TimeSpent)))
	}
	if t.ResolvedAt.Valid && !t.CreatedAt.IsZero() {
		took := t.ResolvedAt.Time.Sub(t.CreatedAt).Hours()
		b.WriteString("\nРешено за: " + telegram.EscapeTextForMarkdownV2(utils.FormatHoursToHumanReadable(took)))
	}
	return b.String()
}
