package listeners

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"support-desk/internal/entities"
	"support-desk/internal/events"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/telegram"
	"support-desk/pkg/websocket"
)

type recordingHub struct {
	mu       sync.Mutex
	payloads []websocket.ChangePayload
}

func (h *recordingHub) Broadcast(ctx context.Context, messageType string, payload interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if messageType == websocket.MessageSnapshotChanged {
		h.payloads = append(h.payloads, payload.(websocket.ChangePayload))
	}
	return nil
}

type recordingTelegram struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingTelegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	return r.SendMessageEx(ctx, chatID, text)
}

func (r *recordingTelegram) SendMessageEx(ctx context.Context, chatID int64, text string, _ ...telegram.MessageOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

func TestBroadcastListener(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	hub := &recordingHub{}
	NewBroadcastListener(hub, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.TicketCreatedEvent{Ticket: entities.Ticket{ID: "t1"}})
	bus.Publish(context.Background(), events.CompanyChangedEvent{CompanyID: "c1", Action: "deleted"})
	bus.Wait()

	require.Len(t, hub.payloads, 2)
	assert.ElementsMatch(t, []websocket.ChangePayload{
		{Entity: "ticket", Action: "created", ID: "t1"},
		{Entity: "company", Action: "deleted", ID: "c1"},
	}, hub.payloads)
}

func TestTelegramListener(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	tg := &recordingTelegram{}
	NewTelegramListener(tg, 42, zap.NewNop()).Register(bus)
	created := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)

	bus.Publish(context.Background(), events.TicketCreatedEvent{Ticket: entities.Ticket{ID: "t1", Title: "Low", Priority: "low"}})
	bus.Publish(context.Background(), events.TicketCreatedEvent{Ticket: entities.Ticket{ID: "t2", Title: "Server down!", Priority: "high", CompanyName: "Acme"}})
	bus.Publish(context.Background(), events.TicketUpdatedEvent{
		Before: entities.Ticket{ID: "t3", Status: "open"},
		After:  entities.Ticket{ID: "t3", Title: "Printer", Status: "in_progress"},
	})
	bus.Publish(context.Background(), events.TicketUpdatedEvent{
		Before: entities.Ticket{ID: "t4", Status: "in_progress"},
		After: entities.Ticket{
			ID: "t4", Title: "VPN", Status: "resolved", Priority: "medium", TimeSpent: 2.5,
			CreatedAt: created, ResolvedAt: null.TimeFrom(created.Add(26 * time.Hour)),
		},
	})
	bus.Wait()

	require.Len(t, tg.texts, 2)
	joined := tg.texts[0] + tg.texts[1]
	assert.Contains(t, joined, `Server down\!`)
	assert.Contains(t, joined, "Компания: Acme")
	assert.Contains(t, joined, "VPN")
	assert.Contains(t, joined, "Затрачено: 2h 30m")
	assert.Contains(t, joined, "Решено за: 1d 2h")
	assert.NotContains(t, joined, "Printer")
}

func TestTelegramListener_NotConfigured(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	tg := &recordingTelegram{}
	NewTelegramListener(tg, 0, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.TicketCreatedEvent{Ticket: entities.Ticket{ID: "t1", Priority: "high"}})
	bus.Wait()
	assert.Empty(t, tg.texts)
}
