package listeners

import (
	"context"

	"go.uber.org/zap"

	"support-desk/internal/events"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/websocket"
)

// Broadcaster - рассылка сообщения всем подключённым клиентам.
type Broadcaster interface {
	Broadcast(ctx context.Context, messageType string, payload interface{}) error
}

// BroadcastListener сообщает открытым вкладкам, что снимок изменился.
type BroadcastListener struct {
	hub    Broadcaster
	logger *zap.Logger
}

func NewBroadcastListener(hub Broadcaster, logger *zap.Logger) *BroadcastListener {
	return &BroadcastListener{hub: hub, logger: logger}
}

func (l *BroadcastListener) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		events.TicketCreatedName,
		events.TicketUpdatedName,
		events.TicketDeletedName,
		events.CompanyChangedName,
		events.CategoryCreatedName,
		events.CommentAddedName,
	} {
		bus.Subscribe(name, l.handle)
	}
	l.logger.Info("BroadcastListener подписан на изменения данных")
}

func (l *BroadcastListener) handle(ctx context.Context, event eventbus.Event) error {
	payload, ok := changeOf(event)
	if !ok {
		return nil
	}
	return l.hub.Broadcast(ctx, websocket.MessageSnapshotChanged, payload)
}

func changeOf(event eventbus.Event) (websocket.ChangePayload, bool) {
	switch e := event.(type) {
	case events.TicketCreatedEvent:
		return websocket.ChangePayload{Entity: "ticket", Action: "created", ID: e.Ticket.ID}, true
	case events.TicketUpdatedEvent:
		return websocket.ChangePayload{Entity: "ticket", Action: "updated", ID: e.After.ID}, true
	case events.TicketDeletedEvent:
		return websocket.ChangePayload{Entity: "ticket", Action: "deleted", ID: e.TicketID}, true
	case events.CompanyChangedEvent:
		return websocket.ChangePayload{Entity: "company", Action: e.Action, ID: e.CompanyID}, true
	case events.CategoryCreatedEvent:
		return websocket.ChangePayload{Entity: "category", Action: "created", ID: e.Category.ID}, true
	case events.CommentAddedEvent:
		return websocket.ChangePayload{Entity: "comment", Action: "created", ID: e.Comment.TicketID}, true
	}
	return websocket.ChangePayload{}, false
}
