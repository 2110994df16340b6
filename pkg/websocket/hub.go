package websocket

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Hub хранит подключения и рассылает всем одинаковые сообщения.
// Состояние меняется только в горутине Run, поэтому мьютекс не нужен.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	Register   chan *Client
	unregister chan *Client
	count      chan chan int
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = struct{}{}
			h.logger.Debug("WebSocket клиент подключён", zap.Int("clients", len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("WebSocket клиент отключён", zap.Int("clients", len(h.clients)))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Медленный клиент: отключаем, он переподключится и перечитает данные.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Broadcast ставит сообщение в очередь рассылки всем клиентам.
func (h *Hub) Broadcast(ctx context.Context, messageType string, payload interface{}) error {
	data, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount - число подключений; блокируется, пока Run не ответит.
func (h *Hub) ClientCount(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-reply, nil
}
