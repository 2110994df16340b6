package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const listenerTimeout = time.Minute

// Event - любое событие в системе.
type Event interface {
	Name() string
}

// Listener - обработчик события.
type Listener func(ctx context.Context, event Event) error

// Bus - шина событий. Обработчики вызываются асинхронно, каждый в своей горутине.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish не ждёт обработчиков. Контекст запроса им не передаётся:
// он закончится раньше, чем они отработают.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := b.listeners[event.Name()]
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait дожидается всех запущенных обработчиков (при остановке и в тестах).
func (b *Bus) Wait() {
	b.wg.Wait()
}
