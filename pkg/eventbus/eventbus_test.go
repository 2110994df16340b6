package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestPublish_CallsSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	var calls atomic.Int32
	bus.Subscribe("ticket.created", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return nil
	})
	bus.Subscribe("ticket.created", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return errors.New("ошибка обработчика не ломает остальных")
	})
	bus.Subscribe("ticket.deleted", func(ctx context.Context, e Event) error {
		t.Error("чужое событие")
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "ticket.created"})
	bus.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestPublish_NoSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Publish(context.Background(), testEvent{name: "nobody"})
	bus.Wait()
}
