package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Loader загружает все коллекции разом.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Invalidator - загрузчик с собственным кешем, который надо сбросить после мутации.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Holder хранит последний удачный снимок.
//
// Мутации и загрузки не пересекаются: мутация берёт gate на запись,
// загрузка - на чтение. Каждая загрузка получает порядковый номер;
// результат, который старше уже опубликованного, отбрасывается.
type Holder struct {
	loader Loader
	logger *zap.Logger
	clock  func() time.Time

	gate sync.RWMutex
	seq  atomic.Uint64

	mu      sync.RWMutex
	current *Snapshot
}

func NewHolder(loader Loader, logger *zap.Logger) *Holder {
	return &Holder{loader: loader, logger: logger, clock: time.Now}
}

// Refresh загружает свежий снимок. Если во время загрузки успел
// опубликоваться более новый, возвращается он.
// При ошибке хранилища предыдущий снимок остаётся в силе.
func (h *Holder) Refresh(ctx context.Context) (*Snapshot, error) {
	h.gate.RLock()
	defer h.gate.RUnlock()
	return h.load(ctx)
}

// last - последний опубликованный снимок или nil.
func (h *Holder) last() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Mutate выполняет fn эксклюзивно и после успеха перечитывает снимок целиком.
// Ошибка fn возвращается как есть, снимок при этом не меняется.
func (h *Holder) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	h.gate.Lock()
	defer h.gate.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	if inv, ok := h.loader.(Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			h.logger.Warn("Не удалось сбросить кеш снимка", zap.Error(err))
		}
	}
	// Изменение уже сохранено; если перечитать не вышло, следующий запрос загрузит снимок заново.
	if _, err := h.load(ctx); err != nil {
		h.logger.Warn("Не удалось перечитать снимок после изменения", zap.Error(err))
	}
	return nil
}

func (h *Holder) load(ctx context.Context) (*Snapshot, error) {
	seq := h.seq.Add(1)
	snap, err := h.loader.Load(ctx)
	if err != nil {
		fields := []zap.Field{zap.Uint64("seq", seq), zap.Error(err)}
		if prev := h.last(); prev != nil {
			fields = append(fields, zap.Uint64("kept_seq", prev.Seq), zap.Time("kept_taken_at", prev.TakenAt))
		}
		h.logger.Error("Ошибка загрузки снимка, остаётся предыдущий", fields...)
		return nil, err
	}

	fresh := *snap
	fresh.Seq = seq
	if fresh.TakenAt.IsZero() {
		fresh.TakenAt = h.clock()
	}
	return h.publish(&fresh), nil
}

func (h *Holder) publish(snap *Snapshot) *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil && h.current.Seq > snap.Seq {
		h.logger.Debug("Устаревший снимок отброшен",
			zap.Uint64("seq", snap.Seq),
			zap.Uint64("current", h.current.Seq),
		)
		return h.current
	}
	h.current = snap
	return snap
}
