package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKey = "support-desk:snapshot"

// Cache - то, что нужно загрузчику от хранилища кеша.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedLoader держит сериализованный снимок в Redis, чтобы отчёты
// не перечитывали все таблицы на каждый запрос.
// Недоступность кеша не ошибка: читаем напрямую из базы.
type CachedLoader struct {
	next   Loader
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedLoader(next Loader, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedLoader {
	return &CachedLoader{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (l *CachedLoader) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := l.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var snap Snapshot
		jsonErr := json.Unmarshal([]byte(raw), &snap)
		if jsonErr == nil {
			return &snap, nil
		}
		l.logger.Warn("Повреждённый снимок в кеше, читаем из базы", zap.Error(jsonErr))
	case errors.Is(err, redis.Nil):
	default:
		l.logger.Warn("Кеш снимков недоступен", zap.Error(err))
	}

	snap, err := l.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		l.logger.Warn("Не удалось сериализовать снимок", zap.Error(err))
		return snap, nil
	}
	if err := l.cache.Set(ctx, cacheKey, data, l.ttl); err != nil {
		l.logger.Warn("Не удалось сохранить снимок в кеш", zap.Error(err))
	}
	return snap, nil
}

func (l *CachedLoader) Invalidate(ctx context.Context) error {
	return l.cache.Del(ctx, cacheKey)
}
