package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"support-desk/internal/entities"
)

// scriptedLoader отдаёт снимки по очереди; каждый вызов можно задержать.
type scriptedLoader struct {
	mu      sync.Mutex
	calls   int
	results []loadResult
	invalid atomic.Int32
}

type loadResult struct {
	snap  *Snapshot
	err   error
	block chan struct{}
}

func (l *scriptedLoader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	r := l.results[l.calls]
	l.calls++
	l.mu.Unlock()
	if r.block != nil {
		<-r.block
	}
	return r.snap, r.err
}

func (l *scriptedLoader) Invalidate(ctx context.Context) error {
	l.invalid.Add(1)
	return nil
}

func named(name string) *Snapshot {
	return &Snapshot{Companies: []entities.Company{{ID: name, Name: name}}}
}

func TestHolder_RefreshPublishes(t *testing.T) {
	loader := &scriptedLoader{results: []loadResult{{snap: named("a")}}}
	h := NewHolder(loader, zap.NewNop())

	assert.Nil(t, h.last())
	snap, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", snap.Companies[0].ID)
	assert.Equal(t, uint64(1), snap.Seq)
	assert.False(t, snap.TakenAt.IsZero())
	assert.Same(t, snap, h.last())
}

func TestHolder_ErrorKeepsKnownGood(t *testing.T) {
	storeErr := errors.New("connection refused")
	loader := &scriptedLoader{results: []loadResult{{snap: named("good")}, {err: storeErr}}}
	core, logs := observer.New(zap.ErrorLevel)
	h := NewHolder(loader, zap.New(core))

	good, err := h.Refresh(context.Background())
	require.NoError(t, err)

	_, err = h.Refresh(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.Same(t, good, h.last())

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, good.Seq, entries[0].ContextMap()["kept_seq"])
}

func TestHolder_LastRequestWins(t *testing.T) {
	slow := make(chan struct{})
	loader := &scriptedLoader{results: []loadResult{
		{snap: named("old"), block: slow},
		{snap: named("new")},
	}}
	h := NewHolder(loader, zap.NewNop())

	var oldResult *Snapshot
	done := make(chan struct{})
	go func() {
		defer close(done)
		oldResult, _ = h.Refresh(context.Background())
	}()

	// Ждём, пока первый запрос получит номер и зависнет в загрузчике.
	require.Eventually(t, func() bool {
		loader.mu.Lock()
		defer loader.mu.Unlock()
		return loader.calls == 1
	}, time.Second, time.Millisecond)

	fresh, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", fresh.Companies[0].ID)

	close(slow)
	<-done
	require.NotNil(t, oldResult)
	assert.Equal(t, "new", oldResult.Companies[0].ID)
	assert.Equal(t, "new", h.last().Companies[0].ID)
}

func TestHolder_MutateReloadsAndInvalidates(t *testing.T) {
	loader := &scriptedLoader{results: []loadResult{{snap: named("before")}, {snap: named("after")}}}
	h := NewHolder(loader, zap.NewNop())
	_, err := h.Refresh(context.Background())
	require.NoError(t, err)

	called := false
	err = h.Mutate(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, int32(1), loader.invalid.Load())
	assert.Equal(t, "after", h.last().Companies[0].ID)
}

func TestHolder_MutateFailureLeavesSnapshot(t *testing.T) {
	loader := &scriptedLoader{results: []loadResult{{snap: named("before")}}}
	h := NewHolder(loader, zap.NewNop())
	before, err := h.Refresh(context.Background())
	require.NoError(t, err)

	storeErr := errors.New("constraint")
	err = h.Mutate(context.Background(), func(ctx context.Context) error { return storeErr })
	assert.ErrorIs(t, err, storeErr)
	assert.Same(t, before, h.last())
	assert.Equal(t, int32(0), loader.invalid.Load())
	assert.Equal(t, 1, loader.calls)
}

func TestHolder_FetchWaitsForMutation(t *testing.T) {
	loader := &scriptedLoader{results: []loadResult{{snap: named("after")}, {snap: named("after")}}}
	h := NewHolder(loader, zap.NewNop())

	inMutation := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = h.Mutate(context.Background(), func(ctx context.Context) error {
			close(inMutation)
			<-release
			return nil
		})
	}()
	<-inMutation

	fetched := make(chan struct{})
	go func() {
		_, _ = h.Refresh(context.Background())
		close(fetched)
	}()

	select {
	case <-fetched:
		t.Fatal("загрузка не должна идти во время мутации")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Fatal("загрузка не завершилась после мутации")
	}
}

// memoryCache - кеш в памяти вместо Redis.
type memoryCache struct {
	data   map[string]string
	getErr error
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestCachedLoader(t *testing.T) {
	inner := &scriptedLoader{results: []loadResult{{snap: named("db")}, {snap: named("db2")}}}
	cache := &memoryCache{data: map[string]string{}}
	l := NewCachedLoader(inner, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db", first.Companies[0].ID)
	assert.Contains(t, cache.data, cacheKey)

	// Второй раз - из кеша, в базу не ходим.
	second, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db", second.Companies[0].ID)
	assert.Equal(t, 1, inner.calls)

	require.NoError(t, l.Invalidate(ctx))
	third, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db2", third.Companies[0].ID)
}

func TestCachedLoader_CacheDown(t *testing.T) {
	inner := &scriptedLoader{results: []loadResult{{snap: named("db")}}}
	cache := &memoryCache{data: map[string]string{}, getErr: errors.New("dial tcp: refused")}
	l := NewCachedLoader(inner, cache, time.Minute, zap.NewNop())

	snap, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "db", snap.Companies[0].ID)
}
