package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BUSINESS_TIMEZONE", "Asia/Dubai")
	t.Setenv("SNAPSHOT_CACHE_TTL", "30s")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg := New()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Asia/Dubai", cfg.Server.Location.String())
	assert.Equal(t, 30*time.Second, cfg.Redis.SnapshotTTL)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
}

func TestNew_BadValuesFallBack(t *testing.T) {
	t.Setenv("BUSINESS_TIMEZONE", "Mars/Olympus")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("JWT_ACCESS_TTL", "forever")

	cfg := New()

	assert.Equal(t, time.UTC, cfg.Server.Location)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
