package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	s := NewService("token", WithAPIURL(srv.URL))
	err := s.SendMessage(context.Background(), 42, "Заявка #1 (high).")
	require.NoError(t, err)

	assert.Equal(t, "/bottoken/sendMessage", path)
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "MarkdownV2", got.ParseMode)
	assert.Equal(t, `Заявка \#1 \(high\)\.`, got.Text)
}

func TestSendMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := NewService("token", WithAPIURL(srv.URL)).SendMessageEx(context.Background(), 1, "x", WithHTML())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_NoToken(t *testing.T) {
	err := NewService("").SendMessage(context.Background(), 1, "x")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestEscapeTextForMarkdownV2(t *testing.T) {
	assert.Equal(t, `a\\b\_c`, EscapeTextForMarkdownV2(`a\b_c`))
}
