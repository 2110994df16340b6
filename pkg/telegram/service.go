package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

var ErrNoToken = errors.New("токен Telegram-бота не установлен")

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error
}

type Service struct {
	botToken   string
	apiURL     string
	httpClient *http.Client
}

type Option func(*Service)

// WithAPIURL подменяет адрес Bot API (нужно для тестов).
func WithAPIURL(url string) Option {
	return func(s *Service) { s.apiURL = strings.TrimRight(url, "/") }
}

func NewService(botToken string, opts ...Option) ServiceInterface {
	s := &Service{
		botToken:   botToken,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type MessageOption func(*sendMessageRequest)

func WithMarkdownV2() MessageOption {
	return func(req *sendMessageRequest) { req.ParseMode = "MarkdownV2" }
}

func WithHTML() MessageOption {
	return func(req *sendMessageRequest) { req.ParseMode = "HTML" }
}

func WithoutPreview() MessageOption {
	return func(req *sendMessageRequest) { req.DisableWebPagePreview = true }
}

// SendMessage отправляет простой текст, экранируя его для MarkdownV2.
func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.SendMessageEx(ctx, chatID, EscapeTextForMarkdownV2(text), WithMarkdownV2())
}

func (s *Service) SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	req := &sendMessageRequest{ChatID: chatID, Text: text}
	for _, opt := range options {
		opt(req)
	}
	return s.sendRequest(ctx, "sendMessage", req)
}

func (s *Service) sendRequest(ctx context.Context, methodName string, payload interface{}) error {
	if s.botToken == "" {
		return ErrNoToken
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", s.apiURL, s.botToken, methodName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса в Telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа Telegram: %w", err)
	}

	// Bot API сообщает об ошибке в теле, код ответа не показателен.
	var telegramResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
		ErrorCode   int    `json:"error_code,omitempty"`
	}
	if err := json.Unmarshal(body, &telegramResp); err != nil {
		return fmt.Errorf("ошибка декодирования ответа Telegram API: %w", err)
	}
	if !telegramResp.OK {
		return fmt.Errorf("telegram API ошибка (%s): код %d, описание: %s", methodName, telegramResp.ErrorCode, telegramResp.Description)
	}
	return nil
}

func EscapeTextForMarkdownV2(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)",
		"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+",
		"-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}
