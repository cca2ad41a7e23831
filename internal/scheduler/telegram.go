package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	telegramAPI = "https://api.telegram.org"
	// Telegram rejects message text longer than this many characters.
	maxMessageRunes = 4096
)

// TelegramSender posts reminder notifications to one chat through the
// Telegram Bot API.
type TelegramSender struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// TelegramOption customises a TelegramSender.
type TelegramOption func(*TelegramSender)

// WithBaseURL points the sender at another Bot API host.
func WithBaseURL(url string) TelegramOption {
	return func(s *TelegramSender) { s.baseURL = url }
}

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(c *http.Client) TelegramOption {
	return func(s *TelegramSender) { s.client = c }
}

// NewTelegramSender returns a sender for chatID authenticated with token.
func NewTelegramSender(token, chatID string, opts ...TelegramOption) *TelegramSender {
	s := &TelegramSender{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPI,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TelegramError is a request the Bot API answered with ok=false.
type TelegramError struct {
	Code        int
	Description string
	// RetryAfter is set when the chat is rate limited.
	RetryAfter time.Duration
}

func (e *TelegramError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram: %s (retry after %s)", e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram: %s", e.Description)
}

type sendMessageRequest struct {
	ChatID             string `json:"chat_id"`
	Text               string `json:"text"`
	ParseMode          string `json:"parse_mode"`
	DisablePagePreview bool   `json:"disable_web_page_preview"`
}

type apiReply struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// SendMessage delivers an HTML notification. Text over Telegram's length
// limit is cut short rather than rejected.
func (s *TelegramSender) SendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:             s.chatID,
		Text:               clip(text, maxMessageRunes),
		ParseMode:          "HTML",
		DisablePagePreview: true,
	})
	if err != nil {
		return err
	}

	endpoint := s.baseURL + "/bot" + s.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	var reply apiReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decoding telegram reply (HTTP %d): %w", resp.StatusCode, err)
	}
	if !reply.OK {
		return &TelegramError{
			Code:        reply.ErrorCode,
			Description: reply.Description,
			RetryAfter:  time.Duration(reply.Parameters.RetryAfter) * time.Second,
		}
	}
	return nil
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
