// Package telegram posts alerts through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/procurement_agent/internal/adapters/httpx"
	"github.com/SscSPs/procurement_agent/internal/apperrors"
)

const (
	providerName = "telegram"
	alertPrefix  = "Procurement Alert\n\n"
	// MaxMessageLength is the Bot API limit for a text message, in characters.
	MaxMessageLength = 4096
)

// Notifier implements gateways.ChatNotifier for one bot and chat.
type Notifier struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

func NewNotifier(baseURL, token, chatID string, timeout time.Duration) *Notifier {
	return &Notifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		chatID:     chatID,
		httpClient: httpx.NewClient(timeout),
	}
}

// Configured reports whether both the bot token and the chat id are set.
func (n *Notifier) Configured() bool {
	return n.token != "" && n.chatID != ""
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text, prefixed with the alert header, to the configured chat. Text is
// sent without a parse mode because model output is not guaranteed to be valid Markdown.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if !n.Configured() {
		return fmt.Errorf("%w: telegram bot token or chat id", apperrors.ErrNotConfigured)
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: Truncate(alertPrefix+text, MaxMessageLength)})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/bot"+n.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		// The URL carries the token, so it must not end up in logs.
		return fmt.Errorf("build telegram request: invalid base URL")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return httpx.TransportError(providerName, redact(err, n.token))
	}
	defer resp.Body.Close()

	if !httpx.IsSuccess(resp.StatusCode) {
		return httpx.StatusError(providerName, resp)
	}

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decode telegram response: %v", apperrors.ErrMalformedResponse, err)
	}
	if !result.OK {
		return fmt.Errorf("%w: telegram rejected message: %s", apperrors.ErrUpstream, result.Description)
	}
	return nil
}

// Truncate shortens s to at most limit characters, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact removes the bot token from transport errors, which embed the request URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}
