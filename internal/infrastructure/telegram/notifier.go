package telegram

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
	"fxalert-service/internal/infrastructure/httpx"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// Notifier sends quote alerts through the Telegram Bot API sendMessage call.
type Notifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	// Currency is the watched (source) currency named in up/down messages.
	Currency string
	Client   *httpx.Client
}

var _ application.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx context.Context, rec domain.QuoteRecord, kind domain.NotificationKind) error {
	text, err := Message(rec, kind, n.Currency)
	if err != nil {
		return &domain.NotificationError{Reason: "render message", Err: err}
	}

	u, err := url.Parse(n.BaseURL)
	if err != nil {
		return &domain.NotificationError{Reason: "invalid base url", Err: err}
	}
	// The token is part of the path; JoinPath escapes it.
	u = u.JoinPath("bot"+n.BotToken, "sendMessage")
	q := u.Query()
	q.Set("chat_id", n.ChatID)
	q.Set("text", text)
	u.RawQuery = q.Encode()

	client := n.Client
	if client == nil {
		client = &httpx.Client{}
	}
	resp, err := client.Get(ctx, u.String())
	if err != nil {
		return &domain.NotificationError{StatusCode: resp.StatusCode, Reason: resp.Reason, Err: redact(err, n.BotToken)}
	}
	if !resp.OK() {
		return &domain.NotificationError{StatusCode: resp.StatusCode, Reason: resp.Reason}
	}
	return nil
}

// Message renders the alert text for kind.
func Message(rec domain.QuoteRecord, kind domain.NotificationKind, currency string) (string, error) {
	fetchedAt := rec.FetchedAt.UTC().Format(timeLayout)

	var head string
	switch kind {
	case domain.NotificationFirst:
		head = fmt.Sprintf("First quote fetched @ %s! ", fetchedAt)
	case domain.NotificationUp:
		head = fmt.Sprintf("Oh no! %s price just went up @ %s! ", currency, fetchedAt)
	case domain.NotificationDown:
		head = fmt.Sprintf("Oh yeah! %s price just went down @ %s! ", currency, fetchedAt)
	default:
		return "", fmt.Errorf("unknown notification kind %d", int(kind))
	}

	return head +
		"Current value: " + strconv.FormatFloat(rec.Value, 'f', -1, 64) + ". " +
		"It was last updated at: " + rec.RefreshedAt.UTC().Format(timeLayout), nil
}

// redactedError hides the bot token in the message while keeping the cause
// reachable through errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact strips the bot token from transport errors, which embed the URL.
func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, token, "<redacted>"), err: err}
}
