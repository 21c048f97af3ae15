package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Sender delivers one rendered alert to the messaging channel. Delivery is
// fire-and-forget: callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Telegram sends Markdown messages through the Bot API.
type Telegram struct {
	http   *resty.Client
	token  string
	chatID string
}

// NewTelegram creates a Telegram sender. Host overrides the Bot API base URL
// and is normally empty.
func NewTelegram(token, chatID, host string) *Telegram {
	if host == "" {
		host = "https://api.telegram.org"
	}
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(10 * time.Second)

	return &Telegram{http: client, token: token, chatID: chatID}
}

// Send posts one message to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if t.token == "" || t.chatID == "" {
		return errors.New("telegram credentials not set")
	}

	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":                  t.chatID,
			"text":                     text,
			"parse_mode":               "Markdown",
			"disable_web_page_preview": true,
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	if resp.IsError() {
		return errors.Errorf("send telegram message: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
