package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

// Wire types for getUpdates.

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	From     *user     `json:"from"`
	Chat     chat      `json:"chat"`
	Text     string    `json:"text"`
	Location *location `json:"location"`
}

type user struct {
	ID           int64  `json:"id"`
	LanguageCode string `json:"language_code"`
}

type chat struct {
	ID int64 `json:"id"`
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Updates long-polls getUpdates until ctx is cancelled. Polling errors are
// logged and retried after a short backoff; the channel closes only on
// cancellation.
func (c *Client) Updates(ctx context.Context) <-chan transport.Update {
	out := make(chan transport.Update)

	go func() {
		defer close(out)
		var offset int64

		for {
			updates, err := c.getUpdates(ctx, offset)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				c.log.Errorf("telegram: getUpdates failed: %v", err)
				select {
				case <-time.After(2 * time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, upd := range updates {
				if upd.UpdateID >= offset {
					offset = upd.UpdateID + 1
				}
				event, ok := toTransportUpdate(upd)
				if !ok {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (c *Client) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         int(c.pollTimeout.Seconds()),
		"allowed_updates": []string{"message"},
	}
	var updates []update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func toTransportUpdate(upd update) (transport.Update, bool) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return transport.Update{}, false
	}

	event := transport.Update{
		UserID: msg.From.ID,
		ChatID: msg.Chat.ID,
		Locale: msg.From.LanguageCode,
		Text:   msg.Text,
	}
	if msg.Location != nil {
		event.Location = &entity.Location{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	}
	if cmd, ok := parseCommand(msg.Text); ok {
		event.Command = cmd
	}
	return event, true
}

// parseCommand extracts the bare command name from "/cmd" or "/cmd@botname".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd == "" {
		return "", false
	}
	return strings.ToLower(cmd), true
}
