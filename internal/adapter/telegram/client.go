package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/subkultur/teilwas-bot/internal/app/config"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

const apiBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API over plain HTTPS: long polling for
// inbound updates, sendMessage/sendPhoto for outbound. It implements both
// transport.Sender and transport.Listener.
type Client struct {
	token       string
	pollTimeout time.Duration
	httpClient  *http.Client
	log         logger.Logger
}

func NewClient(cfg config.TelegramConfig, log logger.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}
	return &Client{
		token:       cfg.Token,
		pollTimeout: cfg.PollTimeout,
		// The HTTP timeout must outlast the long-poll hold time.
		httpClient: &http.Client{Timeout: cfg.PollTimeout + 10*time.Second},
		log:        log,
	}, nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", apiBaseURL, c.token, method)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, method, result)
}

func decodeAPIResponse(r io.Reader, method string, result interface{}) error {
	var apiResp apiResponse
	if err := json.NewDecoder(r).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s rejected: %s", method, apiResp.Description)
	}
	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// Wire types for replies.

type replyKeyboardMarkup struct {
	Keyboard       [][]keyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
	Selective      bool               `json:"selective"`
}

type keyboardButton struct {
	Text string `json:"text"`
}

type replyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

func replyMarkup(kb *transport.Keyboard) interface{} {
	if kb == nil {
		return nil
	}
	if kb.Remove {
		return replyKeyboardRemove{RemoveKeyboard: true}
	}
	rows := make([][]keyboardButton, 0, len(kb.Buttons))
	for _, row := range kb.Buttons {
		buttons := make([]keyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, keyboardButton{Text: label})
		}
		rows = append(rows, buttons)
	}
	return replyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true, Selective: true}
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, keyboard *transport.Keyboard) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if markup := replyMarkup(keyboard); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, image []byte, caption string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("failed to write chat_id field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("photo", "map.png")
	if err != nil {
		return fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("failed to write photo bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &body)
	if err != nil {
		return fmt.Errorf("failed to build sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendPhoto request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, "sendPhoto", nil)
}
