package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

func TestReplyMarkup(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.Nil(t, replyMarkup(nil))
	})

	t.Run("Remove", func(t *testing.T) {
		markup, ok := replyMarkup(transport.RemoveKeyboard()).(replyKeyboardRemove)
		require.True(t, ok)
		assert.True(t, markup.RemoveKeyboard)
	})

	t.Run("Buttons", func(t *testing.T) {
		kb := transport.ReplyKeyboard([]string{"Food", "Thing"}, []string{"All"})
		markup, ok := replyMarkup(kb).(replyKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, markup.Keyboard, 2)
		assert.Equal(t, "Food", markup.Keyboard[0][0].Text)
		assert.Equal(t, "All", markup.Keyboard[1][0].Text)
		assert.True(t, markup.ResizeKeyboard)
	})
}

func TestDecodeAPIResponse(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		var result []update
		err := decodeAPIResponse(strings.NewReader(`{"ok":true,"result":[{"update_id":5}]}`), "getUpdates", &result)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, int64(5), result[0].UpdateID)
	})

	t.Run("Rejected", func(t *testing.T) {
		err := decodeAPIResponse(strings.NewReader(`{"ok":false,"description":"Bad Request"}`), "sendMessage", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bad Request")
	})

	t.Run("Garbage", func(t *testing.T) {
		err := decodeAPIResponse(strings.NewReader("not json"), "sendMessage", nil)
		assert.Error(t, err)
	})
}
