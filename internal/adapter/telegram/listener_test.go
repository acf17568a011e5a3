package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"/add", "add", true},
		{"/Add", "add", true},
		{"/search@teilwas_bot", "search", true},
		{"/d extra words", "d", true},
		{"plain text", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := parseCommand(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestToTransportUpdate(t *testing.T) {
	t.Run("TextMessage", func(t *testing.T) {
		event, ok := toTransportUpdate(update{
			UpdateID: 7,
			Message: &message{
				From: &user{ID: 42, LanguageCode: "de"},
				Chat: chat{ID: 42},
				Text: "/subscribe",
			},
		})
		require.True(t, ok)
		assert.Equal(t, int64(42), event.UserID)
		assert.Equal(t, "de", event.Locale)
		assert.Equal(t, "subscribe", event.Command)
	})

	t.Run("LocationMessage", func(t *testing.T) {
		event, ok := toTransportUpdate(update{
			Message: &message{
				From:     &user{ID: 42},
				Chat:     chat{ID: 42},
				Location: &location{Latitude: 52.52, Longitude: 13.405},
			},
		})
		require.True(t, ok)
		require.NotNil(t, event.Location)
		assert.Equal(t, 52.52, event.Location.Latitude)
		assert.Empty(t, event.Command)
	})

	t.Run("NoMessage", func(t *testing.T) {
		_, ok := toTransportUpdate(update{UpdateID: 1})
		assert.False(t, ok)
	})
}
