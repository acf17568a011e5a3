package transport

import (
	"context"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

// Keyboard is a reply-keyboard spec: either a set of button rows to show,
// or an instruction to remove the current keyboard.
type Keyboard struct {
	Buttons [][]string
	Remove  bool
}

func ReplyKeyboard(rows ...[]string) *Keyboard {
	return &Keyboard{Buttons: rows}
}

func RemoveKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

// Update is one inbound user event as delivered by the chat transport.
// Identity and locale come from the transport; the core never derives them.
type Update struct {
	UserID   int64
	ChatID   int64
	Locale   string
	Text     string
	Command  string // bare command name without the leading slash, if any
	Location *entity.Location
}

type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard *Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, image []byte, caption string) error
}

type Listener interface {
	// Updates streams inbound events until ctx is cancelled, after which
	// the channel is closed.
	Updates(ctx context.Context) <-chan Update
}
