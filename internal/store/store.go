// ABOUTME: Types and sentinel errors for local console persistence
// ABOUTME: Chat history records and the not-found error

package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Chat message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one resolved message of a chat widget conversation.
type ChatMessage struct {
	ID             string
	ConversationID string
	Sender         string
	Content        string
	CreatedAt      time.Time
}
