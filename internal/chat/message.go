// ABOUTME: Chat transcript message types and fixed bot texts
// ABOUTME: Converts between in-memory messages and persisted history rows

package chat

import (
	"time"

	"github.com/2389/assist-console/internal/store"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = store.SenderUser
	SenderBot  Sender = store.SenderBot
)

// Fixed bot texts.
const (
	PlaceholderText = "…"
	NoResponseText  = "⚠️ No response."
	ErrorText       = "⚠️ Error: Could not connect to server."
)

// DefaultUserID is sent with every reply request unless configured otherwise.
const DefaultUserID = "local_user"

// Message is one entry of a transcript.
type Message struct {
	ID        string
	Sender    Sender
	Content   string
	Pending   bool
	CreatedAt time.Time
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

func (m Message) record(conversationID string) *store.ChatMessage {
	return &store.ChatMessage{
		ID:             m.ID,
		ConversationID: conversationID,
		Sender:         string(m.Sender),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// FromRecords rebuilds transcript messages from persisted history.
func FromRecords(records []*store.ChatMessage) []Message {
	msgs := make([]Message, 0, len(records))
	for _, r := range records {
		msgs = append(msgs, Message{
			ID:        r.ID,
			Sender:    Sender(r.Sender),
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return msgs
}
