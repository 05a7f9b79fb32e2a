package chat

import (
	"time"

	"github.com/google/uuid"
)

// MessageType is the closed set of transcript message tags. The tag
// determines how a message is rendered and what payload the renderer
// pulls alongside it (product list, contact details, catalog link).
type MessageType string

const (
	MessageBot     MessageType = "bot"
	MessageUser    MessageType = "user"
	MessageProduct MessageType = "product"
	MessageContact MessageType = "contact"
	MessageCatalog MessageType = "catalog"
	MessageSupport MessageType = "support"
)

// Message is a single transcript entry. Immutable once appended; the
// transcript is append-only and display order is insertion order.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

func newMessage(t MessageType, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      t,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
