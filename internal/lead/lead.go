// Package lead forwards submitted enquiry forms to an external sink.
// The chat core itself does not persist leads.
package lead

import (
	"context"
	"time"
)

// Lead is a validated enquiry handed off by the chat session.
type Lead struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message"`
	Language    string    `json:"language"`
	SessionID   string    `json:"session_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Sink receives submitted leads. Implementations must be safe for
// concurrent use; delivery failures never bounce back into the chat.
type Sink interface {
	Submit(ctx context.Context, l Lead) error
}
