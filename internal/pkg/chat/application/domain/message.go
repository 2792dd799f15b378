package chat

import (
	"strings"
	"time"
)

// MaxContentLength bounds a single message body.
const MaxContentLength = 2000

// Message is one entry in a conversation's append-only sequence.
//
// IsRead models the per-recipient read flag: with exactly two participants
// it collapses to a single boolean meaning "read by the non-sender".
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	IsRead         bool       `json:"is_read"`
	IsEdited       bool       `json:"is_edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}

// ValidateContent trims and bounds a message body, returning the canonical
// form to persist. Validation happens here, at the service boundary, rather
// than relying on whatever shape the store hands back.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if len(trimmed) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return trimmed, nil
}
