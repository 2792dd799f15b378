package repository

import (
	"context"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
)

// ConversationRepository is the durable log behind the chat service — the
// single source of truth for conversations and their message sequences.
//
// Adapters translate storage-level "no rows" conditions into
// chat.ErrConversationNotFound / chat.ErrMessageNotFound so callers never
// see driver errors. Conflicting writes to the same conversation are
// serialized by the store; writes to different conversations proceed
// independently.
type ConversationRepository interface {
	// FindByListingPair returns the conversation keyed by (listing,
	// normalized participant pair), messages included, or
	// chat.ErrConversationNotFound.
	FindByListingPair(ctx context.Context, listingID, low, high string) (*chat.Conversation, error)

	// CreateConversation inserts an empty conversation for the pair. It is
	// safe under concurrent creation of the same pair: on conflict the
	// existing conversation is returned instead.
	CreateConversation(ctx context.Context, listingID, low, high string) (*chat.Conversation, error)

	// GetConversation returns the conversation with its full ordered
	// message sequence.
	GetConversation(ctx context.Context, id string) (*chat.Conversation, error)

	// GetMessage returns one message scoped to its conversation.
	GetMessage(ctx context.Context, conversationID, messageID string) (*chat.Message, error)

	// AppendMessage atomically appends to the sequence and advances the
	// conversation's last-activity timestamp, returning the stored message
	// with its assigned id and timestamp.
	AppendMessage(ctx context.Context, conversationID, senderID, content string, at time.Time) (*chat.Message, error)

	// UpdateMessageContent replaces a message body in place and flags it edited.
	UpdateMessageContent(ctx context.Context, conversationID, messageID, content string, editedAt time.Time) error

	// DeleteMessage removes the message from the sequence entirely (no tombstone).
	DeleteMessage(ctx context.Context, conversationID, messageID string) error

	// ClearMessages empties the sequence but keeps the conversation record.
	ClearMessages(ctx context.Context, conversationID string) error

	// MarkRead flips the read flag on every message not sent by readerID.
	// Idempotent.
	MarkRead(ctx context.Context, conversationID, readerID string) error

	// ListSummaries returns the caller's non-empty conversations ordered by
	// last activity descending, each reduced to its newest message.
	ListSummaries(ctx context.Context, userID string, limit int) ([]chat.Summary, error)
}
