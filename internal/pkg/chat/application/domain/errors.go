package chat

import "errors"

// Domain-level errors for chat behaviors. Controllers map these onto HTTP
// statuses; usecases return them unwrapped so errors.Is works end to end.
var (
	// ErrEmptyContent rejects messages that are empty after trimming.
	ErrEmptyContent = errors.New("chat: message content is empty")
	// ErrContentTooLong bounds message size.
	ErrContentTooLong = errors.New("chat: message content exceeds maximum length")
	// ErrSelfConversation rejects a listing owner opening a thread with themselves.
	ErrSelfConversation = errors.New("chat: cannot start a conversation with yourself")
	// ErrNotParticipant is the access-denied gate: the caller is not one of
	// the conversation's two participants.
	ErrNotParticipant = errors.New("chat: user is not a participant in this conversation")
	// ErrNotSender guards edit/delete: only the original sender may mutate a message.
	ErrNotSender = errors.New("chat: only the sender may modify this message")
	// ErrConversationNotFound and ErrMessageNotFound surface missing entities.
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrMessageNotFound      = errors.New("chat: message not found")
)
