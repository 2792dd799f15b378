package usecase

import (
	chat "go-parley/internal/pkg/chat/application/domain"
)

// Live-channel event types pushed to joined rooms. Read-state changes are
// deliberately absent: read receipts are pulled, not pushed, to bound event
// volume.
const (
	EventMessageCreated      = "message-created"
	EventMessageEdited       = "message-edited"
	EventMessageDeleted      = "message-deleted"
	EventConversationCleared = "conversation-cleared"
)

// Broadcaster fans an event out to the listing room, excluding every
// connection of excludeUserID (the actor already holds the authoritative
// state from the synchronous response). Implementations must be
// fire-and-forget: a failed or missing delivery never propagates back.
type Broadcaster interface {
	Broadcast(listingID, eventType string, payload any, excludeUserID string)
}

// MessageCreatedEvent is the payload for EventMessageCreated.
type MessageCreatedEvent struct {
	Message        chat.Message `json:"message"`
	ConversationID string       `json:"conversation_id"`
	ListingID      string       `json:"listing_id"`
}

// MessageEditedEvent is the payload for EventMessageEdited.
type MessageEditedEvent struct {
	Message        chat.Message `json:"message"`
	ConversationID string       `json:"conversation_id"`
}

// MessageDeletedEvent is the payload for EventMessageDeleted.
type MessageDeletedEvent struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
}

// ConversationClearedEvent is the payload for EventConversationCleared.
type ConversationClearedEvent struct {
	ConversationID string `json:"conversation_id"`
}
