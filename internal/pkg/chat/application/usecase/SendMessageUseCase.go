package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	listing "go-parley/internal/pkg/listing/port"
)

// SendMessageInput carries the data needed to append a message to the
// thread between sender and listing owner.
type SendMessageInput struct {
	ListingID string
	SenderID  string
	Content   string
}

// SendMessageResult returns the server-confirmed message (with its assigned
// id and timestamp, so clients can replace optimistic placeholders) plus the
// updated conversation.
type SendMessageResult struct {
	Conversation *chat.Conversation
	Message      *chat.Message
}

// SendMessageUseCase appends to the durable log first, then broadcasts the
// confirmed message to the listing room. Persistence commits before any
// broadcast attempt, and a failed broadcast never fails the send.
// One class per use case (own file)
type SendMessageUseCase struct {
	Repo        repository.ConversationRepository
	Listings    listing.Directory
	Broadcaster Broadcaster
	Logger      *slog.Logger
}

func NewSendMessageUseCase(repo repository.ConversationRepository, listings listing.Directory, b Broadcaster, logger *slog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Listings: listings, Broadcaster: b, Logger: logger}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if in.ListingID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("listing_id and sender_id are required")
	}

	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	conv, err := resolveConversation(ctx, uc.Repo, uc.Listings, in.ListingID, in.SenderID)
	if err != nil {
		return nil, err
	}

	msg, err := uc.Repo.AppendMessage(ctx, conv.ID, in.SenderID, content, time.Now().UTC())
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv.Messages = append(conv.Messages, *msg)
	conv.LastMessageAt = msg.CreatedAt

	// Durability already succeeded; delivery to live peers is best-effort.
	uc.Broadcaster.Broadcast(conv.ListingID, EventMessageCreated, MessageCreatedEvent{
		Message:        *msg,
		ConversationID: conv.ID,
		ListingID:      conv.ListingID,
	}, in.SenderID)

	uc.Logger.Debug("message sent", "conversation", conv.ID, "message", msg.ID)

	return &SendMessageResult{Conversation: conv, Message: msg}, nil
}
