package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message to remove.
type DeleteMessageInput struct {
	ConversationID string
	MessageID      string
	RequesterID    string
}

// DeleteMessageUseCase removes a message from the sequence entirely — no
// tombstone remains. Same gate ordering as edit: participation first, then
// sender ownership.
// One class per use case (own file)
type DeleteMessageUseCase struct {
	Repo        repository.ConversationRepository
	Broadcaster Broadcaster
}

func NewDeleteMessageUseCase(repo repository.ConversationRepository, b Broadcaster) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo, Broadcaster: b}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.ConversationID == "" || in.MessageID == "" || in.RequesterID == "" {
		return fmt.Errorf("conversation_id, message_id and requester_id are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return chat.ErrNotParticipant
	}

	msg, err := uc.Repo.GetMessage(ctx, in.ConversationID, in.MessageID)
	if errors.Is(err, chat.ErrMessageNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.RequesterID {
		return chat.ErrNotSender
	}

	if err := uc.Repo.DeleteMessage(ctx, in.ConversationID, in.MessageID); err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Broadcaster.Broadcast(conv.ListingID, EventMessageDeleted, MessageDeletedEvent{
		MessageID:      in.MessageID,
		ConversationID: conv.ID,
	}, in.RequesterID)

	return nil
}
