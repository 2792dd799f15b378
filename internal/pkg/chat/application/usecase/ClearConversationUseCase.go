package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// ClearConversationInput identifies the conversation to empty.
type ClearConversationInput struct {
	ConversationID string
	RequesterID    string
}

// ClearConversationUseCase empties the message sequence while keeping the
// conversation record. Either participant may clear; sender ownership of
// individual messages is not required for this bulk operation. One
// conversation-cleared event is emitted instead of a per-message fanout.
// One class per use case (own file)
type ClearConversationUseCase struct {
	Repo        repository.ConversationRepository
	Broadcaster Broadcaster
}

func NewClearConversationUseCase(repo repository.ConversationRepository, b Broadcaster) *ClearConversationUseCase {
	return &ClearConversationUseCase{Repo: repo, Broadcaster: b}
}

func (uc *ClearConversationUseCase) Execute(ctx context.Context, in ClearConversationInput) error {
	if in.ConversationID == "" || in.RequesterID == "" {
		return fmt.Errorf("conversation_id and requester_id are required")
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

	if err := uc.Repo.ClearMessages(ctx, in.ConversationID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Broadcaster.Broadcast(conv.ListingID, EventConversationCleared, ConversationClearedEvent{
		ConversationID: conv.ID,
	}, in.RequesterID)

	return nil
}
