package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// FetchConversationInput identifies a conversation and the caller requesting it.
type FetchConversationInput struct {
	ConversationID string
	RequesterID    string
}

// FetchConversationUseCase returns a conversation with its full message
// sequence, gated on participation.
// One class per use case (own file)
type FetchConversationUseCase struct {
	Repo repository.ConversationRepository
}

func NewFetchConversationUseCase(repo repository.ConversationRepository) *FetchConversationUseCase {
	return &FetchConversationUseCase{Repo: repo}
}

func (uc *FetchConversationUseCase) Execute(ctx context.Context, in FetchConversationInput) (*chat.Conversation, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation_id and requester_id are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !conv.HasParticipant(in.RequesterID) {
		return nil, chat.ErrNotParticipant
	}
	return conv, nil
}
