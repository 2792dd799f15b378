package usecase

import (
	"context"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// conversationListLimit caps the "my conversations" view.
const conversationListLimit = 20

// ListConversationsInput identifies whose conversations to list.
type ListConversationsInput struct {
	RequesterID string
}

// ListConversationsUseCase returns the caller's non-empty conversations,
// newest activity first, each reduced to its most recent message.
// One class per use case (own file)
type ListConversationsUseCase struct {
	Repo repository.ConversationRepository
}

func NewListConversationsUseCase(repo repository.ConversationRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.Summary, error) {
	if in.RequesterID == "" {
		return nil, fmt.Errorf("requester_id is required")
	}

	summaries, err := uc.Repo.ListSummaries(ctx, in.RequesterID, conversationListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}
