package usecase

import (
	"context"
	"errors"
	"fmt"

	cacheport "go-parley/internal/infrastructure/cache/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// UnreadCounterKey is the cache key tracking unread messages per user and
// conversation. The worker increments it on send; markRead clears it.
func UnreadCounterKey(userID, conversationID string) string {
	return "chat:unread:" + userID + ":" + conversationID
}

// MarkReadInput identifies whose view of which conversation becomes read.
type MarkReadInput struct {
	ConversationID string
	RequesterID    string
}

// MarkReadUseCase flips the read flag on every message the caller did not
// send. Re-invocation is a no-op. Read state is pulled by clients, never
// broadcast, to bound live event volume.
// One class per use case (own file)
type MarkReadUseCase struct {
	Repo  repository.ConversationRepository
	Cache cacheport.Cache
}

func NewMarkReadUseCase(repo repository.ConversationRepository, cache cacheport.Cache) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo, Cache: cache}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
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

	if err := uc.Repo.MarkRead(ctx, in.ConversationID, in.RequesterID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The unread counter is a notification hint, not source of truth;
	// cache trouble must not fail the operation.
	_, _ = uc.Cache.Del(ctx, UnreadCounterKey(in.RequesterID, in.ConversationID))

	return nil
}
