package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	cacheport "go-parley/internal/infrastructure/cache/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// UnreadCountsInput identifies whose counters to read.
type UnreadCountsInput struct {
	RequesterID string
}

// UnreadCountsUseCase reads the per-conversation unread counters maintained
// by the notification worker. Counters are hints for badges and polling
// clients; the message read flags remain the source of truth.
// One class per use case (own file)
type UnreadCountsUseCase struct {
	Repo  repository.ConversationRepository
	Cache cacheport.Cache
}

func NewUnreadCountsUseCase(repo repository.ConversationRepository, cache cacheport.Cache) *UnreadCountsUseCase {
	return &UnreadCountsUseCase{Repo: repo, Cache: cache}
}

// Execute returns a conversation-id -> unread-count map for the caller's
// active conversations. Conversations without a counter are omitted.
func (uc *UnreadCountsUseCase) Execute(ctx context.Context, in UnreadCountsInput) (map[string]int64, error) {
	if in.RequesterID == "" {
		return nil, fmt.Errorf("requester_id is required")
	}

	summaries, err := uc.Repo.ListSummaries(ctx, in.RequesterID, conversationListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conversationIDs := lo.Map(summaries, func(s chat.Summary, _ int) string {
		return s.Conversation.ID
	})

	counts := make(map[string]int64, len(conversationIDs))
	for _, id := range conversationIDs {
		raw, err := uc.Cache.Get(ctx, UnreadCounterKey(in.RequesterID, id))
		if errors.Is(err, cacheport.ErrMiss) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}
