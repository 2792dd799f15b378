package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
	listing "go-parley/internal/pkg/listing/port"
)

// GetOrCreateConversationInput identifies the listing and the user opening
// the thread with its owner.
type GetOrCreateConversationInput struct {
	ListingID   string
	RequesterID string
}

// GetOrCreateConversationUseCase resolves the single conversation between
// the requester and the listing owner, lazily creating it on first open.
// Repeated calls return the same conversation.
// One class per use case (own file)
type GetOrCreateConversationUseCase struct {
	Repo     repository.ConversationRepository
	Listings listing.Directory
}

func NewGetOrCreateConversationUseCase(repo repository.ConversationRepository, listings listing.Directory) *GetOrCreateConversationUseCase {
	return &GetOrCreateConversationUseCase{Repo: repo, Listings: listings}
}

// Execute returns the populated conversation for (listing, {requester, owner}).
func (uc *GetOrCreateConversationUseCase) Execute(ctx context.Context, in GetOrCreateConversationInput) (*chat.Conversation, error) {
	if in.ListingID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("listing_id and requester_id are required")
	}
	return resolveConversation(ctx, uc.Repo, uc.Listings, in.ListingID, in.RequesterID)
}

// resolveConversation is the shared open-or-create path used by both the
// explicit getOrCreate operation and send. It enforces the owner-vs-requester
// identity rule before touching the store.
func resolveConversation(ctx context.Context, repo repository.ConversationRepository, listings listing.Directory, listingID, requesterID string) (*chat.Conversation, error) {
	l, err := listings.Lookup(ctx, listingID)
	if err != nil {
		if errors.Is(err, listing.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if l.OwnerID == requesterID {
		return nil, chat.ErrSelfConversation
	}

	low, high, err := chat.NormalizePair(requesterID, l.OwnerID)
	if err != nil {
		return nil, err
	}

	conv, err := repo.FindByListingPair(ctx, listingID, low, high)
	if errors.Is(err, chat.ErrConversationNotFound) {
		conv, err = repo.CreateConversation(ctx, listingID, low, high)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
