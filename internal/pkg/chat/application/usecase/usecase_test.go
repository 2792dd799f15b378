package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "go-parley/internal/pkg/chat/application/domain"
	listing "go-parley/internal/pkg/listing/port"
)

const (
	testListingID = "listing-1"
	ownerID       = "bob"
	buyerID       = "alice"
	strangerID    = "mallory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{listings: map[string]*listing.Listing{
		testListingID: {ID: testListingID, OwnerID: ownerID, Title: "Lost keys"},
	}}
}

// seedConversation opens the buyer/owner thread and appends messages from
// the given senders, returning the conversation id and message ids.
func seedConversation(t *testing.T, repo *memRepo, senders ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	conv, err := repo.CreateConversation(ctx, testListingID, buyerID, ownerID)
	require.NoError(t, err)

	ids := make([]string, 0, len(senders))
	for i, sender := range senders {
		msg, err := repo.AppendMessage(ctx, conv.ID, sender, "message "+strconv.Itoa(i), conv.CreatedAt.Add(1))
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}
	return conv.ID, ids
}

func TestGetOrCreateConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates on first open and reuses afterwards", func(t *testing.T) {
		repo := newMemRepo()
		uc := NewGetOrCreateConversationUseCase(repo, testDirectory())

		first, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: testListingID, RequesterID: buyerID})
		require.NoError(t, err)
		assert.Equal(t, testListingID, first.ListingID)
		assert.Equal(t, [2]string{buyerID, ownerID}, first.Participants())

		second, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: testListingID, RequesterID: buyerID})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("owner opening resolves to the same thread", func(t *testing.T) {
		repo := newMemRepo()
		uc := NewGetOrCreateConversationUseCase(repo, testDirectory())

		fromBuyer, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: testListingID, RequesterID: buyerID})
		require.NoError(t, err)

		// The owner cannot open against their own listing without a
		// counterpart, so the owner path goes through the stored pair.
		fromStore, err := repo.FindByListingPair(ctx, testListingID, buyerID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, fromBuyer.ID, fromStore.ID)
	})

	t.Run("rejects the owner opening a thread with themselves", func(t *testing.T) {
		uc := NewGetOrCreateConversationUseCase(newMemRepo(), testDirectory())

		_, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: testListingID, RequesterID: ownerID})
		assert.ErrorIs(t, err, chat.ErrSelfConversation)
	})

	t.Run("unknown listing surfaces as not found", func(t *testing.T) {
		uc := NewGetOrCreateConversationUseCase(newMemRepo(), testDirectory())

		_, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: "nope", RequesterID: buyerID})
		assert.ErrorIs(t, err, listing.ErrListingNotFound)
	})

	t.Run("store failures are wrapped as persistence errors", func(t *testing.T) {
		repo := newMemRepo()
		repo.failWith = errors.New("connection refused")
		uc := NewGetOrCreateConversationUseCase(repo, testDirectory())

		_, err := uc.Execute(ctx, GetOrCreateConversationInput{ListingID: testListingID, RequesterID: buyerID})
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then broadcasts excluding the sender", func(t *testing.T) {
		repo := newMemRepo()
		b := &recordingBroadcaster{}
		uc := NewSendMessageUseCase(repo, testDirectory(), b, testLogger())

		res, err := uc.Execute(ctx, SendMessageInput{ListingID: testListingID, SenderID: buyerID, Content: "  hello  "})
		require.NoError(t, err)
		assert.Equal(t, "hello", res.Message.Content)
		assert.Equal(t, buyerID, res.Message.SenderID)
		assert.NotEmpty(t, res.Message.ID)
		assert.Equal(t, res.Message.CreatedAt, res.Conversation.LastMessageAt)

		stored, err := repo.GetConversation(ctx, res.Conversation.ID)
		require.NoError(t, err)
		require.Len(t, stored.Messages, 1)
		assert.Equal(t, "hello", stored.Messages[0].Content)

		events := b.all()
		require.Len(t, events, 1)
		assert.Equal(t, EventMessageCreated, events[0].EventType)
		assert.Equal(t, testListingID, events[0].ListingID)
		assert.Equal(t, buyerID, events[0].ExcludeUserID)
	})

	t.Run("rejects invalid content before touching the store", func(t *testing.T) {
		repo := newMemRepo()
		b := &recordingBroadcaster{}
		uc := NewSendMessageUseCase(repo, testDirectory(), b, testLogger())

		_, err := uc.Execute(ctx, SendMessageInput{ListingID: testListingID, SenderID: buyerID, Content: "   "})
		assert.ErrorIs(t, err, chat.ErrEmptyContent)
		assert.Empty(t, b.all())
		assert.Empty(t, repo.conversations)
	})

	t.Run("owner cannot message their own listing", func(t *testing.T) {
		uc := NewSendMessageUseCase(newMemRepo(), testDirectory(), &recordingBroadcaster{}, testLogger())

		_, err := uc.Execute(ctx, SendMessageInput{ListingID: testListingID, SenderID: ownerID, Content: "hi"})
		assert.ErrorIs(t, err, chat.ErrSelfConversation)
	})

	t.Run("no broadcast when persistence fails", func(t *testing.T) {
		repo := newMemRepo()
		b := &recordingBroadcaster{}
		uc := NewSendMessageUseCase(repo, testDirectory(), b, testLogger())
		repo.failWith = errors.New("down")

		_, err := uc.Execute(ctx, SendMessageInput{ListingID: testListingID, SenderID: buyerID, Content: "hi"})
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, b.all())
	})
}

func TestFetchConversation(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	convID, _ := seedConversation(t, repo, buyerID, ownerID)
	uc := NewFetchConversationUseCase(repo)

	t.Run("participants see the full sequence", func(t *testing.T) {
		conv, err := uc.Execute(ctx, FetchConversationInput{ConversationID: convID, RequesterID: ownerID})
		require.NoError(t, err)
		assert.Len(t, conv.Messages, 2)
	})

	t.Run("non-participants are denied", func(t *testing.T) {
		_, err := uc.Execute(ctx, FetchConversationInput{ConversationID: convID, RequesterID: strangerID})
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})

	t.Run("unknown conversation is not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, FetchConversationInput{ConversationID: "conv-404", RequesterID: buyerID})
		assert.ErrorIs(t, err, chat.ErrConversationNotFound)
	})
}

func TestEditMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("sender edits their own message", func(t *testing.T) {
		repo := newMemRepo()
		convID, msgIDs := seedConversation(t, repo, buyerID)
		b := &recordingBroadcaster{}
		uc := NewEditMessageUseCase(repo, b)

		msg, err := uc.Execute(ctx, EditMessageInput{
			ConversationID: convID, MessageID: msgIDs[0], RequesterID: buyerID, Content: "updated",
		})
		require.NoError(t, err)
		assert.Equal(t, "updated", msg.Content)
		assert.True(t, msg.IsEdited)
		require.NotNil(t, msg.EditedAt)

		stored, err := repo.GetMessage(ctx, convID, msgIDs[0])
		require.NoError(t, err)
		assert.Equal(t, "updated", stored.Content)
		assert.True(t, stored.IsEdited)

		events := b.all()
		require.Len(t, events, 1)
		assert.Equal(t, EventMessageEdited, events[0].EventType)
		assert.Equal(t, buyerID, events[0].ExcludeUserID)
	})

	t.Run("access denied wins over sender ownership", func(t *testing.T) {
		repo := newMemRepo()
		convID, msgIDs := seedConversation(t, repo, buyerID)
		uc := NewEditMessageUseCase(repo, &recordingBroadcaster{})

		// A stranger probing someone else's message must get the
		// participation error, not the ownership error.
		_, err := uc.Execute(ctx, EditMessageInput{
			ConversationID: convID, MessageID: msgIDs[0], RequesterID: strangerID, Content: "x",
		})
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})

	t.Run("a participant cannot edit the counterpart's message", func(t *testing.T) {
		repo := newMemRepo()
		convID, msgIDs := seedConversation(t, repo, buyerID)
		uc := NewEditMessageUseCase(repo, &recordingBroadcaster{})

		_, err := uc.Execute(ctx, EditMessageInput{
			ConversationID: convID, MessageID: msgIDs[0], RequesterID: ownerID, Content: "x",
		})
		assert.ErrorIs(t, err, chat.ErrNotSender)
	})

	t.Run("unknown message is not found", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID)
		uc := NewEditMessageUseCase(repo, &recordingBroadcaster{})

		_, err := uc.Execute(ctx, EditMessageInput{
			ConversationID: convID, MessageID: "msg-404", RequesterID: buyerID, Content: "x",
		})
		assert.ErrorIs(t, err, chat.ErrMessageNotFound)
	})
}

func TestDeleteMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("sender deletes their own message", func(t *testing.T) {
		repo := newMemRepo()
		convID, msgIDs := seedConversation(t, repo, buyerID, ownerID)
		b := &recordingBroadcaster{}
		uc := NewDeleteMessageUseCase(repo, b)

		err := uc.Execute(ctx, DeleteMessageInput{ConversationID: convID, MessageID: msgIDs[0], RequesterID: buyerID})
		require.NoError(t, err)

		_, err = repo.GetMessage(ctx, convID, msgIDs[0])
		assert.ErrorIs(t, err, chat.ErrMessageNotFound)

		conv, err := repo.GetConversation(ctx, convID)
		require.NoError(t, err)
		assert.Len(t, conv.Messages, 1)

		events := b.all()
		require.Len(t, events, 1)
		assert.Equal(t, EventMessageDeleted, events[0].EventType)
	})

	t.Run("only the sender may delete", func(t *testing.T) {
		repo := newMemRepo()
		convID, msgIDs := seedConversation(t, repo, buyerID)
		uc := NewDeleteMessageUseCase(repo, &recordingBroadcaster{})

		err := uc.Execute(ctx, DeleteMessageInput{ConversationID: convID, MessageID: msgIDs[0], RequesterID: ownerID})
		assert.ErrorIs(t, err, chat.ErrNotSender)

		err = uc.Execute(ctx, DeleteMessageInput{ConversationID: convID, MessageID: msgIDs[0], RequesterID: strangerID})
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})
}

func TestClearConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("empties the sequence but keeps the conversation", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID, ownerID, buyerID)
		b := &recordingBroadcaster{}
		uc := NewClearConversationUseCase(repo, b)

		// Either participant may clear, regardless of who sent what.
		err := uc.Execute(ctx, ClearConversationInput{ConversationID: convID, RequesterID: ownerID})
		require.NoError(t, err)

		conv, err := repo.GetConversation(ctx, convID)
		require.NoError(t, err)
		assert.Empty(t, conv.Messages)

		events := b.all()
		require.Len(t, events, 1)
		assert.Equal(t, EventConversationCleared, events[0].EventType)
		assert.Equal(t, ownerID, events[0].ExcludeUserID)
	})

	t.Run("non-participants cannot clear", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID)
		uc := NewClearConversationUseCase(repo, &recordingBroadcaster{})

		err := uc.Execute(ctx, ClearConversationInput{ConversationID: convID, RequesterID: strangerID})
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("flips only the counterpart's messages and clears the counter", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID, ownerID, buyerID)
		cache := newMemCache()
		require.NoError(t, cache.Set(ctx, UnreadCounterKey(ownerID, convID), "2", 0))
		uc := NewMarkReadUseCase(repo, cache)

		err := uc.Execute(ctx, MarkReadInput{ConversationID: convID, RequesterID: ownerID})
		require.NoError(t, err)

		conv, err := repo.GetConversation(ctx, convID)
		require.NoError(t, err)
		for _, m := range conv.Messages {
			if m.SenderID == ownerID {
				assert.False(t, m.IsRead, "own messages keep their flag")
			} else {
				assert.True(t, m.IsRead, "counterpart messages become read")
			}
		}

		_, err = cache.Get(ctx, UnreadCounterKey(ownerID, convID))
		assert.Error(t, err)
	})

	t.Run("re-invocation is a no-op", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID)
		uc := NewMarkReadUseCase(repo, newMemCache())

		require.NoError(t, uc.Execute(ctx, MarkReadInput{ConversationID: convID, RequesterID: ownerID}))
		require.NoError(t, uc.Execute(ctx, MarkReadInput{ConversationID: convID, RequesterID: ownerID}))

		conv, err := repo.GetConversation(ctx, convID)
		require.NoError(t, err)
		assert.True(t, conv.Messages[0].IsRead)
	})

	t.Run("non-participants are denied", func(t *testing.T) {
		repo := newMemRepo()
		convID, _ := seedConversation(t, repo, buyerID)
		uc := NewMarkReadUseCase(repo, newMemCache())

		err := uc.Execute(ctx, MarkReadInput{ConversationID: convID, RequesterID: strangerID})
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})
}

func TestListConversations(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	convID, _ := seedConversation(t, repo, buyerID, ownerID)
	uc := NewListConversationsUseCase(repo)

	t.Run("returns only the caller's threads with their newest message", func(t *testing.T) {
		summaries, err := uc.Execute(ctx, ListConversationsInput{RequesterID: buyerID})
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, convID, summaries[0].Conversation.ID)
		assert.Equal(t, ownerID, summaries[0].LastMessage.SenderID)
	})

	t.Run("a user with no threads gets an empty list", func(t *testing.T) {
		summaries, err := uc.Execute(ctx, ListConversationsInput{RequesterID: strangerID})
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})
}

func TestUnreadCounts(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	convID, _ := seedConversation(t, repo, buyerID)
	cache := newMemCache()
	uc := NewUnreadCountsUseCase(repo, cache)

	t.Run("conversations without a counter are omitted", func(t *testing.T) {
		counts, err := uc.Execute(ctx, UnreadCountsInput{RequesterID: ownerID})
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("reports counters keyed by conversation", func(t *testing.T) {
		_, err := cache.Incr(ctx, UnreadCounterKey(ownerID, convID))
		require.NoError(t, err)
		_, err = cache.Incr(ctx, UnreadCounterKey(ownerID, convID))
		require.NoError(t, err)

		counts, err := uc.Execute(ctx, UnreadCountsInput{RequesterID: ownerID})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{convID: 2}, counts)
	})
}
