package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	cacheport "go-parley/internal/infrastructure/cache/port"
	chat "go-parley/internal/pkg/chat/application/domain"
	listing "go-parley/internal/pkg/listing/port"
)

// memRepo is an in-memory ConversationRepository used to exercise use case
// logic without Postgres. It mirrors the adapter's error contract.
type memRepo struct {
	mu            sync.Mutex
	conversations map[string]*chat.Conversation
	nextID        int
	failWith      error // when set, every call fails with this error
}

func newMemRepo() *memRepo {
	return &memRepo{conversations: make(map[string]*chat.Conversation)}
}

func (r *memRepo) id(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func (r *memRepo) FindByListingPair(ctx context.Context, listingID, low, high string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, c := range r.conversations {
		if c.ListingID == listingID && c.ParticipantLow == low && c.ParticipantHigh == high {
			return cloneConversation(c), nil
		}
	}
	return nil, chat.ErrConversationNotFound
}

func (r *memRepo) CreateConversation(ctx context.Context, listingID, low, high string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, c := range r.conversations {
		if c.ListingID == listingID && c.ParticipantLow == low && c.ParticipantHigh == high {
			return cloneConversation(c), nil
		}
	}
	now := time.Now().UTC()
	conv := &chat.Conversation{
		ID:              r.id("conv"),
		ListingID:       listingID,
		ParticipantLow:  low,
		ParticipantHigh: high,
		CreatedAt:       now,
		LastMessageAt:   now,
	}
	r.conversations[conv.ID] = conv
	return cloneConversation(conv), nil
}

func (r *memRepo) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.conversations[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	return cloneConversation(c), nil
}

func (r *memRepo) GetMessage(ctx context.Context, conversationID, messageID string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			m := c.Messages[i]
			return &m, nil
		}
	}
	return nil, chat.ErrMessageNotFound
}

func (r *memRepo) AppendMessage(ctx context.Context, conversationID, senderID, content string, at time.Time) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	msg := chat.Message{
		ID:             r.id("msg"),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      at,
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessageAt = at
	return &msg, nil
}

func (r *memRepo) UpdateMessageContent(ctx context.Context, conversationID, messageID, content string, editedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			c.Messages[i].Content = content
			c.Messages[i].IsEdited = true
			t := editedAt
			c.Messages[i].EditedAt = &t
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (r *memRepo) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return nil
		}
	}
	return chat.ErrMessageNotFound
}

func (r *memRepo) ClearMessages(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	c.Messages = nil
	return nil
}

func (r *memRepo) MarkRead(ctx context.Context, conversationID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	for i := range c.Messages {
		if c.Messages[i].SenderID != readerID {
			c.Messages[i].IsRead = true
		}
	}
	return nil
}

func (r *memRepo) ListSummaries(ctx context.Context, userID string, limit int) ([]chat.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []chat.Summary
	for _, c := range r.conversations {
		if !c.HasParticipant(userID) || len(c.Messages) == 0 {
			continue
		}
		out = append(out, chat.Summary{
			Conversation: *cloneConversation(c),
			LastMessage:  c.Messages[len(c.Messages)-1],
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func cloneConversation(c *chat.Conversation) *chat.Conversation {
	cp := *c
	cp.Messages = append([]chat.Message(nil), c.Messages...)
	return &cp
}

// fakeDirectory resolves listings from a fixed map.
type fakeDirectory struct {
	listings map[string]*listing.Listing
	err      error
}

func (d *fakeDirectory) Lookup(ctx context.Context, listingID string) (*listing.Listing, error) {
	if d.err != nil {
		return nil, d.err
	}
	l, ok := d.listings[listingID]
	if !ok {
		return nil, listing.ErrListingNotFound
	}
	return l, nil
}

// recordedEvent captures one Broadcast call for assertions.
type recordedEvent struct {
	ListingID     string
	EventType     string
	Payload       any
	ExcludeUserID string
}

// recordingBroadcaster collects events instead of delivering them.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(listingID, eventType string, payload any, excludeUserID string) {
	b.mu.Lock()
	b.events = append(b.events, recordedEvent{
		ListingID:     listingID,
		EventType:     eventType,
		Payload:       payload,
		ExcludeUserID: excludeUserID,
	})
	b.mu.Unlock()
}

func (b *recordingBroadcaster) all() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}

// memCache is an in-memory cacheport.Cache for counter tests.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			removed++
		}
	}
	return removed, nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
func (c *memCache) Close() error                   { return nil }
