package chat

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a private two-party thread about one listing. The
// participant pair is stored normalized (ParticipantLow < ParticipantHigh)
// so the unordered pair has exactly one representation and the store can
// key uniqueness on it.
type Conversation struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	ParticipantLow  string    `json:"-"`
	ParticipantHigh string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageAt   time.Time `json:"last_message_at"`
	Messages        []Message `json:"messages"`
}

// canonicalID collapses the textual forms of a UUID (case, in particular)
// so Go-side ordering and equality agree with the store's uuid comparison.
// Non-UUID ids pass through untouched.
func canonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// NormalizePair orders an unordered participant pair and enforces the
// two-distinct-identities invariant. Ids are canonicalized first: the same
// user presented in different UUID casings is still the same participant.
func NormalizePair(a, b string) (low, high string, err error) {
	if a == "" || b == "" {
		return "", "", ErrNotParticipant
	}
	a, b = canonicalID(a), canonicalID(b)
	if a == b {
		return "", "", ErrSelfConversation
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// Participants returns the pair in normalized order.
func (c *Conversation) Participants() [2]string {
	return [2]string{c.ParticipantLow, c.ParticipantHigh}
}

// HasParticipant is the access gate: it reports whether userID is one of
// the conversation's two participants. Pure, no side effects.
func (c *Conversation) HasParticipant(userID string) bool {
	if c == nil || userID == "" {
		return false
	}
	return userID == c.ParticipantLow || userID == c.ParticipantHigh
}

// Counterpart returns the other participant, or "" if userID is not one.
func (c *Conversation) Counterpart(userID string) string {
	switch userID {
	case c.ParticipantLow:
		return c.ParticipantHigh
	case c.ParticipantHigh:
		return c.ParticipantLow
	}
	return ""
}

// Summary is the reduced conversation shape used by the "my conversations"
// list: the thread metadata plus only its most recent message.
type Summary struct {
	Conversation Conversation `json:"conversation"`
	LastMessage  Message      `json:"last_message"`
}
