package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
	listing "go-parley/internal/pkg/listing/port"
)

// respondError maps domain/usecase errors onto HTTP statuses. Access
// violations are logged as potential integrity signals before responding.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyContent),
		errors.Is(err, chat.ErrContentTooLong),
		errors.Is(err, chat.ErrSelfConversation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, chat.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, chat.ErrNotParticipant), errors.Is(err, chat.ErrNotSender):
		logger.Warn("access denied", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, usecase.ErrPersistence):
		logger.Error("store unavailable", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary storage failure, retry later"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// conversationJSON is the response shape shared by every endpoint that
// returns a conversation. The participant pair is exposed as a plain array.
func conversationJSON(conv *chat.Conversation) gin.H {
	p := conv.Participants()
	return gin.H{
		"id":              conv.ID,
		"listing_id":      conv.ListingID,
		"participants":    []string{p[0], p[1]},
		"created_at":      conv.CreatedAt,
		"last_message_at": conv.LastMessageAt,
		"messages":        conv.Messages,
	}
}
