package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/auth"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/chat/application/usecase"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	listing "go-parley/internal/pkg/listing/port"
)

// SendMessageController handles the send-message endpoint only (one controller per endpoint)
type SendMessageController struct {
	UC     *usecase.SendMessageUseCase
	Q      qport.Client
	Logger *slog.Logger
}

func NewSendMessageController(pool *pgxpool.Pool, listings listing.Directory, b usecase.Broadcaster, q qport.Client, logger *slog.Logger) *SendMessageController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &SendMessageController{
		UC:     usecase.NewSendMessageUseCase(repo, listings, b, logger),
		Q:      q,
		Logger: logger,
	}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handle appends a message to the listing thread and returns the updated
// conversation; the confirmed message carries its server-assigned id and
// timestamp so the client can replace its optimistic placeholder.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID := c.Param("listingId")
		if listingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "listingId is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		senderID := auth.UserID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ListingID: listingID,
			SenderID:  senderID,
			Content:   req.Content,
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		h.enqueueNotify(ctx, res, senderID)

		c.JSON(http.StatusOK, gin.H{
			"conversation": conversationJSON(res.Conversation),
			"message":      res.Message,
		})
	}
}

// enqueueNotify records the unread hint for the counterpart. The message is
// already durable; queue trouble is logged and swallowed.
func (h *SendMessageController) enqueueNotify(ctx context.Context, res *usecase.SendMessageResult, senderID string) {
	recipient := res.Conversation.Counterpart(senderID)
	if recipient == "" {
		return
	}

	payload, err := json.Marshal(task.NotifyUnreadTaskPayload{
		ConversationID: res.Conversation.ID,
		RecipientID:    recipient,
		MessageID:      res.Message.ID,
	})
	if err != nil {
		h.Logger.Warn("notify payload encode failed", "err", err)
		return
	}

	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: 5, UniqueTTL: time.Minute}
	if _, err := h.Q.Enqueue(ctx, qport.Task{Type: task.NotifyUnreadTaskType, Payload: payload}, opts); err != nil {
		h.Logger.Warn("notify enqueue failed", "conversation", res.Conversation.ID, "err", err)
	}
}
