package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/auth"
	"go-parley/internal/pkg/chat/application/usecase"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
)

// DeleteMessageController handles removal of a single message by its sender.
// One controller per endpoint
type DeleteMessageController struct {
	UC     *usecase.DeleteMessageUseCase
	Logger *slog.Logger
}

func NewDeleteMessageController(pool *pgxpool.Pool, b usecase.Broadcaster, logger *slog.Logger) *DeleteMessageController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &DeleteMessageController{
		UC:     usecase.NewDeleteMessageUseCase(repo, b),
		Logger: logger,
	}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("id")
		messageID := c.Param("msgId")
		if conversationID == "" || messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id and message id are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteMessageInput{
			ConversationID: conversationID,
			MessageID:      messageID,
			RequesterID:    auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": messageID})
	}
}
