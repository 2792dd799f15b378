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

// ClearConversationController empties a conversation's message sequence.
// One controller per endpoint
type ClearConversationController struct {
	UC     *usecase.ClearConversationUseCase
	Logger *slog.Logger
}

func NewClearConversationController(pool *pgxpool.Pool, b usecase.Broadcaster, logger *slog.Logger) *ClearConversationController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &ClearConversationController{
		UC:     usecase.NewClearConversationUseCase(repo, b),
		Logger: logger,
	}
}

func (h *ClearConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("id")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.ClearConversationInput{
			ConversationID: conversationID,
			RequesterID:    auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cleared": conversationID})
	}
}
