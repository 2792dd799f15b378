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

// FetchConversationController handles fetching a conversation by id.
// One controller per endpoint
type FetchConversationController struct {
	UC     *usecase.FetchConversationUseCase
	Logger *slog.Logger
}

func NewFetchConversationController(pool *pgxpool.Pool, logger *slog.Logger) *FetchConversationController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &FetchConversationController{
		UC:     usecase.NewFetchConversationUseCase(repo),
		Logger: logger,
	}
}

func (h *FetchConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("id")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.FetchConversationInput{
			ConversationID: conversationID,
			RequesterID:    auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
