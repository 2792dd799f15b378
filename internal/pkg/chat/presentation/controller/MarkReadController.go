package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/auth"
	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/pkg/chat/application/usecase"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
)

// MarkReadController flips read flags on the counterpart's messages.
// One controller per endpoint
type MarkReadController struct {
	UC     *usecase.MarkReadUseCase
	Logger *slog.Logger
}

func NewMarkReadController(pool *pgxpool.Pool, cache cacheport.Cache, logger *slog.Logger) *MarkReadController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &MarkReadController{
		UC:     usecase.NewMarkReadUseCase(repo, cache),
		Logger: logger,
	}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("id")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.MarkReadInput{
			ConversationID: conversationID,
			RequesterID:    auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
