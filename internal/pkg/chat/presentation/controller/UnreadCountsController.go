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

// UnreadCountsController exposes the per-conversation unread counters.
// One controller per endpoint
type UnreadCountsController struct {
	UC     *usecase.UnreadCountsUseCase
	Logger *slog.Logger
}

func NewUnreadCountsController(pool *pgxpool.Pool, cache cacheport.Cache, logger *slog.Logger) *UnreadCountsController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &UnreadCountsController{
		UC:     usecase.NewUnreadCountsUseCase(repo, cache),
		Logger: logger,
	}
}

func (h *UnreadCountsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		counts, err := h.UC.Execute(ctx, usecase.UnreadCountsInput{
			RequesterID: auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"unread": counts})
	}
}
