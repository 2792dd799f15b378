package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"go-parley/internal/auth"
	chat "go-parley/internal/pkg/chat/application/domain"
	"go-parley/internal/pkg/chat/application/usecase"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
)

// ListConversationsController returns the caller's conversation overview.
// One controller per endpoint
type ListConversationsController struct {
	UC     *usecase.ListConversationsUseCase
	Logger *slog.Logger
}

func NewListConversationsController(pool *pgxpool.Pool, logger *slog.Logger) *ListConversationsController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &ListConversationsController{
		UC:     usecase.NewListConversationsUseCase(repo),
		Logger: logger,
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListConversationsInput{
			RequesterID: auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		out := lo.Map(summaries, func(s chat.Summary, _ int) gin.H {
			j := conversationJSON(&s.Conversation)
			j["messages"] = []chat.Message{s.LastMessage}
			return j
		})

		c.JSON(http.StatusOK, out)
	}
}
