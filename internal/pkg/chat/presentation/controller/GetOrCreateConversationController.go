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
	listing "go-parley/internal/pkg/listing/port"
)

// GetOrCreateConversationController handles opening the thread for a listing.
// One controller per endpoint
type GetOrCreateConversationController struct {
	UC     *usecase.GetOrCreateConversationUseCase
	Logger *slog.Logger
}

func NewGetOrCreateConversationController(pool *pgxpool.Pool, listings listing.Directory, logger *slog.Logger) *GetOrCreateConversationController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &GetOrCreateConversationController{
		UC:     usecase.NewGetOrCreateConversationUseCase(repo, listings),
		Logger: logger,
	}
}

func (h *GetOrCreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID := c.Param("listingId")
		if listingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "listingId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.GetOrCreateConversationInput{
			ListingID:   listingID,
			RequesterID: auth.UserID(c),
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
