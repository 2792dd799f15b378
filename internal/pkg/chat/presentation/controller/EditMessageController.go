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

// EditMessageController handles in-place edits of a sent message.
// One controller per endpoint
type EditMessageController struct {
	UC     *usecase.EditMessageUseCase
	Logger *slog.Logger
}

func NewEditMessageController(pool *pgxpool.Pool, b usecase.Broadcaster, logger *slog.Logger) *EditMessageController {
	repo := repoAdapter.NewPgConversationRepository(pool)
	return &EditMessageController{
		UC:     usecase.NewEditMessageUseCase(repo, b),
		Logger: logger,
	}
}

// editMessageRequest is the DTO for the HTTP request body
type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("id")
		messageID := c.Param("msgId")
		if conversationID == "" || messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation id and message id are required"})
			return
		}

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.EditMessageInput{
			ConversationID: conversationID,
			MessageID:      messageID,
			RequesterID:    auth.UserID(c),
			Content:        req.Content,
		})
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}
