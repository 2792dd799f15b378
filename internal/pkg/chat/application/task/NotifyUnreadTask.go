package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	cacheport "go-parley/internal/infrastructure/cache/port"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application/usecase"
)

// NotifyUnreadTaskType is the queue task name for recording an unread
// message against the recipient's counter.
const NotifyUnreadTaskType = "chat:notify_unread"

// NotifyUnreadTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyUnreadTaskPayload struct {
	ConversationID string `json:"conversationId"`
	RecipientID    string `json:"recipientId"`
	MessageID      string `json:"messageId"`
}

// RegisterNotifyUnreadTask binds the task handler to the provided server.
// The handler bumps the recipient's unread counter; markRead clears it.
// Handlers must be idempotent per queue contract — asynq's unique option on
// the message id keeps duplicate enqueues from double counting.
func RegisterNotifyUnreadTask(srv qport.Server, cache cacheport.Cache, logger *slog.Logger) {
	srv.Register(NotifyUnreadTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyUnreadTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		key := usecase.UnreadCounterKey(p.RecipientID, p.ConversationID)
		n, err := cache.Incr(ctx, key)
		if err != nil {
			return err
		}
		logger.Debug("unread counter bumped", "recipient", p.RecipientID, "conversation", p.ConversationID, "count", n)
		return nil
	})
}
