package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput identifies a message and the replacement content.
type EditMessageInput struct {
	ConversationID string
	MessageID      string
	RequesterID    string
	Content        string
}

// EditMessageUseCase replaces a message body in place. Participation is
// checked before sender ownership, so a non-participant always sees the
// access-denied error rather than learning whether the message is theirs.
// One class per use case (own file)
type EditMessageUseCase struct {
	Repo        repository.ConversationRepository
	Broadcaster Broadcaster
}

func NewEditMessageUseCase(repo repository.ConversationRepository, b Broadcaster) *EditMessageUseCase {
	return &EditMessageUseCase{Repo: repo, Broadcaster: b}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	if in.ConversationID == "" || in.MessageID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversation_id, message_id and requester_id are required")
	}

	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return nil, chat.ErrNotParticipant
	}

	msg, err := uc.Repo.GetMessage(ctx, in.ConversationID, in.MessageID)
	if errors.Is(err, chat.ErrMessageNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.RequesterID {
		return nil, chat.ErrNotSender
	}

	editedAt := time.Now().UTC()
	if err := uc.Repo.UpdateMessageContent(ctx, in.ConversationID, in.MessageID, content, editedAt); err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &editedAt

	uc.Broadcaster.Broadcast(conv.ListingID, EventMessageEdited, MessageEditedEvent{
		Message:        *msg,
		ConversationID: conv.ID,
	}, in.RequesterID)

	return msg, nil
}
