package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/application/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// PgConversationRepository persists conversations and their message
// sequences in Postgres. Per-conversation write serialization comes from
// row-level locking on chat.conversation inside each transaction.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationColumns = `id::text, listing_id::text, participant_low::text, participant_high::text, created_at, last_message_at`
const messageColumns = `id::text, conversation_id::text, sender_id::text, content, created_at, is_read, is_edited, edited_at`

func (r *PgConversationRepository) FindByListingPair(ctx context.Context, listingID, low, high string) (*chat.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation
		WHERE listing_id = $1::uuid AND participant_low = $2::uuid AND participant_high = $3::uuid
	`, listingID, low, high)
	conv, err := scanConversation(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMessages(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *PgConversationRepository) CreateConversation(ctx context.Context, listingID, low, high string) (*chat.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (listing_id, participant_low, participant_high)
		VALUES ($1::uuid, $2::uuid, $3::uuid)
		ON CONFLICT (listing_id, participant_low, participant_high) DO NOTHING
		RETURNING `+conversationColumns+`
	`, listingID, low, high)
	conv, err := scanConversation(row)
	if errors.Is(err, chat.ErrConversationNotFound) {
		// Lost the race to a concurrent creator; the existing row wins.
		return r.FindByListingPair(ctx, listingID, low, high)
	}
	if err != nil {
		return nil, err
	}
	conv.Messages = []chat.Message{}
	return conv, nil
}

func (r *PgConversationRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id)
	conv, err := scanConversation(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMessages(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *PgConversationRepository) GetMessage(ctx context.Context, conversationID, messageID string) (*chat.Message, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message
		WHERE id = $1::uuid AND conversation_id = $2::uuid
	`, messageID, conversationID)
	msg, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *PgConversationRepository) AppendMessage(ctx context.Context, conversationID, senderID, content string, at time.Time) (*chat.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the conversation row first: appends to the same conversation are
	// serialized, appends to different conversations run concurrently.
	ct, err := tx.Exec(ctx, `
		UPDATE chat.conversation SET last_message_at = $2 WHERE id = $1::uuid
	`, conversationID, at)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, chat.ErrConversationNotFound
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, content, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		RETURNING `+messageColumns+`
	`, conversationID, senderID, content, at)
	msg, err := scanMessage(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *PgConversationRepository) UpdateMessageContent(ctx context.Context, conversationID, messageID, content string, editedAt time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET content = $3, is_edited = true, edited_at = $4
		WHERE id = $1::uuid AND conversation_id = $2::uuid
	`, messageID, conversationID, content, editedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgConversationRepository) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.message
		WHERE id = $1::uuid AND conversation_id = $2::uuid
	`, messageID, conversationID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgConversationRepository) ClearMessages(ctx context.Context, conversationID string) error {
	ct, err := r.pool.Exec(ctx, `
		WITH target AS (SELECT id FROM chat.conversation WHERE id = $1::uuid)
		DELETE FROM chat.message
		WHERE conversation_id IN (SELECT id FROM target)
	`, conversationID)
	if err != nil {
		return err
	}
	_ = ct // clearing an already-empty conversation is not an error
	return nil
}

func (r *PgConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET is_read = true
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND is_read = false
	`, conversationID, readerID)
	return err
}

func (r *PgConversationRepository) ListSummaries(ctx context.Context, userID string, limit int) ([]chat.Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.listing_id::text, c.participant_low::text, c.participant_high::text,
		       c.created_at, c.last_message_at,
		       m.id::text, m.conversation_id::text, m.sender_id::text, m.content,
		       m.created_at, m.is_read, m.is_edited, m.edited_at
		FROM chat.conversation c
		JOIN LATERAL (
			SELECT `+messageColumns+`
			FROM chat.message
			WHERE conversation_id = c.id
			ORDER BY seq DESC
			LIMIT 1
		) m ON true
		WHERE c.participant_low = $1::uuid OR c.participant_high = $1::uuid
		ORDER BY c.last_message_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []chat.Summary
	for rows.Next() {
		var s chat.Summary
		var editedAt *time.Time
		if err := rows.Scan(
			&s.Conversation.ID, &s.Conversation.ListingID,
			&s.Conversation.ParticipantLow, &s.Conversation.ParticipantHigh,
			&s.Conversation.CreatedAt, &s.Conversation.LastMessageAt,
			&s.LastMessage.ID, &s.LastMessage.ConversationID, &s.LastMessage.SenderID,
			&s.LastMessage.Content, &s.LastMessage.CreatedAt,
			&s.LastMessage.IsRead, &s.LastMessage.IsEdited, &editedAt,
		); err != nil {
			return nil, err
		}
		s.LastMessage.EditedAt = editedAt
		s.Conversation.Messages = []chat.Message{s.LastMessage}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PgConversationRepository) loadMessages(ctx context.Context, conv *chat.Conversation) error {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY seq
	`, conv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	conv.Messages = []chat.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return err
		}
		conv.Messages = append(conv.Messages, *msg)
	}
	return rows.Err()
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.ListingID, &c.ParticipantLow, &c.ParticipantHigh, &c.CreatedAt, &c.LastMessageAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var m chat.Message
	var editedAt *time.Time
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt, &m.IsRead, &m.IsEdited, &editedAt)
	if err != nil {
		return nil, err
	}
	m.EditedAt = editedAt
	return &m, nil
}
