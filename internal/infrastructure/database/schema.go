package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is applied at startup so a fresh database is usable immediately.
// Every statement is idempotent; existing data is never touched.
//
// chat.conversation stores the participant pair in normalized order
// (participant_low < participant_high lexicographically) so the unique index
// enforces "at most one conversation per (listing, unordered pair)" directly.
//
// chat.message carries a per-table bigserial seq: insertion order within a
// conversation is the order of seq, and all reads sort by it.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS chat;

CREATE TABLE IF NOT EXISTS chat.conversation (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	listing_id      uuid NOT NULL,
	participant_low  uuid NOT NULL,
	participant_high uuid NOT NULL,
	created_at      timestamptz NOT NULL DEFAULT now(),
	last_message_at timestamptz NOT NULL DEFAULT now(),
	CHECK (participant_low < participant_high)
);

CREATE UNIQUE INDEX IF NOT EXISTS conversation_listing_pair_idx
	ON chat.conversation (listing_id, participant_low, participant_high);

CREATE TABLE IF NOT EXISTS chat.message (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	conversation_id uuid NOT NULL REFERENCES chat.conversation(id) ON DELETE CASCADE,
	seq             bigserial,
	sender_id       uuid NOT NULL,
	content         text NOT NULL,
	created_at      timestamptz NOT NULL DEFAULT now(),
	is_read         boolean NOT NULL DEFAULT false,
	is_edited       boolean NOT NULL DEFAULT false,
	edited_at       timestamptz
);

CREATE INDEX IF NOT EXISTS message_conversation_seq_idx
	ON chat.message (conversation_id, seq);
`

// EnsureSchema creates the chat schema, tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
