package db

import (
	"context"
	"fmt"
)

// schema is applied at startup. Every statement is idempotent
// (IF NOT EXISTS), so repeated boots are safe.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            bigserial PRIMARY KEY,
	name          text NOT NULL,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	role          text NOT NULL CHECK (role IN ('student', 'teacher')),
	created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chats (
	id         bigserial PRIMARY KEY,
	name       text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chat_members (
	chat_id bigint NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
	user_id bigint NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (chat_id, user_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id        bigserial PRIMARY KEY,
	chat_id   bigint NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
	sender_id bigint NOT NULL REFERENCES users(id),
	body      text NOT NULL,
	sent_at   timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_chat_sent ON messages (chat_id, sent_at, id);

CREATE TABLE IF NOT EXISTS files (
	id          uuid PRIMARY KEY,
	filename    text NOT NULL,
	filetype    text NOT NULL,
	filepath    text NOT NULL,
	uploaded_by bigint NOT NULL REFERENCES users(id),
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS quizzes (
	id          bigserial PRIMARY KEY,
	title       text NOT NULL,
	description text NOT NULL DEFAULT '',
	questions   jsonb NOT NULL DEFAULT '[]',
	created_by  bigint NOT NULL REFERENCES users(id),
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignments (
	id          bigserial PRIMARY KEY,
	title       text NOT NULL,
	description text NOT NULL DEFAULT '',
	due_at      timestamptz,
	created_by  bigint NOT NULL REFERENCES users(id),
	created_at  timestamptz NOT NULL DEFAULT now()
);
`

// Migrate creates any missing tables and indexes.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
