package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, chatID, senderID int64, body string) (*models.Message, error) {
	// Messages use bigserial, so we don't pass an ID. sent_at is assigned
	// by the server clock at insert. RETURNING gives both back.
	query := `
		INSERT INTO messages (chat_id, sender_id, body, sent_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, chat_id, sender_id, body, sent_at`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, chatID, senderID, body).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.SenderID,
		&msg.Body,
		&msg.SentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListByChat returns the chat's entire history ascending. The join against
// users supplies sender_name in the same round trip; id breaks sent_at
// ties so the order is total. An unknown chat id simply matches no rows —
// the caller cannot tell an empty chat from a missing one, and the API
// keeps that behavior.
func (s *MessageStore) ListByChat(ctx context.Context, chatID int64) ([]models.MessageWithSender, error) {
	query := `
		SELECT m.id, m.chat_id, m.sender_id, m.body, m.sent_at, u.name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.sent_at ASC, m.id ASC`

	rows, err := s.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.MessageWithSender, 0)
	for rows.Next() {
		var msg models.MessageWithSender
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.SenderID,
			&msg.Body,
			&msg.SentAt,
			&msg.SenderName,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
