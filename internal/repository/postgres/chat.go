package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type ChatStore struct {
	pool *pgxpool.Pool
}

func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool}
}

func (s *ChatStore) Create(ctx context.Context, name string) (*models.Chat, error) {
	query := `
		INSERT INTO chats (name, created_at)
		VALUES ($1, now())
		RETURNING id, name, created_at`

	var ch models.Chat
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&ch.ID,
		&ch.Name,
		&ch.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}
	return &ch, nil
}

// ListByUser joins through chat_members: a chat appears exactly when the
// user has a membership row. Insertion order (chat id) is fine — the
// clients don't depend on any particular order here.
func (s *ChatStore) ListByUser(ctx context.Context, userID int64) ([]models.Chat, error) {
	query := `
		SELECT c.id, c.name, c.created_at
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		var ch models.Chat
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}
