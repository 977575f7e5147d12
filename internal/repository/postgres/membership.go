package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

func (s *MembershipStore) AddMember(ctx context.Context, chatID, userID int64) error {
	// ON CONFLICT DO NOTHING keeps "add member" idempotent: adding someone
	// twice succeeds silently instead of tripping the primary key.
	query := `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, user_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query, chatID, userID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *MembershipStore) ListMembers(ctx context.Context, chatID int64) ([]models.ChatMember, error) {
	query := `
		SELECT chat_id, user_id
		FROM chat_members
		WHERE chat_id = $1`

	rows, err := s.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.ChatMember, 0)
	for rows.Next() {
		var m models.ChatMember
		if err := rows.Scan(&m.ChatID, &m.UserID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

func (s *MembershipStore) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	// SELECT EXISTS stops at the first matching row — cheaper than COUNT
	// for a yes/no check.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM chat_members
			WHERE chat_id = $1 AND user_id = $2
		)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, chatID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}
