package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type AssignmentStore struct {
	pool *pgxpool.Pool
}

func NewAssignmentStore(pool *pgxpool.Pool) *AssignmentStore {
	return &AssignmentStore{pool: pool}
}

func (s *AssignmentStore) Create(ctx context.Context, title, description string, dueAt *time.Time, createdBy int64) (*models.Assignment, error) {
	query := `
		INSERT INTO assignments (title, description, due_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, title, description, due_at, created_by, created_at`

	var a models.Assignment
	err := s.pool.QueryRow(ctx, query, title, description, dueAt, createdBy).Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.DueAt,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return &a, nil
}

func (s *AssignmentStore) GetByID(ctx context.Context, assignmentID int64) (*models.Assignment, error) {
	query := `
		SELECT id, title, description, due_at, created_by, created_at
		FROM assignments
		WHERE id = $1`

	var a models.Assignment
	err := s.pool.QueryRow(ctx, query, assignmentID).Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.DueAt,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

func (s *AssignmentStore) List(ctx context.Context) ([]models.Assignment, error) {
	query := `
		SELECT id, title, description, due_at, created_by, created_at
		FROM assignments
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]models.Assignment, 0)
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.DueAt,
			&a.CreatedBy,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return assignments, nil
}

func (s *AssignmentStore) Update(ctx context.Context, assignmentID int64, title, description string, dueAt *time.Time) (*models.Assignment, error) {
	query := `
		UPDATE assignments
		SET title = $2, description = $3, due_at = $4
		WHERE id = $1
		RETURNING id, title, description, due_at, created_by, created_at`

	var a models.Assignment
	err := s.pool.QueryRow(ctx, query, assignmentID, title, description, dueAt).Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.DueAt,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return &a, nil
}

func (s *AssignmentStore) Delete(ctx context.Context, assignmentID int64) error {
	query := `DELETE FROM assignments WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, assignmentID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
