package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) Create(ctx context.Context, title, description string, questions json.RawMessage, createdBy int64) (*models.Quiz, error) {
	if len(questions) == 0 {
		questions = json.RawMessage(`[]`)
	}
	query := `
		INSERT INTO quizzes (title, description, questions, created_by, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, title, description, questions, created_by, created_at`

	var q models.Quiz
	err := s.pool.QueryRow(ctx, query, title, description, []byte(questions), createdBy).Scan(
		&q.ID,
		&q.Title,
		&q.Description,
		&q.Questions,
		&q.CreatedBy,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}
	return &q, nil
}

func (s *QuizStore) GetByID(ctx context.Context, quizID int64) (*models.Quiz, error) {
	query := `
		SELECT id, title, description, questions, created_by, created_at
		FROM quizzes
		WHERE id = $1`

	var q models.Quiz
	err := s.pool.QueryRow(ctx, query, quizID).Scan(
		&q.ID,
		&q.Title,
		&q.Description,
		&q.Questions,
		&q.CreatedBy,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return &q, nil
}

func (s *QuizStore) List(ctx context.Context) ([]models.Quiz, error) {
	query := `
		SELECT id, title, description, questions, created_by, created_at
		FROM quizzes
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]models.Quiz, 0)
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(
			&q.ID,
			&q.Title,
			&q.Description,
			&q.Questions,
			&q.CreatedBy,
			&q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quizzes: %w", err)
	}

	return quizzes, nil
}

func (s *QuizStore) Update(ctx context.Context, quizID int64, title, description string, questions json.RawMessage) (*models.Quiz, error) {
	if len(questions) == 0 {
		questions = json.RawMessage(`[]`)
	}
	query := `
		UPDATE quizzes
		SET title = $2, description = $3, questions = $4
		WHERE id = $1
		RETURNING id, title, description, questions, created_by, created_at`

	var q models.Quiz
	err := s.pool.QueryRow(ctx, query, quizID, title, description, []byte(questions)).Scan(
		&q.ID,
		&q.Title,
		&q.Description,
		&q.Questions,
		&q.CreatedBy,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	return &q, nil
}

func (s *QuizStore) Delete(ctx context.Context, quizID int64) error {
	// DELETE is naturally idempotent: deleting a missing row deletes zero
	// rows, no error.
	query := `DELETE FROM quizzes WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}
