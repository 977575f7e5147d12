package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhive/quizhive/internal/models"
)

type FileStore struct {
	pool *pgxpool.Pool
}

func NewFileStore(pool *pgxpool.Pool) *FileStore {
	return &FileStore{pool: pool}
}

// Create inserts a file metadata row. The caller supplies the uuid because
// the on-disk name is derived from it before the insert happens.
func (s *FileStore) Create(ctx context.Context, id uuid.UUID, filename, filetype, filepath string, uploadedBy int64) (*models.File, error) {
	query := `
		INSERT INTO files (id, filename, filetype, filepath, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, filename, filetype, filepath, uploaded_by, created_at`

	var f models.File
	err := s.pool.QueryRow(ctx, query, id, filename, filetype, filepath, uploadedBy).Scan(
		&f.ID,
		&f.Filename,
		&f.Filetype,
		&f.Filepath,
		&f.UploadedBy,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return &f, nil
}

func (s *FileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	query := `
		SELECT id, filename, filetype, filepath, uploaded_by, created_at
		FROM files
		WHERE id = $1`

	var f models.File
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Filename,
		&f.Filetype,
		&f.Filepath,
		&f.UploadedBy,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}
