package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/quizhive/quizhive/internal/models"
)

// Every method takes context.Context first — idiomatic for anything doing
// I/O. The HTTP request's context flows down, so a disconnected client
// cancels its own DB query.

// UserRepository handles user data.
type UserRepository interface {
	// Create inserts a new user and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, name, email, passwordHash, role string) (*models.User, error)

	// GetByID returns a user. Returns nil, nil if not found.
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByEmail looks up a user by email. Used for login. Returns nil, nil
	// if not found.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ChatRepository defines the contract for chat (conversation) data.
type ChatRepository interface {
	// Create inserts a new chat and returns it with ID populated.
	Create(ctx context.Context, name string) (*models.Chat, error)

	// ListByUser returns every chat the user has a membership row in.
	// Returns empty slice (not nil) so JSON serializes to [] not null.
	ListByUser(ctx context.Context, userID int64) ([]models.Chat, error)
}

// MembershipRepository handles who belongs to which chat.
type MembershipRepository interface {
	// AddMember adds a user to a chat. Idempotent: adding an existing
	// member is a no-op, not an error.
	AddMember(ctx context.Context, chatID, userID int64) error

	// ListMembers returns all members of a chat.
	ListMembers(ctx context.Context, chatID int64) ([]models.ChatMember, error)

	// IsMember checks if a user belongs to a chat.
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)
}

// MessageRepository handles chat message persistence.
type MessageRepository interface {
	// Create persists a message and returns it with ID and the
	// server-assigned SentAt populated.
	Create(ctx context.Context, chatID, senderID int64, body string) (*models.Message, error)

	// ListByChat returns the full history of a chat ordered by
	// (sent_at, id) ascending, each row joined with the sender's name.
	// An unknown chat yields an empty slice, indistinguishable from an
	// empty chat.
	ListByChat(ctx context.Context, chatID int64) ([]models.MessageWithSender, error)
}

// FileRepository records uploaded file metadata.
type FileRepository interface {
	// Create inserts a file record and returns it with CreatedAt populated.
	Create(ctx context.Context, id uuid.UUID, filename, filetype, filepath string, uploadedBy int64) (*models.File, error)

	// GetByID returns a file record. Returns nil, nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
}

// QuizRepository handles quiz CRUD.
type QuizRepository interface {
	Create(ctx context.Context, title, description string, questions json.RawMessage, createdBy int64) (*models.Quiz, error)
	GetByID(ctx context.Context, quizID int64) (*models.Quiz, error)
	List(ctx context.Context) ([]models.Quiz, error)
	Update(ctx context.Context, quizID int64, title, description string, questions json.RawMessage) (*models.Quiz, error)
	Delete(ctx context.Context, quizID int64) error
}

// AssignmentRepository handles assignment CRUD.
type AssignmentRepository interface {
	Create(ctx context.Context, title, description string, dueAt *time.Time, createdBy int64) (*models.Assignment, error)
	GetByID(ctx context.Context, assignmentID int64) (*models.Assignment, error)
	List(ctx context.Context) ([]models.Assignment, error)
	Update(ctx context.Context, assignmentID int64, title, description string, dueAt *time.Time) (*models.Assignment, error)
	Delete(ctx context.Context, assignmentID int64) error
}
