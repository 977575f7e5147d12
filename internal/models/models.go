package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role values for User.Role. Plain string constants rather than a custom
// type — validated at the handler layer, not the model layer.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is a registered person: a student or a teacher.
//
// PasswordHash is tagged `json:"-"` so it can never leak through an API
// response, no matter which handler serializes the struct.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Chat is a conversation with many members.
//
// The JSON tags are the wire names the clients already speak
// (chat_id/chat_name), so the row serializes directly in list responses.
type Chat struct {
	ID        int64     `json:"chat_id"`
	Name      string    `json:"chat_name"`
	CreatedAt time.Time `json:"-"`
}

// ChatMember is the join table between chats and users. One row per
// (chat, user) pair — the primary key enforces uniqueness.
type ChatMember struct {
	ChatID int64 `json:"chat_id"`
	UserID int64 `json:"user_id"`
}

// Message is a single chat message.
//
// IDs are int64 (bigserial): messages are the highest-volume table, and an
// auto-incrementing integer is smaller and naturally ordered. SentAt is
// server-assigned at insert; history ordering is (sent_at, id) — id breaks
// ties when two rows share a timestamp.
type Message struct {
	ID       int64     `json:"message_id"`
	ChatID   int64     `json:"chat_id"`
	SenderID int64     `json:"sender_id"`
	Body     string    `json:"message_text"`
	SentAt   time.Time `json:"sent_at"`
}

// MessageWithSender is a Message enriched with the sender's display name,
// produced by the history query's join against users. The model stores
// sender_id; the read path joins — models stay dumb data carriers.
type MessageWithSender struct {
	Message
	SenderName string `json:"sender_name"`
}

// File records an uploaded file's metadata. Filepath is the on-disk
// location under the configured upload directory. Rows are never mutated.
type File struct {
	ID         uuid.UUID `json:"file_id"`
	Filename   string    `json:"filename"`
	Filetype   string    `json:"filetype"`
	Filepath   string    `json:"filepath"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Quiz is a teacher-authored quiz. Questions is an opaque JSON document
// (jsonb in Postgres) — the backend stores and returns it without
// interpreting individual questions.
type Quiz struct {
	ID          int64           `json:"quiz_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   json.RawMessage `json:"questions"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Assignment is a teacher-authored assignment with an optional due date.
type Assignment struct {
	ID          int64      `json:"assignment_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
