package domain

import (
	"context"
	"time"
)

// Message is a directed note from one user to another.
// ReadAt is nil until the recipient marks the message as read and
// never changes afterwards.
type Message struct {
	ID           string
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// ResolvedMessage is a Message with the counterparty inlined.
// Exactly one of FromUser and ToUser is set: the side opposite the
// user the messages were queried for.
type ResolvedMessage struct {
	ID       string
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser *Contact
	ToUser   *Contact
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create inserts the message. A sender or recipient that does not
	// exist yields ErrNotFound.
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	// ListFrom and ListTo order by sent_at ascending.
	ListFrom(ctx context.Context, username string) ([]Message, error)
	ListTo(ctx context.Context, username string) ([]Message, error)
	// MarkRead sets read_at only if it is still null and returns the
	// stored message either way.
	MarkRead(ctx context.Context, id string, at time.Time) (*Message, error)
}
