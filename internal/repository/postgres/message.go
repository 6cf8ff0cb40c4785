package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/messagely/internal/domain"
)

const messageColumns = "id, from_username, to_username, body, sent_at, read_at"

// MessageRepository implements domain.MessageRepository on PostgreSQL.
type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt.UTC(),
	)
	if err != nil {
		switch pgCode(err) {
		case foreignKeyViolation:
			return fmt.Errorf("%w: sender or recipient", domain.ErrNotFound)
		case uniqueViolation:
			return fmt.Errorf("%w: message %s", domain.ErrConflict, msg.ID)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = $1", id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query message: %w", err)
	}
	return msg, nil
}

func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE from_username = $1 ORDER BY sent_at, id",
		username)
}

func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE to_username = $1 ORDER BY sent_at, id",
		username)
}

// MarkRead sets read_at once. COALESCE keeps an existing value, and
// RETURNING hands back the stored row in the same statement.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE messages SET read_at = COALESCE(read_at, $1)
		 WHERE id = $2
		 RETURNING `+messageColumns,
		at.UTC(), id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	return msg, nil
}

func (r *MessageRepository) list(ctx context.Context, query, username string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*domain.Message, error) {
	msg := &domain.Message{}
	var readAt sql.NullTime
	if err := s.Scan(&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &readAt); err != nil {
		return nil, err
	}
	if readAt.Valid {
		msg.ReadAt = &readAt.Time
	}
	return msg, nil
}
