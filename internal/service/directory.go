package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/messagely/internal/domain"
)

// SendInput is a new message from the authenticated sender.
type SendInput struct {
	ToUsername string `validate:"required"`
	Body       string `validate:"required,max=4000"`
}

// MessageDirectory stores messages and answers sender/recipient queries.
type MessageDirectory struct {
	messages domain.MessageRepository
	users    domain.UserRepository
	now      func() time.Time
}

// NewMessageDirectory creates a new MessageDirectory.
func NewMessageDirectory(messages domain.MessageRepository, users domain.UserRepository) *MessageDirectory {
	return &MessageDirectory{
		messages: messages,
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MessagesFrom returns messages sent by username, oldest first.
func (d *MessageDirectory) MessagesFrom(ctx context.Context, username string) ([]domain.Message, error) {
	if err := d.requireUser(ctx, username); err != nil {
		return nil, err
	}
	msgs, err := d.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list messages from %q: %w", username, err)
	}
	return msgs, nil
}

// MessagesTo returns messages received by username, oldest first.
func (d *MessageDirectory) MessagesTo(ctx context.Context, username string) ([]domain.Message, error) {
	if err := d.requireUser(ctx, username); err != nil {
		return nil, err
	}
	msgs, err := d.messages.ListTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list messages to %q: %w", username, err)
	}
	return msgs, nil
}

// Send stores a message from sender to in.ToUsername.
func (d *MessageDirectory) Send(ctx context.Context, sender string, in SendInput) (*domain.Message, error) {
	in.ToUsername = strings.TrimSpace(in.ToUsername)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, fmt.Errorf("%w: body is blank", domain.ErrInvalidInput)
	}
	if err := d.requireUser(ctx, sender); err != nil {
		return nil, err
	}
	if err := d.requireUser(ctx, in.ToUsername); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:           uuid.NewString(),
		FromUsername: sender,
		ToUsername:   in.ToUsername,
		Body:         in.Body,
		SentAt:       d.now(),
	}
	if err := d.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Get returns a message visible to viewer, who must be its sender or
// recipient.
func (d *MessageDirectory) Get(ctx context.Context, id, viewer string) (*domain.Message, error) {
	msg, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.FromUsername != viewer && msg.ToUsername != viewer {
		return nil, fmt.Errorf("%w: message %s", domain.ErrForbidden, id)
	}
	return msg, nil
}

// MarkRead sets the read timestamp on behalf of the recipient. Repeated
// calls keep the first timestamp.
func (d *MessageDirectory) MarkRead(ctx context.Context, id, reader string) (*domain.Message, error) {
	msg, err := d.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.ToUsername != reader {
		return nil, fmt.Errorf("%w: only the recipient can mark a message read", domain.ErrForbidden)
	}
	if msg.ReadAt != nil {
		return msg, nil
	}

	updated, err := d.messages.MarkRead(ctx, id, d.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: message %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return updated, nil
}

func (d *MessageDirectory) get(ctx context.Context, id string) (*domain.Message, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("%w: message %s", domain.ErrNotFound, id)
	}
	msg, err := d.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: message %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

func (d *MessageDirectory) requireUser(ctx context.Context, username string) error {
	exists, err := d.users.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user %q: %w", username, err)
	}
	if !exists {
		return fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return nil
}
