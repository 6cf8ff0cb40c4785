package service

import (
	"context"
	"fmt"

	"github.com/msomdec/messagely/internal/domain"
	"github.com/samber/lo"
)

// ProfileResolver inlines counterparty contacts into message lists.
// Every call issues at most one contact lookup, covering the distinct
// counterparties of the whole batch.
type ProfileResolver struct {
	users domain.UserRepository
}

// NewProfileResolver creates a new ProfileResolver.
func NewProfileResolver(users domain.UserRepository) *ProfileResolver {
	return &ProfileResolver{users: users}
}

// ResolveOutgoing attaches the recipient as ToUser on messages sent by subject.
func (r *ProfileResolver) ResolveOutgoing(ctx context.Context, msgs []domain.Message, subject string) ([]domain.ResolvedMessage, error) {
	for _, m := range msgs {
		if m.FromUsername != subject {
			return nil, fmt.Errorf("%w: message %s was not sent by %q", domain.ErrInvalidInput, m.ID, subject)
		}
	}

	contacts, err := r.lookup(ctx, lo.Map(msgs, func(m domain.Message, _ int) string { return m.ToUsername }))
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResolvedMessage, len(msgs))
	for i, m := range msgs {
		to, err := contactFor(contacts, m.ToUsername, m.ID)
		if err != nil {
			return nil, err
		}
		out[i] = resolved(m)
		out[i].ToUser = to
	}
	return out, nil
}

// ResolveIncoming attaches the sender as FromUser on messages received by subject.
func (r *ProfileResolver) ResolveIncoming(ctx context.Context, msgs []domain.Message, subject string) ([]domain.ResolvedMessage, error) {
	for _, m := range msgs {
		if m.ToUsername != subject {
			return nil, fmt.Errorf("%w: message %s was not sent to %q", domain.ErrInvalidInput, m.ID, subject)
		}
	}

	contacts, err := r.lookup(ctx, lo.Map(msgs, func(m domain.Message, _ int) string { return m.FromUsername }))
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResolvedMessage, len(msgs))
	for i, m := range msgs {
		from, err := contactFor(contacts, m.FromUsername, m.ID)
		if err != nil {
			return nil, err
		}
		out[i] = resolved(m)
		out[i].FromUser = from
	}
	return out, nil
}

// ResolveBoth attaches both sides of a single message.
func (r *ProfileResolver) ResolveBoth(ctx context.Context, m domain.Message) (*domain.ResolvedMessage, error) {
	contacts, err := r.lookup(ctx, []string{m.FromUsername, m.ToUsername})
	if err != nil {
		return nil, err
	}
	from, err := contactFor(contacts, m.FromUsername, m.ID)
	if err != nil {
		return nil, err
	}
	to, err := contactFor(contacts, m.ToUsername, m.ID)
	if err != nil {
		return nil, err
	}

	out := resolved(m)
	out.FromUser = from
	out.ToUser = to
	return &out, nil
}

func (r *ProfileResolver) lookup(ctx context.Context, usernames []string) (map[string]domain.Contact, error) {
	if len(usernames) == 0 {
		return map[string]domain.Contact{}, nil
	}
	contacts, err := r.users.ContactsByUsernames(ctx, lo.Uniq(usernames))
	if err != nil {
		return nil, fmt.Errorf("resolve contacts: %w", err)
	}
	return contacts, nil
}

// contactFor treats a missing counterparty as corruption: the foreign
// keys guarantee every message references an existing user.
func contactFor(contacts map[string]domain.Contact, username, msgID string) (*domain.Contact, error) {
	c, ok := contacts[username]
	if !ok {
		return nil, fmt.Errorf("%w: message %s references unknown user %q", domain.ErrIntegrity, msgID, username)
	}
	return &c, nil
}

func resolved(m domain.Message) domain.ResolvedMessage {
	return domain.ResolvedMessage{
		ID:     m.ID,
		Body:   m.Body,
		SentAt: m.SentAt,
		ReadAt: m.ReadAt,
	}
}
