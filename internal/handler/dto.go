package handler

import (
	"time"

	"github.com/msomdec/messagely/internal/domain"
)

// ProfileDTO is the JSON representation of a user's own profile.
type ProfileDTO struct {
	Username    string  `json:"username"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       string  `json:"phone"`
	JoinedAt    string  `json:"joinedAt"`
	LastLoginAt *string `json:"lastLoginAt"`
}

func toProfileDTO(p *domain.Profile) ProfileDTO {
	return ProfileDTO{
		Username:    p.Username,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		JoinedAt:    p.JoinedAt.Format(time.RFC3339),
		LastLoginAt: formatOptional(p.LastLoginAt),
	}
}

// SummaryDTO is a row in the user listing.
type SummaryDTO struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func toSummaryDTOs(summaries []domain.Summary) []SummaryDTO {
	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = SummaryDTO{Username: s.Username, FirstName: s.FirstName, LastName: s.LastName}
	}
	return dtos
}

// ContactDTO is the counterparty embedded in a message.
type ContactDTO struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func toContactDTO(c *domain.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{Username: c.Username, FirstName: c.FirstName, LastName: c.LastName, Phone: c.Phone}
}

// MessageDTO is a resolved message. FromUser and ToUser are omitted when
// the listing already implies them.
type MessageDTO struct {
	ID       string      `json:"id"`
	Body     string      `json:"body"`
	SentAt   string      `json:"sentAt"`
	ReadAt   *string     `json:"readAt"`
	FromUser *ContactDTO `json:"fromUser,omitempty"`
	ToUser   *ContactDTO `json:"toUser,omitempty"`
}

func toMessageDTO(m domain.ResolvedMessage) MessageDTO {
	return MessageDTO{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt.Format(time.RFC3339Nano),
		ReadAt:   formatOptional(m.ReadAt),
		FromUser: toContactDTO(m.FromUser),
		ToUser:   toContactDTO(m.ToUser),
	}
}

func toMessageDTOs(msgs []domain.ResolvedMessage) []MessageDTO {
	dtos := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		dtos[i] = toMessageDTO(m)
	}
	return dtos
}

// StoredMessageDTO is a message as written, without resolved contacts.
type StoredMessageDTO struct {
	ID           string  `json:"id"`
	FromUsername string  `json:"fromUsername"`
	ToUsername   string  `json:"toUsername"`
	Body         string  `json:"body"`
	SentAt       string  `json:"sentAt"`
	ReadAt       *string `json:"readAt"`
}

func toStoredMessageDTO(m *domain.Message) StoredMessageDTO {
	return StoredMessageDTO{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt.Format(time.RFC3339Nano),
		ReadAt:       formatOptional(m.ReadAt),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
