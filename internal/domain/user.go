//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks

package domain

import (
	"context"
	"time"
)

// User represents a registered member of the directory.
// PasswordHash never leaves the service layer; callers receive a Profile.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinedAt     time.Time
	LastLoginAt  *time.Time
}

// Profile is the public view of a User, without credentials.
type Profile struct {
	Username    string
	FirstName   string
	LastName    string
	Phone       string
	JoinedAt    time.Time
	LastLoginAt *time.Time
}

// Contact is the counterparty profile inlined into resolved messages.
type Contact struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Summary is the entry returned when listing every user.
type Summary struct {
	Username  string
	FirstName string
	LastName  string
}

// Profile strips the credential from u.
func (u *User) Profile() *Profile {
	return &Profile{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user. A duplicate username yields ErrConflict,
	// whether it is caught by a pre-check or by the unique constraint.
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	Exists(ctx context.Context, username string) (bool, error)
	// TouchLastLogin sets last_login_at and returns ErrNotFound unless
	// exactly one row was updated.
	TouchLastLogin(ctx context.Context, username string, at time.Time) error
	// List returns every user ordered by username ascending.
	List(ctx context.Context) ([]Summary, error)
	// ContactsByUsernames resolves all given usernames in one query.
	// Unknown usernames are absent from the result map.
	ContactsByUsernames(ctx context.Context, usernames []string) (map[string]Contact, error)
}
