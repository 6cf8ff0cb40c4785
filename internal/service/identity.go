package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/messagely/internal/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username  string `validate:"required,max=64,excludesall= /"`
	Password  string `validate:"required,max=72"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Phone     string `validate:"required,max=32"`
}

// maxPasswordBytes is bcrypt's input limit; the validator's max counts runes.
const maxPasswordBytes = 72

// NormalizeUsername trims surrounding whitespace. Every IdentityService
// entry point applies it.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// IdentityService handles registration, credential checks and profile reads.
type IdentityService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	now    func() time.Time

	// dummyHash is compared against when the username is unknown, so a
	// failed login costs one verification either way.
	dummyHash string
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users domain.UserRepository, hasher PasswordHasher) (*IdentityService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &IdentityService{
		users:     users,
		hasher:    hasher,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
	}, nil
}

// Register creates a new user and returns its profile.
// A taken username yields domain.ErrConflict and writes nothing.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	in.Username = NormalizeUsername(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password exceeds %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	// Fast path only; the store's unique constraint decides races.
	exists, err := s.users.Exists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username %q", domain.ErrConflict, in.Username)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user.Profile(), nil
}

// Authenticate reports whether password matches the stored credential.
// An unknown username is (false, nil), indistinguishable from a wrong
// password; only store failures return an error.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username = NormalizeUsername(username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// UpdateLoginTimestamp records a successful login.
func (s *IdentityService) UpdateLoginTimestamp(ctx context.Context, username string) error {
	username = NormalizeUsername(username)
	if err := s.users.TouchLastLogin(ctx, username, s.now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// GetProfile returns the public profile for username.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	username = NormalizeUsername(username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user.Profile(), nil
}

// ListAll returns every user's summary, ordered by username.
func (s *IdentityService) ListAll(ctx context.Context) ([]domain.Summary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.Summary{}
	}
	return users, nil
}
