package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/messagely/internal/domain"
)

// UserRepository implements domain.UserRepository on PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone, now,
	)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return fmt.Errorf("%w: username %q", domain.ErrConflict, user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.JoinedAt = now
	user.LastLoginAt = &now
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at
		 FROM users WHERE username = $1`, username,
	).Scan(&user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.JoinedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, username string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = $1 WHERE username = $2", at.UTC(), username,
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows != 1 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT username, first_name, last_name FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.Summary
	for rows.Next() {
		var u domain.Summary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) ContactsByUsernames(ctx context.Context, usernames []string) (map[string]domain.Contact, error) {
	if len(usernames) == 0 {
		return map[string]domain.Contact{}, nil
	}

	placeholders := make([]string, len(usernames))
	args := make([]any, len(usernames))
	for i, u := range usernames {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = u
	}

	query := fmt.Sprintf(
		`SELECT username, first_name, last_name, phone FROM users WHERE username IN (%s)`,
		strings.Join(placeholders, ","),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("contacts by usernames: %w", err)
	}
	defer rows.Close()

	contacts := make(map[string]domain.Contact, len(usernames))
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.Username, &c.FirstName, &c.LastName, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts[c.Username] = c
	}
	return contacts, rows.Err()
}
