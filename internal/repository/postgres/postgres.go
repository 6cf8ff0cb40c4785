// Package postgres implements the directory store on PostgreSQL through
// the pgx database/sql driver, with schema managed by goose.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/msomdec/messagely/internal/domain"
	"github.com/msomdec/messagely/internal/repository/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// SQLSTATE codes translated into domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB wraps the Postgres handle and vends repositories bound to it.
type DB struct {
	SqlDB *sql.DB

	users    *UserRepository
	messages *MessageRepository
}

var _ domain.Store = (*DB)(nil)

// New opens a connection pool for dsn and verifies it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return Wrap(sqlDB), nil
}

// Wrap builds a DB around an existing handle.
func Wrap(sqlDB *sql.DB) *DB {
	return &DB{
		SqlDB:    sqlDB,
		users:    NewUserRepository(sqlDB),
		messages: NewMessageRepository(sqlDB),
	}
}

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate runs the embedded goose migrations.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db.SqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return db.users
}

func (db *DB) Messages() domain.MessageRepository {
	return db.messages
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
