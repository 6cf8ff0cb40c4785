package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/messagely/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A single connection keeps the in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRun_CreatesSchema(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"alice", "hash", "A", "B", "555",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	// Messages must reference existing users.
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages (id, from_username, to_username, body, sent_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"m1", "alice", "ghost", "hi",
	)
	if err == nil {
		t.Fatal("expected foreign key violation for unknown recipient")
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}
