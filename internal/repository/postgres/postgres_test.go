package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/msomdec/messagely/internal/repository/postgres/migrations"
	"github.com/pressly/goose/v3"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})
	return Wrap(sqlDB), mock
}

func TestMigrate_UsesEmbeddedRoot(t *testing.T) {
	db, _ := newMockDB(t)

	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(ctx context.Context, sqlDB *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("expected migrations dir \".\", got %q", gotDir)
	}
}

func TestMigrate_PropagatesError(t *testing.T) {
	db, _ := newMockDB(t)

	orig := gooseUp
	defer func() { gooseUp = orig }()

	gooseUp = func(ctx context.Context, sqlDB *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	if err := db.Migrate(context.Background()); err == nil {
		t.Fatal("expected error from Migrate")
	}
}

func TestMigrations_Embedded(t *testing.T) {
	// goose needs both files with Up/Down annotations at the FS root.
	for _, name := range []string{"00001_users.sql", "00002_messages.sql"} {
		data, err := migrations.Migrations.ReadFile(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}
