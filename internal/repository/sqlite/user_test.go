package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/messagely/internal/domain"
	"github.com/msomdec/messagely/internal/repository/sqlite"
)

func createUser(t *testing.T, repo *sqlite.UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		PasswordHash: "hash-" + username,
		FirstName:    "First " + username,
		LastName:     "Last " + username,
		Phone:        "555-" + username,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create %s: %v", username, err)
	}
	return user
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	user := createUser(t, repo, "alice")

	if user.JoinedAt.IsZero() {
		t.Fatal("expected JoinedAt to be set")
	}
	if user.LastLoginAt == nil || !user.LastLoginAt.Equal(user.JoinedAt) {
		t.Fatalf("expected LastLoginAt to equal JoinedAt, got %v", user.LastLoginAt)
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "dup")

	err := repo.Create(ctx, &domain.User{Username: "dup", PasswordHash: "other"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var count int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", "dup").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 row for dup, got %d", count)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	created := createUser(t, repo, "bob")

	found, err := repo.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Fatalf("expected hash %q, got %q", created.PasswordHash, found.PasswordHash)
	}
	if found.Phone != created.Phone {
		t.Fatalf("expected phone %q, got %q", created.Phone, found.Phone)
	}
	if found.LastLoginAt == nil {
		t.Fatal("expected LastLoginAt to be loaded")
	}
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Exists(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "carol")

	ok, err := repo.Exists(ctx, "carol")
	if err != nil || !ok {
		t.Fatalf("expected carol to exist, got %v, %v", ok, err)
	}
	ok, err = repo.Exists(ctx, "dave")
	if err != nil || ok {
		t.Fatalf("expected dave to be missing, got %v, %v", ok, err)
	}
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "erin")

	later := time.Now().Add(time.Hour).UTC()
	if err := repo.TouchLastLogin(ctx, "erin", later); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}

	found, err := repo.GetByUsername(ctx, "erin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if found.LastLoginAt == nil || !found.LastLoginAt.Equal(later) {
		t.Fatalf("expected LastLoginAt %v, got %v", later, found.LastLoginAt)
	}
}

func TestUserRepository_TouchLastLogin_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	err := repo.TouchLastLogin(context.Background(), "ghost", time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_List_OrderedByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	for _, name := range []string{"zed", "amy", "mia"} {
		createUser(t, repo, name)
	}

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"amy", "mia", "zed"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Username != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], u.Username)
		}
	}
}

func TestUserRepository_ContactsByUsernames(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice")
	createUser(t, repo, "bob")

	contacts, err := repo.ContactsByUsernames(ctx, []string{"alice", "bob", "ghost"})
	if err != nil {
		t.Fatalf("ContactsByUsernames: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts["bob"].Phone != "555-bob" {
		t.Fatalf("expected bob's phone, got %+v", contacts["bob"])
	}
	if _, ok := contacts["ghost"]; ok {
		t.Fatal("unknown username should be absent")
	}

	empty, err := repo.ContactsByUsernames(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map, got %v, %v", empty, err)
	}
}
