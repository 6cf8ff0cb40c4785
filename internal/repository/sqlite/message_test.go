package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/messagely/internal/domain"
	"github.com/msomdec/messagely/internal/repository/sqlite"
)

func seedPair(t *testing.T, db *sqlite.DB) {
	t.Helper()
	users := sqlite.NewUserRepository(db)
	createUser(t, users, "alice")
	createUser(t, users, "bob")
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	seedPair(t, db)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	sent := time.Now().UTC()
	msg := &domain.Message{ID: "m1", FromUsername: "alice", ToUsername: "bob", Body: "hi", SentAt: sent}
	if err := repo.Create(ctx, msg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Body != "hi" || got.FromUsername != "alice" || got.ToUsername != "bob" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !got.SentAt.Equal(sent) {
		t.Fatalf("expected SentAt %v, got %v", sent, got.SentAt)
	}
	if got.ReadAt != nil {
		t.Fatalf("expected ReadAt nil, got %v", got.ReadAt)
	}
}

func TestMessageRepository_Create_UnknownRecipient(t *testing.T) {
	db := newTestDB(t)
	seedPair(t, db)
	repo := sqlite.NewMessageRepository(db)

	err := repo.Create(context.Background(), &domain.Message{
		ID: "m1", FromUsername: "alice", ToUsername: "ghost", Body: "hi", SentAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMessageRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepository_ListFromAndTo_Ordered(t *testing.T) {
	db := newTestDB(t)
	seedPair(t, db)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	// Inserted out of order to check sorting by sent_at.
	inputs := []domain.Message{
		{ID: "m3", FromUsername: "alice", ToUsername: "bob", Body: "third", SentAt: base.Add(2 * time.Second)},
		{ID: "m1", FromUsername: "alice", ToUsername: "bob", Body: "first", SentAt: base},
		{ID: "m2", FromUsername: "alice", ToUsername: "bob", Body: "second", SentAt: base.Add(time.Second)},
		{ID: "r1", FromUsername: "bob", ToUsername: "alice", Body: "reply", SentAt: base},
	}
	for i := range inputs {
		if err := repo.Create(ctx, &inputs[i]); err != nil {
			t.Fatalf("Create %s: %v", inputs[i].ID, err)
		}
	}

	from, err := repo.ListFrom(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFrom: %v", err)
	}
	if len(from) != 3 {
		t.Fatalf("expected 3 messages from alice, got %d", len(from))
	}
	for i, id := range []string{"m1", "m2", "m3"} {
		if from[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, from[i].ID)
		}
	}

	to, err := repo.ListTo(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTo: %v", err)
	}
	if len(to) != 1 || to[0].ID != "r1" {
		t.Fatalf("expected only r1 to alice, got %+v", to)
	}
}

func TestMessageRepository_MarkRead_SetOnce(t *testing.T) {
	db := newTestDB(t)
	seedPair(t, db)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Message{
		ID: "m1", FromUsername: "alice", ToUsername: "bob", Body: "hi", SentAt: time.Now(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := time.Now().UTC()
	got, err := repo.MarkRead(ctx, "m1", first)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got.ReadAt == nil || !got.ReadAt.Equal(first) {
		t.Fatalf("expected ReadAt %v, got %v", first, got.ReadAt)
	}

	// Neither a repeat, an earlier nor a later timestamp moves read_at.
	for _, at := range []time.Time{first, first.Add(-time.Hour), first.Add(time.Hour)} {
		got, err = repo.MarkRead(ctx, "m1", at)
		if err != nil {
			t.Fatalf("MarkRead again: %v", err)
		}
		if !got.ReadAt.Equal(first) {
			t.Fatalf("expected ReadAt to stay %v, got %v", first, got.ReadAt)
		}
	}
}

func TestMessageRepository_MarkRead_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMessageRepository(db)

	_, err := repo.MarkRead(context.Background(), "missing", time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
