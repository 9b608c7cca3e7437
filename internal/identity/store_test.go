package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	return store
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ident := &Identity{
		Email:        "a@x.com",
		DisplayName:  "Ann",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
	}
	if err := store.Create(ctx, ident); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if ident.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	byEmail, err := store.ByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ByEmail returned error: %v", err)
	}
	if byEmail.ID != ident.ID || byEmail.DisplayName != "Ann" || byEmail.PasswordHash != ident.PasswordHash {
		t.Fatalf("ByEmail returned unexpected record: %+v", byEmail)
	}

	byID, err := store.ByID(ctx, ident.ID)
	if err != nil {
		t.Fatalf("ByID returned error: %v", err)
	}
	if byID.Email != "a@x.com" {
		t.Fatalf("ByID returned unexpected record: %+v", byID)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := &Identity{Email: "a@x.com", DisplayName: "Ann", PasswordHash: "h1"}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	second := &Identity{Email: "a@x.com", DisplayName: "Other", PasswordHash: "h2"}
	if err := store.Create(ctx, second); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("second Create = %v, want ErrDuplicateEmail", err)
	}

	// 重複登録がストアを変更していないこと
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}

	kept, err := store.ByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ByEmail returned error: %v", err)
	}
	if kept.ID != first.ID || kept.DisplayName != "Ann" {
		t.Fatalf("stored record changed after duplicate registration: %+v", kept)
	}
}

func TestLookupNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.ByEmail(ctx, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ByEmail = %v, want ErrNotFound", err)
	}
	if _, err := store.ByID(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ByID = %v, want ErrNotFound", err)
	}
}

func TestIDsAreUniquePerIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := &Identity{Email: "a@x.com", DisplayName: "Ann", PasswordHash: "h"}
	b := &Identity{Email: "b@x.com", DisplayName: "Bob", PasswordHash: "h"}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("two identities share the same ID")
	}
}
