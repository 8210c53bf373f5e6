package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"pico-editor/internal/logging"
	"pico-editor/internal/session"
)

func newGate(t *testing.T, password string) (*Gate, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	hash := ""
	if password != "" {
		hash = HashSHA512(password)
	}
	return NewGate(store, hash, NewLockout(3, time.Minute, time.Minute), logging.NoOp()), store
}

func TestCheckAuthenticatedAnonymous(t *testing.T) {
	g, _ := newGate(t, "pw")
	ctx := context.Background()

	for _, id := range []string{"", session.NewID()} {
		if err := g.CheckAuthenticated(ctx, id); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("CheckAuthenticated(%q) = %v", id, err)
		}
	}
}

func TestLoginRotatesSession(t *testing.T) {
	g, store := newGate(t, "pw")
	ctx := context.Background()

	old := session.NewID()
	_ = store.Put(ctx, old, session.Record{})

	id, err := g.Login(ctx, old, "pw", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if id == old || !session.ValidID(id) {
		t.Fatalf("expected a fresh id, got %q", id)
	}
	if err := g.CheckAuthenticated(ctx, id); err != nil {
		t.Fatalf("new session not authenticated: %v", err)
	}
	if _, found, _ := store.Get(ctx, old); found {
		t.Fatal("old session record survived login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	g, store := newGate(t, "pw")
	ctx := context.Background()

	if _, err := g.Login(ctx, "", "nope", "10.0.0.1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("Login = %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("failed login must not create a session")
	}
}

func TestLoginNoPasswordConfigured(t *testing.T) {
	g, _ := newGate(t, "")
	if g.PasswordConfigured() {
		t.Fatal("PasswordConfigured = true")
	}
	if _, err := g.Login(context.Background(), "", "", "10.0.0.1"); !errors.Is(err, ErrNoPasswordConfigured) {
		t.Fatalf("Login = %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	g, _ := newGate(t, "pw")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := g.Login(ctx, "", "bad", "10.0.0.9"); !errors.Is(err, ErrInvalidPassword) {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if _, err := g.Login(ctx, "", "pw", "10.0.0.9"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked even with the right password, got %v", err)
	}
	if _, err := g.Login(ctx, "", "pw", "10.0.0.10"); err != nil {
		t.Fatalf("other client should still log in: %v", err)
	}
}

func TestLogout(t *testing.T) {
	g, _ := newGate(t, "pw")
	ctx := context.Background()

	id, err := g.Login(ctx, "", "pw", "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Logout(ctx, id); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := g.CheckAuthenticated(ctx, id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("session still authenticated after logout: %v", err)
	}
	if err := g.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout of empty id: %v", err)
	}
}
