package session

import (
	"context"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryStoreGetPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Hour)

	if _, found, err := m.Get(ctx, "nope"); found || err != nil {
		t.Fatalf("Get unknown = %v, %v", found, err)
	}

	if err := m.Put(ctx, "a", Record{LoggedIn: true}); err != nil {
		t.Fatal(err)
	}
	rec, found, err := m.Get(ctx, "a")
	if err != nil || !found || !rec.LoggedIn {
		t.Fatalf("Get = %+v, %v, %v", rec, found, err)
	}

	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := m.Get(ctx, "a"); found {
		t.Fatal("record survived Delete")
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("deleting twice should be fine: %v", err)
	}
}

func TestMemoryStoreSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	m := NewMemoryStore(10 * time.Minute)
	m.SetClock(c.now)

	_ = m.Put(ctx, "s", Record{LoggedIn: true})

	c.advance(9 * time.Minute)
	if _, found, _ := m.Get(ctx, "s"); !found {
		t.Fatal("record expired early")
	}
	// Put refreshes the expiry.
	_ = m.Put(ctx, "s", Record{LoggedIn: true})
	c.advance(9 * time.Minute)
	if _, found, _ := m.Get(ctx, "s"); !found {
		t.Fatal("Put did not extend the expiry")
	}

	c.advance(time.Minute)
	if _, found, _ := m.Get(ctx, "s"); found {
		t.Fatal("record outlived its ttl")
	}
	if m.Len() != 0 {
		t.Fatalf("expired record not dropped on read, len=%d", m.Len())
	}
}

func TestMemoryStorePurge(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	m := NewMemoryStore(time.Minute)
	m.SetClock(c.now)

	_ = m.Put(ctx, "old", Record{LoggedIn: true})
	c.advance(2 * time.Minute)
	_ = m.Put(ctx, "new", Record{LoggedIn: true})

	n, err := m.Purge(ctx, c.now())
	if err != nil || n != 1 {
		t.Fatalf("Purge = %d, %v", n, err)
	}
	if _, found, _ := m.Get(ctx, "new"); !found {
		t.Fatal("live record purged")
	}
}

func TestNewMemoryStoreDefaultTTL(t *testing.T) {
	if m := NewMemoryStore(0); m.ttl != DefaultTTL {
		t.Fatalf("ttl = %v", m.ttl)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("ids collide")
	}
	if !ValidID(a) {
		t.Fatalf("ValidID(%q) = false", a)
	}
	for _, bad := range []string{"", "abc", "00000000-0000-0000-0000-000000000000"} {
		if ValidID(bad) {
			t.Errorf("ValidID(%q) = true", bad)
		}
	}
}
