package content

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flakyBackend fails every call while down is set and counts what reached it.
type flakyBackend struct {
	Backend
	down  bool
	calls int
}

func (f *flakyBackend) Read(ctx context.Context, name string) ([]byte, error) {
	f.calls++
	if f.down {
		return nil, errors.New("connection refused")
	}
	return f.Backend.Read(ctx, name)
}

func newBreakerFixture(t *testing.T) (*flakyBackend, *Breaker, Backend, *time.Time) {
	t.Helper()
	fs, err := NewFSBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	flaky := &flakyBackend{Backend: fs}
	br := NewBreaker(2, time.Minute, nil)
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	br.now = func() time.Time { return now }
	return flaky, br, WithBreaker(flaky, br), &now
}

func TestBreakerOpensAndRecovers(t *testing.T) {
	flaky, br, b, now := newBreakerFixture(t)
	ctx := context.Background()
	if err := b.Write(ctx, "a.md", []byte("x")); err != nil {
		t.Fatal(err)
	}

	flaky.down = true
	for i := 0; i < 2; i++ {
		if _, err := b.Read(ctx, "a.md"); err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: expected backend error, got %v", i+1, err)
		}
	}
	if br.State() != BreakerOpen {
		t.Fatalf("expected open, got %s", br.State())
	}

	calls := flaky.calls
	if _, err := b.Read(ctx, "a.md"); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if flaky.calls != calls {
		t.Fatal("open breaker still reached the backend")
	}

	*now = now.Add(time.Minute)
	if br.State() != BreakerHalfOpen {
		t.Fatalf("expected half-open, got %s", br.State())
	}
	flaky.down = false
	if data, err := b.Read(ctx, "a.md"); err != nil || string(data) != "x" {
		t.Fatalf("probe = %q, %v", data, err)
	}
	if br.State() != BreakerClosed {
		t.Fatalf("expected closed after probe, got %s", br.State())
	}
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	flaky, br, b, now := newBreakerFixture(t)
	ctx := context.Background()

	flaky.down = true
	_, _ = b.Read(ctx, "a.md")
	_, _ = b.Read(ctx, "a.md")
	*now = now.Add(time.Minute)

	if _, err := b.Read(ctx, "a.md"); err == nil || errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("probe should reach the backend, got %v", err)
	}
	if br.State() != BreakerOpen {
		t.Fatalf("expected open after failed probe, got %s", br.State())
	}
}

func TestBreakerIgnoresMisses(t *testing.T) {
	_, br, b, _ := newBreakerFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := b.Read(ctx, "missing.md"); !errors.Is(err, ErrNotExist) {
			t.Fatalf("expected ErrNotExist, got %v", err)
		}
		if err := b.Remove(ctx, "missing.md"); !errors.Is(err, ErrNotExist) {
			t.Fatalf("expected ErrNotExist, got %v", err)
		}
	}
	if br.State() != BreakerClosed {
		t.Fatalf("misses tripped the breaker: %s", br.State())
	}
}

func TestBreakerSurfacesAsStorageError(t *testing.T) {
	flaky, _, b, _ := newBreakerFixture(t)
	s := NewStore(b, ".md")
	ctx := context.Background()

	flaky.down = true
	for i := 0; i < 3; i++ {
		_, _ = s.Open(ctx, "a")
	}
	_, err := s.Open(ctx, "a")
	if !errors.Is(err, ErrStorage) || !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected storage error wrapping ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerStateString(t *testing.T) {
	for s, want := range map[BreakerState]string{
		BreakerClosed: "closed", BreakerOpen: "open", BreakerHalfOpen: "half-open", 9: "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d: %q", s, s.String())
		}
	}
}
