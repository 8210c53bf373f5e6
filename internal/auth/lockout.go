package auth

import (
	"context"
	"sync"
	"time"
)

// Lockout defaults.
const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 10 * time.Minute
	DefaultLockout     = 15 * time.Minute
)

type attempt struct {
	count       int
	last        time.Time
	lockedUntil time.Time
}

// Lockout counts failed logins per key (the client IP) and refuses further
// attempts for a while once too many fail inside the window.
type Lockout struct {
	mu          sync.Mutex
	attempts    map[string]*attempt
	maxAttempts int
	lockout     time.Duration
	window      time.Duration
	now         func() time.Time
}

// NewLockout creates a lockout tracker. Zero or negative arguments fall
// back to the package defaults.
func NewLockout(maxAttempts int, lockout, window time.Duration) *Lockout {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Lockout{
		attempts:    make(map[string]*attempt),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		window:      window,
		now:         time.Now,
	}
}

// Failure records a failed login for key. It reports whether key is now
// locked and until when.
func (l *Lockout) Failure(key string) (locked bool, until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	a, ok := l.attempts[key]
	if !ok {
		a = &attempt{}
		l.attempts[key] = a
	}
	if now.Sub(a.last) > l.window {
		a.count = 0
	}
	a.count++
	a.last = now

	if a.count >= l.maxAttempts {
		a.lockedUntil = now.Add(l.lockout)
		return true, a.lockedUntil
	}
	return false, time.Time{}
}

// Success forgets every failure recorded for key.
func (l *Lockout) Success(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}

// Locked reports whether key is currently refused, and until when.
func (l *Lockout) Locked(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[key]
	if !ok || a.lockedUntil.IsZero() || !l.now().Before(a.lockedUntil) {
		return false, time.Time{}
	}
	return true, a.lockedUntil
}

// Sweep drops entries whose lock has lapsed and whose last failure is older
// than twice the window.
func (l *Lockout) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for key, a := range l.attempts {
		if (a.lockedUntil.IsZero() || now.After(a.lockedUntil)) && now.Sub(a.last) > 2*l.window {
			delete(l.attempts, key)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (l *Lockout) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
