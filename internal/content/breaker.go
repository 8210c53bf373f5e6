package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"pico-editor/internal/logging"
)

// BreakerState is the position of a Breaker.
type BreakerState int

const (
	// BreakerClosed lets calls through.
	BreakerClosed BreakerState = iota
	// BreakerOpen fails calls fast until the timeout elapses.
	BreakerOpen
	// BreakerHalfOpen lets a single probe call through.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned instead of calling a backend that keeps failing.
var ErrCircuitOpen = errors.New("content: storage circuit open")

// Breaker trips after maxFailures consecutive failures and stays open for
// timeout before probing again.
type Breaker struct {
	mu sync.Mutex

	maxFailures int
	timeout     time.Duration
	log         logging.Logger
	now         func() time.Time

	state       BreakerState
	failures    int
	openedAt    time.Time
	probeActive bool
}

func NewBreaker(maxFailures int, timeout time.Duration, log logging.Logger) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logging.NoOp()
	}
	return &Breaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		log:         log,
		now:         time.Now,
	}
}

// State reports the current position, moving open to half-open once the
// timeout has passed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

func (b *Breaker) advance() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.timeout {
		b.state = BreakerHalfOpen
		b.probeActive = false
		b.log.Info("storage circuit half-open")
	}
}

// Execute runs fn unless the breaker is open. Errors for which healthy
// reports true are passed back without counting as failures.
func (b *Breaker) Execute(fn func() error, healthy func(error) bool) error {
	b.mu.Lock()
	b.advance()
	switch b.state {
	case BreakerOpen:
		b.mu.Unlock()
		return ErrCircuitOpen
	case BreakerHalfOpen:
		if b.probeActive {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.probeActive = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil || (healthy != nil && healthy(err)) {
		b.onSuccess()
	} else {
		b.onFailure()
	}
	return err
}

func (b *Breaker) onSuccess() {
	if b.state == BreakerHalfOpen {
		b.log.Info("storage circuit closed")
	}
	b.state = BreakerClosed
	b.failures = 0
	b.probeActive = false
}

func (b *Breaker) onFailure() {
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
		if b.state != BreakerOpen {
			b.log.Warn("storage circuit opened", "failures", b.failures, "timeout", b.timeout.String())
		}
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.probeActive = false
	}
}

// breakerBackend guards every storage call of a Backend with a Breaker.
type breakerBackend struct {
	Backend
	breaker *Breaker
}

// WithBreaker wraps backend so repeated storage failures fail fast. Ping is
// not guarded, so health probes always reach the real backend.
func WithBreaker(backend Backend, breaker *Breaker) Backend {
	return &breakerBackend{Backend: backend, breaker: breaker}
}

// expected reports outcomes that are answers rather than failures.
func expected(err error) bool {
	return errors.Is(err, ErrNotExist) || errors.Is(err, ErrExist)
}

func (b *breakerBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.breaker.Execute(func() error {
		var err error
		data, err = b.Backend.Read(ctx, name)
		return err
	}, expected)
	return data, err
}

func (b *breakerBackend) Exists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := b.breaker.Execute(func() error {
		var err error
		ok, err = b.Backend.Exists(ctx, name)
		return err
	}, expected)
	return ok, err
}

func (b *breakerBackend) Create(ctx context.Context, name string, data []byte) error {
	return b.breaker.Execute(func() error { return b.Backend.Create(ctx, name, data) }, expected)
}

func (b *breakerBackend) Write(ctx context.Context, name string, data []byte) error {
	return b.breaker.Execute(func() error { return b.Backend.Write(ctx, name, data) }, expected)
}

func (b *breakerBackend) Remove(ctx context.Context, name string) error {
	return b.breaker.Execute(func() error { return b.Backend.Remove(ctx, name) }, expected)
}

func (b *breakerBackend) List(ctx context.Context) ([]Object, error) {
	var objs []Object
	err := b.breaker.Execute(func() error {
		var err error
		objs, err = b.Backend.List(ctx)
		return err
	}, expected)
	return objs, err
}
