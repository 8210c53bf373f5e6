package content

import (
	"context"
	"time"
)

// Object describes one stored item as reported by a Backend listing.
type Object struct {
	Name     string // includes the content extension
	Size     int64
	Modified time.Time
}

// Backend stores items by bare name. Names never contain separators; the
// Store resolves them before calling in.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Create writes a new item and returns ErrExist if it is already there.
	Create(ctx context.Context, name string, data []byte) error
	// Write replaces the item wholesale, creating it if needed.
	Write(ctx context.Context, name string, data []byte) error
	// Remove returns ErrNotExist when there is nothing to remove.
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]Object, error)
	// Ping checks that the backend is reachable, for health probes.
	Ping(ctx context.Context) error
}
