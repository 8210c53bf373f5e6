// Package session keeps the server side half of an editor session: an opaque
// identifier mapped to a single logged-in flag, with a sliding expiry.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 12 * time.Hour

// Record is the state stored per session. Expiry is store metadata.
type Record struct {
	LoggedIn bool
}

// Store is the get/put abstraction the auth gate works against.
type Store interface {
	// Get returns the live record for id. Expired or unknown ids report
	// found == false with a nil error.
	Get(ctx context.Context, id string) (rec Record, found bool, err error)
	// Put stores rec and pushes the expiry to now + TTL.
	Put(ctx context.Context, id string, rec Record) error
	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Purge drops records that expired before the given instant.
	Purge(ctx context.Context, before time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// NewID mints a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like something NewID produced.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.Version() == 4
}
