// Package auth gates the editor behind a single configured password and a
// server side session flag.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pico-editor/internal/logging"
	"pico-editor/internal/session"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNoPasswordConfigured = errors.New("no password configured")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrLocked               = errors.New("too many failed attempts")
)

// Gate decides whether a session may use the editor and moves sessions
// between the anonymous and authenticated states.
type Gate struct {
	sessions session.Store
	password string
	lockout  *Lockout
	log      logging.Logger
}

// NewGate builds a Gate. passwordHash may be empty, in which case every
// login fails with ErrNoPasswordConfigured. lockout may be nil.
func NewGate(sessions session.Store, passwordHash string, lockout *Lockout, log logging.Logger) *Gate {
	if log == nil {
		log = logging.NoOp()
	}
	return &Gate{
		sessions: sessions,
		password: strings.TrimSpace(passwordHash),
		lockout:  lockout,
		log:      log,
	}
}

// PasswordConfigured reports whether any login can succeed.
func (g *Gate) PasswordConfigured() bool { return g.password != "" }

// CheckAuthenticated returns nil when the session is logged in, refreshing
// its expiry, and ErrUnauthorized otherwise.
func (g *Gate) CheckAuthenticated(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnauthorized
	}
	rec, found, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !found || !rec.LoggedIn {
		return ErrUnauthorized
	}
	if err := g.sessions.Put(ctx, sessionID, rec); err != nil {
		// The request is still authenticated; only the expiry refresh failed.
		g.log.Warn("session refresh failed", "err", err)
	}
	return nil
}

// Login verifies password and, on success, replaces sessionID with a fresh
// authenticated session whose id is returned. clientKey identifies the
// caller for the lockout, usually the remote IP.
func (g *Gate) Login(ctx context.Context, sessionID, password, clientKey string) (string, error) {
	if !g.PasswordConfigured() {
		return "", ErrNoPasswordConfigured
	}
	if g.lockout != nil {
		if locked, until := g.lockout.Locked(clientKey); locked {
			return "", fmt.Errorf("%w: locked until %s", ErrLocked, until.UTC().Format("15:04:05 MST"))
		}
	}

	if !VerifyPassword(g.password, password) {
		if g.lockout != nil {
			if locked, _ := g.lockout.Failure(clientKey); locked {
				g.log.Warn("login locked", "client", clientKey)
			}
		}
		return "", ErrInvalidPassword
	}
	if g.lockout != nil {
		g.lockout.Success(clientKey)
	}

	if sessionID != "" {
		if err := g.sessions.Delete(ctx, sessionID); err != nil {
			return "", fmt.Errorf("drop old session: %w", err)
		}
	}
	newID := session.NewID()
	if err := g.sessions.Put(ctx, newID, session.Record{LoggedIn: true}); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return newID, nil
}

// Logout forgets the session.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return g.sessions.Delete(ctx, sessionID)
}
