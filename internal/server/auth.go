// auth.go - Session cookie handling and the auth gate middleware.
//
// The cookie carries only a signed, opaque session id. Whether that id is
// logged in lives in the session store behind the auth.Gate.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"

	"pico-editor/internal/auth"
	"pico-editor/internal/session"
)

const defaultCookieName = "pe_session"

// sessionCookies encodes session ids into signed cookies.
type sessionCookies struct {
	name   string
	secure bool
	codec  *securecookie.SecureCookie
}

func newSessionCookies(secret string, secure bool) *sessionCookies {
	codec := securecookie.New([]byte(secret), nil)
	// Expiry is enforced by the session store, not the cookie timestamp.
	codec.MaxAge(0)
	return &sessionCookies{name: defaultCookieName, secure: secure, codec: codec}
}

// read returns the session id in r, or "" when the cookie is missing or
// fails verification.
func (c *sessionCookies) read(r *http.Request) string {
	ck, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	var id string
	if err := c.codec.Decode(c.name, ck.Value, &id); err != nil {
		return ""
	}
	if !session.ValidID(id) {
		return ""
	}
	return id
}

func (c *sessionCookies) write(w http.ResponseWriter, id string) error {
	value, err := c.codec.Encode(c.name, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
	return nil
}

func (c *sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
}

// sessionMiddleware attaches the caller's session id to the request
// context, minting and setting a new one when the request carries none.
// Nothing is stored until the session is first mutated.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.cookies.read(r)
		if id == "" {
			id = session.NewID()
			if err := s.cookies.write(w, id); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionIDFromContext returns the session id set by sessionMiddleware.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionIDKey).(string); ok {
		return s
	}
	return ""
}

// requireAuth rejects requests whose session is not logged in.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := s.gate.CheckAuthenticated(r.Context(), SessionIDFromContext(r.Context()))
		if errors.Is(err, auth.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Error: Unauthorized"})
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
