package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"pico-editor/internal/auth"
	"pico-editor/internal/content"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.Is(err, content.ErrInvalidName), errors.Is(err, content.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrLocked):
		return http.StatusTooManyRequests
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the client facing text for err. Content errors carry their
// own message; anything unexpected is not echoed back.
func messageFor(err error, status int) string {
	var ce *content.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// writeError is the one place plain-text failures become responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logFailure(r, status, err)
	writeText(w, status, messageFor(err, status))
}

// writeJSONError is writeError for endpoints that answer in JSON.
func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logFailure(r, status, err)
	writeJSON(w, status, errorBody{Error: messageFor(err, status)})
}

func (s *Server) logFailure(r *http.Request, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	s.log.Error("request failed",
		"rid", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"err", err,
	)
}
