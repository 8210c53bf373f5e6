package server

import (
	"errors"
	"net/http"

	"pico-editor/internal/auth"
	"pico-editor/internal/content"
)

// newResponse keeps one shape for success and conflict: on conflict the
// composed item is still returned alongside the error.
type newResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	File    string `json:"file"`
	Error   string `json:"error"`
}

// handleEntry serves the admin entry point: the login view, or the editor
// once the session is logged in. A POSTed password field attempts a login.
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	if !s.gate.PasswordConfigured() {
		s.renderLogin(w, r, http.StatusOK, "No password set!")
		return
	}

	ctx := r.Context()
	sid := SessionIDFromContext(ctx)

	err := s.gate.CheckAuthenticated(ctx, sid)
	if err == nil {
		s.renderEditor(w, r)
		return
	}
	if !errors.Is(err, auth.ErrUnauthorized) {
		s.writeError(w, r, err)
		return
	}

	if r.Method != http.MethodPost || !r.PostForm.Has("password") {
		s.renderLogin(w, r, http.StatusOK, "")
		return
	}

	newID, err := s.gate.Login(ctx, sid, r.PostForm.Get("password"), clientIP(r))
	s.audit.record(r, AuditActionLogin, "", err)
	switch {
	case errors.Is(err, auth.ErrInvalidPassword):
		s.metrics.recordLogin("invalid")
		s.renderLogin(w, r, http.StatusUnauthorized, "Invalid password.")
		return
	case errors.Is(err, auth.ErrLocked):
		s.metrics.recordLogin("locked")
		w.Header().Set("Retry-After", "900")
		s.renderLogin(w, r, http.StatusTooManyRequests, "Too many failed attempts. Try again later.")
		return
	case err != nil:
		s.metrics.recordLogin("error")
		s.writeError(w, r, err)
		return
	}

	s.metrics.recordLogin("success")
	if err := s.cookies.write(w, newID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderEditor(w, r)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Create(r.Context(), r.PostForm.Get("title"))
	s.audit.record(r, AuditActionCreate, res.File, err)
	s.metrics.recordOperation("create", outcome(err))

	if err == nil {
		writeJSON(w, http.StatusCreated, newResponse{Title: res.Title, Content: res.Content, File: res.File})
		return
	}
	if errors.Is(err, content.ErrConflict) {
		writeJSON(w, http.StatusConflict, newResponse{
			Title:   res.Title,
			Content: res.Content,
			File:    res.File,
			Error:   err.Error(),
		})
		return
	}
	s.writeJSONError(w, r, err)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Open(r.Context(), r.PostForm.Get("file"))
	s.metrics.recordOperation("open", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ref := r.PostForm.Get("file")
	saved, err := s.store.Save(r.Context(), ref, r.PostForm.Get("content"))
	s.audit.record(r, AuditActionSave, content.ResolveName(ref), err)
	s.metrics.recordOperation("save", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, saved)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ref := r.PostForm.Get("file")
	_, err := s.store.Delete(r.Context(), ref)
	s.audit.record(r, AuditActionDelete, content.ResolveName(ref), err)
	s.metrics.recordOperation("delete", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "true")
}

// handlePreview renders posted Markdown the way the site would, minus the
// front matter.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	out, err := s.renderer.Render([]byte(r.PostForm.Get("content")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.gate.Logout(r.Context(), SessionIDFromContext(r.Context()))
	s.audit.record(r, AuditActionLogout, "", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cookies.clear(w)
	http.Redirect(w, r, s.entryURL, http.StatusFound)
}

// parseForm bounds the request body and parses it up front so handlers can
// read r.PostForm without handling errors themselves.
func (s *Server) parseForm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				s.writeError(w, r, err)
				return
			}
			writeText(w, http.StatusBadRequest, "Error: Malformed request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, content.ErrConflict):
		return "conflict"
	case errors.Is(err, content.ErrNotFound):
		return "not_found"
	case errors.Is(err, content.ErrStorage):
		return "storage_error"
	default:
		return "invalid"
	}
}
