package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"pico-editor/internal/content"
)

//go:embed templates/*.html
var templateFiles embed.FS

var views = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type loginView struct {
	EntryURL   string
	LoginError string
}

type editorView struct {
	EditorURL string
	LogoutURL string
	Ext       string
	Items     []content.Item
	ListError string
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, r, status, "login.html", loginView{EntryURL: s.entryURL, LoginError: msg})
}

func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request) {
	v := editorView{
		EditorURL: s.entryURL,
		LogoutURL: s.entryURL + "/logout",
		Ext:       s.store.Ext(),
	}
	items, err := s.store.List(r.Context())
	if err != nil {
		s.log.Warn("list items failed", "rid", RequestIDFromContext(r.Context()), "err", err)
		v.ListError = "Could not list files"
	}
	v.Items = items
	s.render(w, r, http.StatusOK, "editor.html", v)
}

// render executes into a buffer first so a template failure still yields a
// clean 500 rather than half a page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
