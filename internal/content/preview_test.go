package content

import (
	"strings"
	"testing"
)

func TestRendererSkipsFrontMatter(t *testing.T) {
	r := NewRenderer()
	src := "---\nTitle: Hidden\nDate: 2026/10/14\n---\n# Visible\n\n- [x] done\n"
	out, err := r.Render([]byte(src))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "Hidden") {
		t.Errorf("front matter leaked into preview: %s", html)
	}
	if !strings.Contains(html, `<h1 id="visible">Visible</h1>`) {
		t.Errorf("missing heading: %s", html)
	}
	if !strings.Contains(html, `type="checkbox"`) {
		t.Errorf("task list not rendered: %s", html)
	}
}

func TestRendererOmitsRawHTML(t *testing.T) {
	out, err := NewRenderer().Render([]byte("hi <script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw html passed through: %s", out)
	}
}

func TestParseHeader(t *testing.T) {
	h, body, err := ParseHeader([]byte("---\nTitle: A\nRobots: noindex\n---\ntext\n"))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Title != "A" || h.Robots != "noindex" {
		t.Errorf("unexpected header: %+v", h)
	}
	if strings.TrimSpace(string(body)) != "text" {
		t.Errorf("unexpected body: %q", body)
	}

	h, body, err = ParseHeader([]byte("just text"))
	if err != nil {
		t.Fatalf("ParseHeader without front matter: %v", err)
	}
	if h.Title != "" || string(body) != "just text" {
		t.Errorf("expected passthrough, got %+v %q", h, body)
	}
}
