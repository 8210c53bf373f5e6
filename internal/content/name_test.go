package content

import "testing"

func TestResolveName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"post", "post"},
		{"sub/name", "name"},
		{"a/b/../c", "c"},
		{"../../etc/passwd", "passwd"},
		{"..", ""},
		{".", ""},
		{"/", ""},
		{"dir/", "dir"},
		{`win\path\item`, "item"},
		{"..%2F..%2Fsecret", "secret"},
		{"%2e%2e", ""},
		{"my+post", "my post"},
		{"bad%zzescape", "bad%zzescape"},
		{"nul%00byte", ""},
		{"%E2%9C%93done", "✓done"},
		{" post ", " post "},
		{"+post+", " post "},
		{"dir/ spaced", " spaced"},
	}
	for _, tt := range tests {
		if got := ResolveName(tt.in); got != tt.want {
			t.Errorf("ResolveName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain title", "plain title"},
		{"<b>Bold</b> move", "Bold move"},
		{"<script>alert(1)</script>Hi", "alert(1)Hi"},
		{"a <!-- note --> b", "a  b"},
		{`<a href="x">link</a>`, "link"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
