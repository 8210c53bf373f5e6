package content

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "n-a"},
		{"Héllo World!", "hello-world"},
		{"My First Post!", "my-first-post"},
		{"  --Already-a-slug--  ", "already-a-slug"},
		{"snake_case_title", "snake-case-title"},
		{"Crème brûlée à la carte", "creme-brulee-a-la-carte"},
		{"Straße über Øresund", "strasse-uber-oresund"},
		{"Łódź 2024", "lodz-2024"},
		{"日本語", "n-a"},
		{"a-日本-b", "a-b"},
		{"!!!", "n-a"},
		{"UPPER lower 123", "upper-lower-123"},
		{"tab\tand\nnewline", "tab-and-newline"},
		{"../../etc/passwd", "etc-passwd"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyIsTotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "-", "n-a", "Héllo World!", "中-a", "a--b", "__", "x_y-z",
		"éléphant", "Ω mega", "emoji 🎉 party", "100%", "ﬁne ligature",
		"\x00null", "trailing-", "-leading", "MiXeD_CaSe-123",
	}
	for _, in := range inputs {
		once := Slugify(in)
		if once == "" {
			t.Fatalf("Slugify(%q) returned empty", in)
		}
		if !slugPattern.MatchString(once) {
			t.Errorf("Slugify(%q) = %q, not in the slug alphabet", in, once)
		}
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
