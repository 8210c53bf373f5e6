package content

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ResolveName reduces a client supplied file reference to a bare item name.
// The reference is form-decoded first and only then cut to its last path
// segment, so encoded separators cannot smuggle in a directory. An empty
// result means the reference names nothing usable.
func ResolveName(ref string) string {
	decoded, err := url.QueryUnescape(ref)
	if err != nil {
		decoded = ref
	}
	decoded = lastSegment(strings.ReplaceAll(decoded, "\\", "/"))
	if decoded == "." || decoded == ".." || strings.ContainsRune(decoded, 0) {
		return ""
	}
	return decoded
}

// lastSegment mirrors a plain basename: the part after the final slash.
func lastSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// StripTags removes HTML tags and comments from s and keeps the text.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			// Raw keeps entities as typed; the title is echoed, not rendered.
			b.Write(z.Raw())
		}
	}
}
