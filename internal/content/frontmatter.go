package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// DateLayout is the Date format written into new items (YYYY/MM/DD).
const DateLayout = "2006/01/02"

// Header is the subset of front matter the editor reads back. Keys are the
// capitalised ones the item template writes.
type Header struct {
	Title       string `yaml:"Title"`
	Description string `yaml:"Description"`
	Author      string `yaml:"Author"`
	Date        string `yaml:"Date"`
	Robots      string `yaml:"Robots"`
	Template    string `yaml:"Template"`
}

// newItemBody composes the body of a freshly created item. There is no
// trailing newline after the closing delimiter.
func newItemBody(title string, now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "Title: %s\n", title)
	b.WriteString("Description:\n")
	b.WriteString("Author:\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format(DateLayout))
	b.WriteString("Robots: noindex,nofollow\n")
	b.WriteString("Template:\n")
	b.WriteString("---")
	return b.String()
}

// ParseHeader splits source into its front matter header and Markdown body.
// Source without front matter yields an empty header and the whole input.
func ParseHeader(source []byte) (Header, []byte, error) {
	var h Header
	body, err := frontmatter.Parse(bytes.NewReader(source), &h)
	if err != nil {
		return Header{}, source, fmt.Errorf("parse front matter: %w", err)
	}
	return h, body, nil
}
