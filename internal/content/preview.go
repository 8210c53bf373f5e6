package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer turns item bodies into HTML for the editor's preview pane.
// Raw HTML in the source is omitted from the output.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render drops the front matter block, if any, and converts the rest.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	_, body, err := ParseHeader(source)
	if err != nil {
		// Malformed front matter still previews; the header shows as text.
		body = source
	}
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
