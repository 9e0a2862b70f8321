// Package markdown renders documents as styled markdown for the playground
// preview.
package markdown

import (
	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/draftmark/internal/draft"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with draftmark's preview configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a markdown renderer with the given width and style.
// style should be "dark", "light" or "notty". Defaults to "dark" if empty.
// A fixed style avoids WithAutoStyle's terminal background query, whose
// reply would leak into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the glamour style name.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderContent exports c to markdown and renders it.
func (r *Renderer) RenderContent(c draft.Content) (string, error) {
	return r.Render(draft.ToMarkdown(c))
}
