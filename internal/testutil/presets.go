package testutil

import (
	"strconv"

	"github.com/zjrosen/draftmark/internal/draft"
)

// WithLines adds one normal block per line keyed b0, b1, ...
func (b *Builder) WithLines(lines ...string) *Builder {
	for i, line := range lines {
		b.WithBlock(LineKey(i), line)
	}
	return b
}

// LineKey is the key WithLines gives line i.
func LineKey(i int) string {
	return "b" + strconv.Itoa(i)
}

// WithFenceScenario adds an opening fence, one line of code and a closing
// fence, with the caret just past the closing marker.
func (b *Builder) WithFenceScenario() *Builder {
	return b.WithLines("```", "let x = 1;", "```").WithCaret(LineKey(2), 3)
}

// WithMixedDocument adds one block of every kind with styled text.
func (b *Builder) WithMixedDocument() *Builder {
	return b.
		WithBlock("title", "Notes", Heading(1), Styled(draft.Bold, 0, 5)).
		WithBlock("body", "some bold and code here",
			Styled(draft.Bold, 5, 9), Styled(draft.Code, 14, 18)).
		WithBlock("quote", "quoted text", Type(draft.Blockquote)).
		WithBlock("code", "x := 1\ny := 2", Code("go")).
		WithBlock("link", "see docs", Entity("https://example.com", 4, 8))
}
