// Package testutil builds documents and editor states for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/draftmark/internal/draft"
)

// Builder accumulates blocks and a caret and produces an EditorState.
type Builder struct {
	t        *testing.T
	blocks   []blockData
	caretKey string
	caretOff int
	hasCaret bool
}

// NewBuilder creates an empty document builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithBlock appends a block with optional configuration.
func (b *Builder) WithBlock(key, text string, opts ...BlockOption) *Builder {
	block := defaultBlock(key, text)
	for _, opt := range opts {
		opt(&block)
	}
	b.blocks = append(b.blocks, block)
	return b
}

// WithCaret places a collapsed caret. Without it the caret sits at the
// start of the first block.
func (b *Builder) WithCaret(key string, offset int) *Builder {
	b.caretKey, b.caretOff, b.hasCaret = key, offset, true
	return b
}

// WithCaretAtEnd places the caret at the end of the last block added.
func (b *Builder) WithCaretAtEnd() *Builder {
	b.t.Helper()
	require.NotEmpty(b.t, b.blocks, "WithCaretAtEnd needs a block")
	last := b.blocks[len(b.blocks)-1]
	return b.WithCaret(last.key, len([]rune(last.text)))
}

// Content builds the document without editor state.
func (b *Builder) Content() draft.Content {
	b.t.Helper()
	require.NotEmpty(b.t, b.blocks, "document needs at least one block")
	blocks := make([]draft.Block, len(b.blocks))
	for i, data := range b.blocks {
		blocks[i] = b.buildBlock(data)
	}
	return draft.NewContent(blocks...)
}

// Build creates the editor state with an empty history.
func (b *Builder) Build() draft.EditorState {
	b.t.Helper()
	es := draft.NewEditorState(b.Content())
	if b.hasCaret {
		es = es.WithSelection(draft.Caret(b.caretKey, b.caretOff))
	}
	return es
}

func (b *Builder) buildBlock(data blockData) draft.Block {
	b.t.Helper()
	n := len([]rune(data.text))
	chars := make([]draft.CharMeta, n)
	for _, s := range data.styles {
		require.LessOrEqual(b.t, s.end, n, "style span past end of block %s", data.key)
		for i := s.start; i < s.end; i++ {
			chars[i].Style = chars[i].Style.With(s.style)
		}
	}
	for _, e := range data.entities {
		require.LessOrEqual(b.t, e.end, n, "entity span past end of block %s", data.key)
		for i := e.start; i < e.end; i++ {
			chars[i].Entity = e.ref
		}
	}

	block := draft.NewStyledBlock(data.key, data.typ, data.text, chars)
	for k, v := range data.data {
		block = block.WithData(k, v)
	}
	return block
}
