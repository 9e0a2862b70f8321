package testutil

import (
	"strconv"

	"github.com/zjrosen/draftmark/internal/draft"
)

type styleSpan struct {
	style      draft.Style
	start, end int
}

type entitySpan struct {
	ref        string
	start, end int
}

// blockData holds everything needed to build one block.
type blockData struct {
	key      string
	text     string
	typ      draft.BlockType
	styles   []styleSpan
	entities []entitySpan
	data     map[string]string
}

func defaultBlock(key, text string) blockData {
	return blockData{key: key, text: text, typ: draft.Normal}
}

// BlockOption configures a block.
type BlockOption func(*blockData)

// Type sets the block type.
func Type(t draft.BlockType) BlockOption {
	return func(b *blockData) { b.typ = t }
}

// Styled adds style to characters [start, end).
func Styled(style draft.Style, start, end int) BlockOption {
	return func(b *blockData) {
		b.styles = append(b.styles, styleSpan{style: style, start: start, end: end})
	}
}

// Entity links characters [start, end) to ref.
func Entity(ref string, start, end int) BlockOption {
	return func(b *blockData) {
		b.entities = append(b.entities, entitySpan{ref: ref, start: start, end: end})
	}
}

// Data sets one block data entry.
func Data(key, value string) BlockOption {
	return func(b *blockData) {
		if b.data == nil {
			b.data = map[string]string{}
		}
		b.data[key] = value
	}
}

// Code makes the block a code block in lang; empty lang sets no data.
func Code(lang string) BlockOption {
	return func(b *blockData) {
		b.typ = draft.CodeBlock
		if lang != "" {
			Data(draft.DataLanguage, lang)(b)
		}
	}
}

// Heading marks the block as a heading of level n.
func Heading(n int) BlockOption {
	return Data(draft.DataHeading, strconv.Itoa(n))
}
