package draft

import (
	"fmt"
	"maps"
)

// BlockType is the paragraph-level type of a block.
type BlockType string

const (
	Normal     BlockType = "normal"
	Blockquote BlockType = "blockquote"
	CodeBlock  BlockType = "code-block"
)

// ParseBlockType validates a block type name. Empty means Normal.
func ParseBlockType(name string) (BlockType, error) {
	switch BlockType(name) {
	case "", Normal:
		return Normal, nil
	case Blockquote, CodeBlock:
		return BlockType(name), nil
	}
	return "", fmt.Errorf("unknown block type %q", name)
}

// CharMeta is the metadata attached to one character of a block.
type CharMeta struct {
	Style  StyleSet
	Entity string
}

// StyleRun is a maximal run of characters sharing one style set.
type StyleRun struct {
	Start  int
	Length int
	Style  StyleSet
}

// Block is one line/paragraph of a document. Blocks are values: every
// modification returns a new Block and never touches the receiver's slices.
// Offsets are rune offsets into the block text.
type Block struct {
	key   string
	typ   BlockType
	text  []rune
	chars []CharMeta
	data  map[string]string
}

// NewBlock creates an unstyled block.
func NewBlock(key string, typ BlockType, text string) Block {
	runes := []rune(text)
	return Block{
		key:   key,
		typ:   typ,
		text:  runes,
		chars: make([]CharMeta, len(runes)),
	}
}

// NewStyledBlock creates a block with per-character metadata.
// chars must have one entry per rune of text.
func NewStyledBlock(key string, typ BlockType, text string, chars []CharMeta) Block {
	runes := []rune(text)
	if len(chars) != len(runes) {
		panic(fmt.Sprintf("draft: block %s has %d runes but %d char entries", key, len(runes), len(chars)))
	}
	return Block{
		key:   key,
		typ:   typ,
		text:  runes,
		chars: append([]CharMeta(nil), chars...),
	}
}

func (b Block) Key() string     { return b.key }
func (b Block) Type() BlockType { return b.typ }
func (b Block) Text() string    { return string(b.text) }
func (b Block) Len() int        { return len(b.text) }

// CharAt returns the metadata at offset i, or the zero value when out of range.
func (b Block) CharAt(i int) CharMeta {
	if i < 0 || i >= len(b.chars) {
		return CharMeta{}
	}
	return b.chars[i]
}

// StyleAt returns the style set at offset i.
func (b Block) StyleAt(i int) StyleSet { return b.CharAt(i).Style }

// EntityAt returns the entity reference at offset i, "" when none or out of range.
func (b Block) EntityAt(i int) string { return b.CharAt(i).Entity }

// Chars returns a copy of the per-character metadata.
func (b Block) Chars() []CharMeta {
	return append([]CharMeta(nil), b.chars...)
}

// Data returns a block data value.
func (b Block) Data(key string) (string, bool) {
	v, ok := b.data[key]
	return v, ok
}

// DataMap returns a copy of the block data.
func (b Block) DataMap() map[string]string {
	if len(b.data) == 0 {
		return nil
	}
	return maps.Clone(b.data)
}

// StyleRuns returns the maximal same-style runs covering the block. The run
// lengths always sum to Len().
func (b Block) StyleRuns() []StyleRun {
	var runs []StyleRun
	for i, c := range b.chars {
		if n := len(runs); n > 0 && runs[n-1].Style == c.Style {
			runs[n-1].Length++
			continue
		}
		runs = append(runs, StyleRun{Start: i, Length: 1, Style: c.Style})
	}
	return runs
}

// WithKey returns a copy of the block under a different key.
func (b Block) WithKey(key string) Block {
	b.key = key
	return b
}

// WithType returns a copy of the block with a different type.
func (b Block) WithType(typ BlockType) Block {
	b.typ = typ
	return b
}

// WithData returns a copy of the block with one data entry set.
func (b Block) WithData(key, value string) Block {
	data := make(map[string]string, len(b.data)+1)
	maps.Copy(data, b.data)
	data[key] = value
	b.data = data
	return b
}

// WithoutData returns a copy of the block with all data cleared.
func (b Block) WithoutData() Block {
	b.data = nil
	return b
}

// withContent swaps text and metadata. The caller hands over ownership of
// both slices.
func (b Block) withContent(text []rune, chars []CharMeta) Block {
	b.text = text
	b.chars = chars
	return b
}

// span copies the runes and metadata of [start,end).
func (b Block) span(start, end int) ([]rune, []CharMeta) {
	start, end = clampRange(start, end, len(b.text))
	return append([]rune(nil), b.text[start:end]...), append([]CharMeta(nil), b.chars[start:end]...)
}

func clampRange(start, end, n int) (int, int) {
	start = clampOffset(start, n)
	end = clampOffset(end, n)
	if end < start {
		start, end = end, start
	}
	return start, end
}

func clampOffset(off, n int) int {
	if off < 0 {
		return 0
	}
	if off > n {
		return n
	}
	return off
}
