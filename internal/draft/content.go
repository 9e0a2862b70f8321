package draft

import (
	"fmt"
	"strings"
)

// Content is one immutable snapshot of a document: its ordered blocks plus
// the selections just before and just after the change that produced it.
type Content struct {
	blocks          []Block
	index           map[string]int
	selectionBefore Selection
	selectionAfter  Selection
}

// NewContent builds a snapshot from blocks. An empty list yields a single
// empty block. Duplicate keys are a programming error and panic.
func NewContent(blocks ...Block) Content {
	if len(blocks) == 0 {
		blocks = []Block{NewBlock(GenerateKey(), Normal, "")}
	}
	c := Content{blocks: append([]Block(nil), blocks...)}
	c.reindex()
	first := c.blocks[0].Key()
	c.selectionBefore = Caret(first, 0)
	c.selectionAfter = Caret(first, 0)
	return c
}

// FromText builds a snapshot with one normal block per line of text.
func FromText(text string) Content {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = NewBlock(GenerateKey(), Normal, line)
	}
	return NewContent(blocks...)
}

func (c *Content) reindex() {
	c.index = make(map[string]int, len(c.blocks))
	for i, b := range c.blocks {
		if _, dup := c.index[b.Key()]; dup {
			panic(fmt.Sprintf("draft: duplicate block key %q", b.Key()))
		}
		c.index[b.Key()] = i
	}
}

// withBlocks returns a copy holding blocks, which the caller hands over.
func (c Content) withBlocks(blocks []Block) Content {
	c.blocks = blocks
	c.reindex()
	return c
}

// Blocks returns a copy of the ordered block list.
func (c Content) Blocks() []Block {
	return append([]Block(nil), c.blocks...)
}

func (c Content) BlockCount() int { return len(c.blocks) }

// BlockAt returns the i-th block.
func (c Content) BlockAt(i int) Block { return c.blocks[i] }

// IndexOf returns the position of key, or -1.
func (c Content) IndexOf(key string) int {
	if i, ok := c.index[key]; ok {
		return i
	}
	return -1
}

// BlockForKey looks a block up by key.
func (c Content) BlockForKey(key string) (Block, bool) {
	i, ok := c.index[key]
	if !ok {
		return Block{}, false
	}
	return c.blocks[i], true
}

// MustBlock looks a block up by key and panics when it does not exist.
// A selection naming a missing block is a contract violation of the caller.
func (c Content) MustBlock(key string) Block {
	b, ok := c.BlockForKey(key)
	if !ok {
		panic(fmt.Sprintf("draft: no block with key %q", key))
	}
	return b
}

// BlockBefore returns the block preceding key.
func (c Content) BlockBefore(key string) (Block, bool) {
	i := c.IndexOf(key)
	if i <= 0 {
		return Block{}, false
	}
	return c.blocks[i-1], true
}

// BlockAfter returns the block following key.
func (c Content) BlockAfter(key string) (Block, bool) {
	i := c.IndexOf(key)
	if i < 0 || i+1 >= len(c.blocks) {
		return Block{}, false
	}
	return c.blocks[i+1], true
}

func (c Content) FirstBlock() Block { return c.blocks[0] }
func (c Content) LastBlock() Block  { return c.blocks[len(c.blocks)-1] }

// PlainText joins block texts with newlines.
func (c Content) PlainText() string {
	lines := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		lines[i] = b.Text()
	}
	return strings.Join(lines, "\n")
}

func (c Content) SelectionBefore() Selection { return c.selectionBefore }
func (c Content) SelectionAfter() Selection  { return c.selectionAfter }

func (c Content) WithSelectionBefore(s Selection) Content {
	c.selectionBefore = s
	return c
}

func (c Content) WithSelectionAfter(s Selection) Content {
	c.selectionAfter = s
	return c
}

// WithBlock replaces the block sharing b's key.
func (c Content) WithBlock(b Block) Content {
	i := c.IndexOf(b.Key())
	if i < 0 {
		panic(fmt.Sprintf("draft: no block with key %q", b.Key()))
	}
	blocks := c.Blocks()
	blocks[i] = b
	c.blocks = blocks
	return c
}

// WithoutBlock removes the block with key. Removing the last remaining
// block leaves the content unchanged.
func (c Content) WithoutBlock(key string) Content {
	i := c.IndexOf(key)
	if i < 0 || len(c.blocks) == 1 {
		return c
	}
	return c.splice(i, i+1)
}

// InsertAfter places b directly after the block with key.
func (c Content) InsertAfter(key string, b Block) Content {
	i := c.IndexOf(key)
	if i < 0 {
		panic(fmt.Sprintf("draft: no block with key %q", key))
	}
	return c.splice(i+1, i+1, b)
}

// splice replaces blocks[start:end] with repl.
func (c Content) splice(start, end int, repl ...Block) Content {
	blocks := make([]Block, 0, len(c.blocks)-(end-start)+len(repl))
	blocks = append(blocks, c.blocks[:start]...)
	blocks = append(blocks, repl...)
	blocks = append(blocks, c.blocks[end:]...)
	return c.withBlocks(blocks)
}
