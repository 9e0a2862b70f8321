package draft

import "slices"

// The modifiers below transform a Content and return the result. They
// never touch selections; callers set SelectionAfter for the edit they
// perform. A key that does not exist panics.

// InsertText inserts text at offset in block key. Every inserted character
// gets style and entity.
func InsertText(c Content, key string, offset int, text string, style StyleSet, entity string) Content {
	if text == "" {
		return c
	}
	b := c.MustBlock(key)
	offset = clampOffset(offset, b.Len())
	ins := []rune(text)
	meta := make([]CharMeta, len(ins))
	for i := range meta {
		meta[i] = CharMeta{Style: style, Entity: entity}
	}
	runes := slices.Concat(b.text[:offset], ins, b.text[offset:])
	chars := slices.Concat(b.chars[:offset], meta, b.chars[offset:])
	return c.WithBlock(b.withContent(runes, chars))
}

// RemoveRange deletes the characters [start,end) of block key.
func RemoveRange(c Content, key string, start, end int) Content {
	b := c.MustBlock(key)
	start, end = clampRange(start, end, b.Len())
	if start == end {
		return c
	}
	runes := slices.Concat(b.text[:start], b.text[end:])
	chars := slices.Concat(b.chars[:start], b.chars[end:])
	return c.WithBlock(b.withContent(runes, chars))
}

// ApplyInlineStyle adds style to the characters [start,end) of block key,
// keeping the styles they already carry.
func ApplyInlineStyle(c Content, key string, start, end int, style Style) Content {
	return mapChars(c, key, start, end, func(m CharMeta) CharMeta {
		m.Style = m.Style.With(style)
		return m
	})
}

// RemoveInlineStyle removes style from the characters [start,end).
func RemoveInlineStyle(c Content, key string, start, end int, style Style) Content {
	return mapChars(c, key, start, end, func(m CharMeta) CharMeta {
		m.Style = m.Style.Without(style)
		return m
	})
}

// SetEntity sets the entity reference of the characters [start,end); an
// empty entity clears it.
func SetEntity(c Content, key string, start, end int, entity string) Content {
	return mapChars(c, key, start, end, func(m CharMeta) CharMeta {
		m.Entity = entity
		return m
	})
}

func mapChars(c Content, key string, start, end int, fn func(CharMeta) CharMeta) Content {
	b := c.MustBlock(key)
	start, end = clampRange(start, end, b.Len())
	if start == end {
		return c
	}
	chars := b.Chars()
	for i := start; i < end; i++ {
		chars[i] = fn(chars[i])
	}
	return c.WithBlock(b.withContent(b.text, chars))
}

// SplitBlock splits block key at offset. The text after offset moves to a
// new block newKey inserted directly below, with the same type and data.
func SplitBlock(c Content, key string, offset int, newKey string) Content {
	b := c.MustBlock(key)
	offset = clampOffset(offset, b.Len())
	headText, headChars := b.span(0, offset)
	tailText, tailChars := b.span(offset, b.Len())
	upper := b.withContent(headText, headChars)
	lower := b.WithKey(newKey).withContent(tailText, tailChars)
	if b.data != nil {
		lower.data = b.DataMap()
	}
	return c.WithBlock(upper).InsertAfter(key, lower)
}

// JoinBackward appends block key to the block above it and removes key.
// It returns the joined content and the offset in the upper block where the
// lower text starts. ok is false when key is the first block.
func JoinBackward(c Content, key string) (joined Content, upperKey string, offset int, ok bool) {
	lower := c.MustBlock(key)
	upper, found := c.BlockBefore(key)
	if !found {
		return c, "", 0, false
	}
	runes := slices.Concat(upper.text, lower.text)
	chars := slices.Concat(upper.chars, lower.chars)
	joined = c.WithBlock(upper.withContent(runes, chars)).WithoutBlock(key)
	return joined, upper.Key(), upper.Len(), true
}

// SetBlockType sets typ on every block from startKey through endKey.
func SetBlockType(c Content, startKey, endKey string, typ BlockType) Content {
	start, end := c.IndexOf(startKey), c.IndexOf(endKey)
	if start < 0 || end < 0 {
		c.MustBlock(startKey)
		c.MustBlock(endKey)
	}
	if end < start {
		start, end = end, start
	}
	blocks := c.Blocks()
	for i := start; i <= end; i++ {
		blocks[i] = blocks[i].WithType(typ)
	}
	c.blocks = blocks
	return c
}

// MergeBlocks replaces the blocks from firstKey through lastKey with one
// block of type typ keyed firstKey. Texts are joined with sep; separator
// characters carry no style. Character metadata is preserved.
func MergeBlocks(c Content, firstKey, lastKey string, typ BlockType, sep string) Content {
	start, end := c.IndexOf(firstKey), c.IndexOf(lastKey)
	if start < 0 || end < 0 {
		c.MustBlock(firstKey)
		c.MustBlock(lastKey)
	}
	if end < start {
		start, end = end, start
	}
	sepRunes := []rune(sep)
	var runes []rune
	var chars []CharMeta
	for i := start; i <= end; i++ {
		b := c.BlockAt(i)
		if i > start {
			runes = append(runes, sepRunes...)
			chars = append(chars, make([]CharMeta, len(sepRunes))...)
		}
		runes = append(runes, b.text...)
		chars = append(chars, b.chars...)
	}
	merged := c.BlockAt(start).WithType(typ).withContent(runes, chars)
	return c.splice(start, end+1, merged)
}

// ClearBlock empties the text, character metadata and data of block key,
// keeping its key and type.
func ClearBlock(c Content, key string) Content {
	b := c.MustBlock(key)
	return c.WithBlock(b.withContent(nil, nil).WithoutData())
}
