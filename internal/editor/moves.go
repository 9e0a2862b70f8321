package editor

import "github.com/zjrosen/draftmark/internal/draft"

// Caret moves change only the selection; they record no history and clear
// the inline style override.

func moveTo(es draft.EditorState, key string, off int) draft.EditorState {
	return es.WithSelection(es.Selection().CollapseTo(key, off)).ClearInlineStyleOverride()
}

// MoveLeft moves the caret one grapheme cluster left, crossing into the
// previous block. A range selection collapses to its start.
func MoveLeft(es draft.EditorState) draft.EditorState {
	sel := es.Selection()
	c := es.Content()
	if !sel.IsCollapsed() {
		sk, so, _, _ := selectionRange(c, sel)
		return moveTo(es, sk, so)
	}
	b := c.MustBlock(sel.FocusKey)
	if sel.FocusOffset > 0 {
		return moveTo(es, b.Key(), PrevBoundary(b.Text(), sel.FocusOffset))
	}
	if prev, ok := c.BlockBefore(b.Key()); ok {
		return moveTo(es, prev.Key(), prev.Len())
	}
	return es
}

// MoveRight moves the caret one grapheme cluster right, crossing into the
// next block. A range selection collapses to its end.
func MoveRight(es draft.EditorState) draft.EditorState {
	sel := es.Selection()
	c := es.Content()
	if !sel.IsCollapsed() {
		_, _, ek, eo := selectionRange(c, sel)
		return moveTo(es, ek, eo)
	}
	b := c.MustBlock(sel.FocusKey)
	if sel.FocusOffset < b.Len() {
		return moveTo(es, b.Key(), NextBoundary(b.Text(), sel.FocusOffset))
	}
	if next, ok := c.BlockAfter(b.Key()); ok {
		return moveTo(es, next.Key(), 0)
	}
	return es
}

// MoveUp moves to the same offset in the previous block, clamped to its
// length, or to the start of the first block.
func MoveUp(es draft.EditorState) draft.EditorState {
	sel := es.Selection()
	c := es.Content()
	if prev, ok := c.BlockBefore(sel.FocusKey); ok {
		return moveTo(es, prev.Key(), min(sel.FocusOffset, prev.Len()))
	}
	return moveTo(es, sel.FocusKey, 0)
}

// MoveDown moves to the same offset in the next block, or to the end of
// the last block.
func MoveDown(es draft.EditorState) draft.EditorState {
	sel := es.Selection()
	c := es.Content()
	if next, ok := c.BlockAfter(sel.FocusKey); ok {
		return moveTo(es, next.Key(), min(sel.FocusOffset, next.Len()))
	}
	return moveTo(es, sel.FocusKey, c.MustBlock(sel.FocusKey).Len())
}

// Home moves to the start of the focus block.
func Home(es draft.EditorState) draft.EditorState {
	return moveTo(es, es.Selection().FocusKey, 0)
}

// End moves to the end of the focus block.
func End(es draft.EditorState) draft.EditorState {
	key := es.Selection().FocusKey
	return moveTo(es, key, es.Content().MustBlock(key).Len())
}

// MoveTo places the caret at off in block key, clamped to the block and
// snapped back to the start of the cluster it falls in.
func MoveTo(es draft.EditorState, key string, off int) draft.EditorState {
	b := es.Content().MustBlock(key)
	text := b.Text()
	off = min(max(off, 0), b.Len())
	if off > 0 {
		if prev := PrevBoundary(text, off); NextBoundary(text, prev) != off {
			off = prev
		}
	}
	return moveTo(es, key, off)
}
