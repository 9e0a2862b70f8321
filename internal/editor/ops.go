package editor

import (
	"unicode/utf8"

	"github.com/zjrosen/draftmark/internal/draft"
)

// The default mutations below are what the editor does when no handler
// intercepts the input. They are also the deferred "next state" thunks the
// autoformat dispatcher evaluates.

// InsertCharacters replaces the selection with chars. The inserted
// characters get the current inline style.
func InsertCharacters(es draft.EditorState, chars string) draft.EditorState {
	sel := es.Selection()
	style := es.CurrentInlineStyle()
	c, key, off := removeSelection(es.Content(), sel)
	c = draft.InsertText(c, key, off, chars, style, "")
	c = c.WithSelectionAfter(sel.CollapseTo(key, off+utf8.RuneCountInString(chars)))
	return draft.Push(es, c, draft.InsertCharacters)
}

// AddSpace inserts a single space at the caret.
func AddSpace(es draft.EditorState) draft.EditorState {
	return InsertCharacters(es, " ")
}

// SplitBlock splits the focus block at the caret; the lower half becomes a
// new block keyed newKey and the caret moves to its start. Inside a code
// block a newline is inserted instead, and a second newline at the end of
// the block leaves the code block.
func SplitBlock(es draft.EditorState, newKey string) draft.EditorState {
	sel := es.Selection()
	c, key, off := removeSelection(es.Content(), sel)

	if b := c.MustBlock(key); b.Type() == draft.CodeBlock {
		text := []rune(b.Text())
		if off < len(text) || off == 0 || text[off-1] != '\n' {
			c = draft.InsertText(c, key, off, "\n", 0, "")
			c = c.WithSelectionAfter(sel.CollapseTo(key, off+1))
			return draft.Push(es, c, draft.InsertCharacters)
		}
		c = draft.RemoveRange(c, key, off-1, off)
		c = draft.SplitBlock(c, key, off-1, newKey)
		c = c.WithBlock(c.MustBlock(newKey).WithType(draft.Normal).WithoutData())
	} else {
		c = draft.SplitBlock(c, key, off, newKey)
	}

	c = c.WithSelectionAfter(sel.CollapseTo(newKey, 0))
	return draft.Push(es, c, draft.SplitBlockChange)
}

// Backspace deletes the selection or the grapheme cluster before the caret.
// At the start of a styled block the block type is reset; at the start of
// a normal block the block joins the one above. It reports false when
// there is nothing to delete.
func Backspace(es draft.EditorState) (draft.EditorState, bool) {
	sel := es.Selection()
	if !sel.IsCollapsed() {
		c, key, off := removeSelection(es.Content(), sel)
		return draft.Push(es, c.WithSelectionAfter(sel.CollapseTo(key, off)), draft.RemoveRangeChange), true
	}

	c := es.Content()
	b := c.MustBlock(sel.FocusKey)
	if off := sel.FocusOffset; off > 0 {
		start := PrevBoundary(b.Text(), off)
		c = draft.RemoveRange(c, b.Key(), start, off)
		return draft.Push(es, c.WithSelectionAfter(sel.CollapseTo(b.Key(), start)), draft.BackspaceCharacter), true
	}

	if b.Type() != draft.Normal {
		c = draft.SetBlockType(c, b.Key(), b.Key(), draft.Normal)
		return draft.Push(es, c.WithSelectionAfter(sel), draft.ChangeBlockType), true
	}

	joined, upper, off, ok := draft.JoinBackward(c, b.Key())
	if !ok {
		return es, false
	}
	return draft.Push(es, joined.WithSelectionAfter(sel.CollapseTo(upper, off)), draft.BackspaceCharacter), true
}

// Delete removes the selection or the grapheme cluster after the caret,
// joining the next block when the caret is at the end of its block.
func Delete(es draft.EditorState) (draft.EditorState, bool) {
	sel := es.Selection()
	if !sel.IsCollapsed() {
		c, key, off := removeSelection(es.Content(), sel)
		return draft.Push(es, c.WithSelectionAfter(sel.CollapseTo(key, off)), draft.RemoveRangeChange), true
	}

	c := es.Content()
	b := c.MustBlock(sel.FocusKey)
	if off := sel.FocusOffset; off < b.Len() {
		end := NextBoundary(b.Text(), off)
		c = draft.RemoveRange(c, b.Key(), off, end)
		return draft.Push(es, c.WithSelectionAfter(sel), draft.DeleteCharacter), true
	}

	next, ok := c.BlockAfter(b.Key())
	if !ok {
		return es, false
	}
	joined, _, _, _ := draft.JoinBackward(c, next.Key())
	return draft.Push(es, joined.WithSelectionAfter(sel), draft.DeleteCharacter), true
}

// ToggleInlineStyle toggles style on the selection. With a collapsed
// selection it arms the inline style override for the next insertion.
func ToggleInlineStyle(es draft.EditorState, style draft.Style) draft.EditorState {
	sel := es.Selection()
	if sel.IsCollapsed() {
		return es.WithInlineStyleOverride(es.CurrentInlineStyle().Toggle(style))
	}

	c := es.Content()
	all := true
	forEachSelected(c, sel, func(b draft.Block, start, end int) {
		for i := start; i < end; i++ {
			if !b.StyleAt(i).Has(style) {
				all = false
			}
		}
	})
	forEachSelected(es.Content(), sel, func(b draft.Block, start, end int) {
		if all {
			c = draft.RemoveInlineStyle(c, b.Key(), start, end, style)
		} else {
			c = draft.ApplyInlineStyle(c, b.Key(), start, end, style)
		}
	})
	return draft.Push(es, c.WithSelectionAfter(sel), draft.ChangeInlineStyle)
}

// selectionRange orders a selection's endpoints by document position.
func selectionRange(c draft.Content, sel draft.Selection) (startKey string, startOff int, endKey string, endOff int) {
	ai, fi := c.IndexOf(sel.AnchorKey), c.IndexOf(sel.FocusKey)
	if ai < fi || (ai == fi && sel.AnchorOffset <= sel.FocusOffset) {
		return sel.AnchorKey, sel.AnchorOffset, sel.FocusKey, sel.FocusOffset
	}
	return sel.FocusKey, sel.FocusOffset, sel.AnchorKey, sel.AnchorOffset
}

// forEachSelected calls fn with the selected range of every block the
// selection touches.
func forEachSelected(c draft.Content, sel draft.Selection, fn func(b draft.Block, start, end int)) {
	sk, so, ek, eo := selectionRange(c, sel)
	c.MustBlock(sk)
	c.MustBlock(ek)
	first, last := c.IndexOf(sk), c.IndexOf(ek)
	for i := first; i <= last; i++ {
		b := c.BlockAt(i)
		start, end := 0, b.Len()
		if i == first {
			start = so
		}
		if i == last {
			end = eo
		}
		fn(b, start, end)
	}
}

// removeSelection deletes the selected text, joining the endpoint blocks of
// a multi-block selection, and returns the caret position that remains.
func removeSelection(c draft.Content, sel draft.Selection) (draft.Content, string, int) {
	if sel.IsCollapsed() {
		c.MustBlock(sel.FocusKey)
		return c, sel.FocusKey, sel.FocusOffset
	}
	sk, so, ek, eo := selectionRange(c, sel)
	if sk == ek {
		return draft.RemoveRange(c, sk, so, eo), sk, so
	}
	c = draft.RemoveRange(c, sk, so, c.MustBlock(sk).Len())
	c = draft.RemoveRange(c, ek, 0, eo)
	for {
		next, ok := c.BlockAfter(sk)
		if !ok || next.Key() == ek {
			break
		}
		c = c.WithoutBlock(next.Key())
	}
	c, _, _, _ = draft.JoinBackward(c, ek)
	return c, sk, so
}
