package draft

import "fmt"

// ChangeType names the kind of edit that produced a snapshot.
type ChangeType string

const (
	InsertCharacters   ChangeType = "insert-characters"
	BackspaceCharacter ChangeType = "backspace-character"
	DeleteCharacter    ChangeType = "delete-character"
	SplitBlockChange   ChangeType = "split-block"
	RemoveRangeChange  ChangeType = "remove-range"
	ChangeInlineStyle  ChangeType = "change-inline-style"
	ChangeBlockType    ChangeType = "change-block-type"
	ApplyEntity        ChangeType = "apply-entity"
	UndoChange         ChangeType = "undo"
	RedoChange         ChangeType = "redo"
)

// coalesces reports whether consecutive changes of this type share one
// undo entry.
func (t ChangeType) coalesces() bool {
	return t == InsertCharacters || t == BackspaceCharacter || t == DeleteCharacter
}

// EditorState is the full editing state of one document: the current
// snapshot, the selection, and the undo/redo stacks (most recent last).
// It is a value; every operation returns a new EditorState and the
// snapshots it references are never mutated.
type EditorState struct {
	content      Content
	selection    Selection
	undoStack    []Content
	redoStack    []Content
	lastChange   ChangeType
	override     StyleSet
	hasOverride  bool
	historyLimit int
}

// NewEditorState starts a session on c with the caret at the start of the
// first block and an empty history.
func NewEditorState(c Content) EditorState {
	sel := Caret(c.FirstBlock().Key(), 0)
	c = c.WithSelectionBefore(sel).WithSelectionAfter(sel)
	return EditorState{content: c, selection: sel}
}

// WithHistoryLimit caps the undo stack; n <= 0 means unlimited.
func (es EditorState) WithHistoryLimit(n int) EditorState {
	es.historyLimit = n
	if n > 0 && len(es.undoStack) > n {
		es.undoStack = append([]Content(nil), es.undoStack[len(es.undoStack)-n:]...)
	}
	return es
}

func (es EditorState) Content() Content           { return es.content }
func (es EditorState) Selection() Selection       { return es.selection }
func (es EditorState) LastChangeType() ChangeType { return es.lastChange }
func (es EditorState) CanUndo() bool              { return len(es.undoStack) > 0 }
func (es EditorState) CanRedo() bool              { return len(es.redoStack) > 0 }
func (es EditorState) UndoDepth() int             { return len(es.undoStack) }

// UndoStack returns a copy of the undo history, most recent last.
func (es EditorState) UndoStack() []Content {
	return append([]Content(nil), es.undoStack...)
}

// RedoStack returns a copy of the redo history, most recent last.
func (es EditorState) RedoStack() []Content {
	return append([]Content(nil), es.redoStack...)
}

// WithSelection moves the selection without recording history. Both keys
// must exist in the current content.
func (es EditorState) WithSelection(sel Selection) EditorState {
	if _, ok := es.content.BlockForKey(sel.AnchorKey); !ok {
		panic(fmt.Sprintf("draft: selection anchor %q not in content", sel.AnchorKey))
	}
	if _, ok := es.content.BlockForKey(sel.FocusKey); !ok {
		panic(fmt.Sprintf("draft: selection focus %q not in content", sel.FocusKey))
	}
	es.selection = sel
	return es
}

// InlineStyleOverride returns the style armed for the next insertion, if any.
func (es EditorState) InlineStyleOverride() (StyleSet, bool) {
	return es.override, es.hasOverride
}

func (es EditorState) WithInlineStyleOverride(s StyleSet) EditorState {
	es.override, es.hasOverride = s, true
	return es
}

func (es EditorState) ClearInlineStyleOverride() EditorState {
	es.override, es.hasOverride = 0, false
	return es
}

// CurrentInlineStyle is the style newly typed characters receive: the
// override when armed, otherwise the style of the character before the
// caret, falling back to the first character of the block and then to the
// last character of the nearest non-empty block above.
func (es EditorState) CurrentInlineStyle() StyleSet {
	if es.hasOverride {
		return es.override
	}
	block := es.content.MustBlock(es.selection.FocusKey)
	if off := es.selection.FocusOffset; off > 0 {
		return block.StyleAt(off - 1)
	}
	if block.Len() > 0 {
		return block.StyleAt(0)
	}
	for i := es.content.IndexOf(block.Key()) - 1; i >= 0; i-- {
		if prev := es.content.BlockAt(i); prev.Len() > 0 {
			return prev.StyleAt(prev.Len() - 1)
		}
	}
	return 0
}

// Push records next as the new current snapshot. The previous snapshot is
// pushed onto the undo stack unless the change continues a run of
// character insertions or deletions from the same caret, in which case the
// run shares one undo entry. The new selection is next.SelectionAfter().
func Push(es EditorState, next Content, change ChangeType) EditorState {
	cur := es.content
	undo := es.undoStack

	boundary := es.lastChange != change || !change.coalesces()
	if es.selection != cur.SelectionAfter() || boundary {
		undo = appendSnapshot(undo, cur, es.historyLimit)
		next = next.WithSelectionBefore(es.selection)
	} else {
		next = next.WithSelectionBefore(cur.SelectionBefore())
	}

	out := es
	out.content = next
	out.selection = next.SelectionAfter()
	out.undoStack = undo
	out.redoStack = nil
	out.lastChange = change
	if change != ChangeBlockType && change != SplitBlockChange {
		out.override, out.hasOverride = 0, false
	}
	return out
}

// Undo restores the most recent undo snapshot; the selection returns to
// where it was before the undone change. No-op with an empty history.
func (es EditorState) Undo() EditorState {
	n := len(es.undoStack)
	if n == 0 {
		return es
	}
	out := es
	out.content = es.undoStack[n-1]
	out.undoStack = es.undoStack[: n-1 : n-1]
	out.redoStack = appendSnapshot(es.redoStack, es.content, 0)
	out.selection = es.content.SelectionBefore()
	out.lastChange = UndoChange
	out.override, out.hasOverride = 0, false
	return out
}

// Redo re-applies the most recently undone snapshot.
func (es EditorState) Redo() EditorState {
	n := len(es.redoStack)
	if n == 0 {
		return es
	}
	next := es.redoStack[n-1]
	out := es
	out.content = next
	out.redoStack = es.redoStack[: n-1 : n-1]
	out.undoStack = appendSnapshot(es.undoStack, es.content, es.historyLimit)
	out.selection = next.SelectionAfter()
	out.lastChange = RedoChange
	out.override, out.hasOverride = 0, false
	return out
}

// appendSnapshot always allocates so that stacks shared between states are
// never written through.
func appendSnapshot(stack []Content, c Content, limit int) []Content {
	start := 0
	if limit > 0 && len(stack) >= limit {
		start = len(stack) - limit + 1
	}
	out := make([]Content, 0, len(stack)-start+1)
	out = append(out, stack[start:]...)
	return append(out, c)
}
