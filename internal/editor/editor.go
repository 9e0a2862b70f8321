// Package editor is the host rich-text editor that drives a document from
// keystrokes. Characters and key commands are offered to a Handler first;
// unhandled input falls back to the default mutations in this package and
// the handler is then told about the resulting change.
package editor

import (
	"context"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/log"
)

// KeyCommand applies the default behavior of cmd. It reports false when
// the command does nothing in the current state.
func KeyCommand(es draft.EditorState, cmd Command) (draft.EditorState, bool) {
	switch cmd {
	case CmdSplitBlock:
		return SplitBlock(es, draft.GenerateKey()), true
	case CmdBackspace:
		return Backspace(es)
	case CmdDelete:
		return Delete(es)
	case CmdUndo:
		return es.Undo(), es.CanUndo()
	case CmdRedo:
		return es.Redo(), es.CanRedo()
	case CmdMoveLeft:
		return MoveLeft(es), true
	case CmdMoveRight:
		return MoveRight(es), true
	case CmdMoveUp:
		return MoveUp(es), true
	case CmdMoveDown:
		return MoveDown(es), true
	case CmdHome:
		return Home(es), true
	case CmdEnd:
		return End(es), true
	case CmdBold:
		return ToggleInlineStyle(es, draft.Bold), true
	case CmdItalic:
		return ToggleInlineStyle(es, draft.Italic), true
	case CmdCode:
		return ToggleInlineStyle(es, draft.Code), true
	case CmdStrikethrough:
		return ToggleInlineStyle(es, draft.Strikethrough), true
	}
	return es, false
}

// Editor owns the current EditorState of one document. It is not safe for
// concurrent use; one keystroke is fully processed before the next.
type Editor struct {
	state   draft.EditorState
	handler Handler
}

// New creates an editor on es. A nil handler handles nothing.
func New(es draft.EditorState, h Handler) *Editor {
	if h == nil {
		h = NopHandler{}
	}
	return &Editor{state: es, handler: h}
}

func (e *Editor) State() draft.EditorState { return e.state }

// Reset replaces the state without consulting the handler.
func (e *Editor) Reset(es draft.EditorState) {
	e.state = es
}

// Input offers chars to the handler and inserts them when unhandled.
func (e *Editor) Input(ctx context.Context, chars string) {
	if next, ok := e.handler.HandleBeforeInput(ctx, chars, e.state); ok {
		e.state = next
		return
	}
	e.state = InsertCharacters(e.state, chars)
	e.handler.HandleChange(ctx, e.state)
}

// Exec offers cmd to the handler and applies its default when unhandled.
// It reports whether anything happened.
func (e *Editor) Exec(ctx context.Context, cmd Command) bool {
	if next, ok := e.handler.HandleKeyCommand(ctx, cmd, e.state); ok {
		e.state = next
		return true
	}
	next, ok := KeyCommand(e.state, cmd)
	if !ok {
		log.Debug(log.CatEditor, "command had no effect", "cmd", cmd)
		return false
	}
	e.state = next
	e.handler.HandleChange(ctx, e.state)
	return true
}

// Select moves the caret to off in block key, as a mouse click would. The
// move is reported to the handler like any other change.
func (e *Editor) Select(ctx context.Context, key string, off int) {
	e.state = MoveTo(e.state, key, off)
	e.handler.HandleChange(ctx, e.state)
}

// Type feeds s one grapheme cluster at a time. Line breaks become
// split-block commands.
func (e *Editor) Type(ctx context.Context, s string) {
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		if cluster == "\n" || cluster == "\r\n" {
			e.Exec(ctx, CmdSplitBlock)
		} else {
			e.Input(ctx, cluster)
		}
		s = rest
		state = newState
	}
}
