package editor

import (
	"context"

	"github.com/zjrosen/draftmark/internal/draft"
)

// Handler intercepts input before the editor applies its default mutation.
// Returning handled=true makes the returned state current and skips the
// default. Handlers compose by wrapping: an outer handler decides whether
// to consult the one it wraps.
type Handler interface {
	HandleBeforeInput(ctx context.Context, chars string, es draft.EditorState) (draft.EditorState, bool)
	HandleKeyCommand(ctx context.Context, cmd Command, es draft.EditorState) (draft.EditorState, bool)
	// HandleChange is told about every state produced by a default mutation.
	HandleChange(ctx context.Context, es draft.EditorState)
}

// NopHandler handles nothing.
type NopHandler struct{}

func (NopHandler) HandleBeforeInput(_ context.Context, _ string, es draft.EditorState) (draft.EditorState, bool) {
	return es, false
}

func (NopHandler) HandleKeyCommand(_ context.Context, _ Command, es draft.EditorState) (draft.EditorState, bool) {
	return es, false
}

func (NopHandler) HandleChange(context.Context, draft.EditorState) {}

// HandlerFuncs adapts plain functions to a Handler. Nil fields handle nothing.
type HandlerFuncs struct {
	BeforeInput func(ctx context.Context, chars string, es draft.EditorState) (draft.EditorState, bool)
	KeyCommand  func(ctx context.Context, cmd Command, es draft.EditorState) (draft.EditorState, bool)
	Change      func(ctx context.Context, es draft.EditorState)
}

func (h HandlerFuncs) HandleBeforeInput(ctx context.Context, chars string, es draft.EditorState) (draft.EditorState, bool) {
	if h.BeforeInput == nil {
		return es, false
	}
	return h.BeforeInput(ctx, chars, es)
}

func (h HandlerFuncs) HandleKeyCommand(ctx context.Context, cmd Command, es draft.EditorState) (draft.EditorState, bool) {
	if h.KeyCommand == nil {
		return es, false
	}
	return h.KeyCommand(ctx, cmd, es)
}

func (h HandlerFuncs) HandleChange(ctx context.Context, es draft.EditorState) {
	if h.Change != nil {
		h.Change(ctx, es)
	}
}
