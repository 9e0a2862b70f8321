package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/draftmark/internal/draft"
)

func newState(blocks ...draft.Block) draft.EditorState {
	return draft.NewEditorState(draft.NewContent(blocks...))
}

func at(es draft.EditorState, key string, off int) draft.EditorState {
	return es.WithSelection(draft.Caret(key, off))
}

func texts(es draft.EditorState) []string {
	var out []string
	for _, b := range es.Content().Blocks() {
		out = append(out, b.Text())
	}
	return out
}

func TestEditor_TypeCoalescesIntoOneUndo(t *testing.T) {
	ed := New(newState(draft.NewBlock("a", draft.Normal, "")), nil)
	ed.Type(context.Background(), "hello")

	es := ed.State()
	require.Equal(t, []string{"hello"}, texts(es))
	require.Equal(t, draft.Caret("a", 5), es.Selection())
	require.Equal(t, 1, es.UndoDepth())
}

func TestEditor_TypeNewlineSplits(t *testing.T) {
	ed := New(newState(draft.NewBlock("a", draft.Normal, "")), nil)
	ed.Type(context.Background(), "ab\ncd")

	es := ed.State()
	require.Equal(t, []string{"ab", "cd"}, texts(es))
	second := es.Content().BlockAt(1).Key()
	require.Equal(t, draft.Caret(second, 2), es.Selection())
}

func TestEditor_HandlerInterceptsInput(t *testing.T) {
	var changes int
	h := HandlerFuncs{
		BeforeInput: func(_ context.Context, chars string, es draft.EditorState) (draft.EditorState, bool) {
			if chars != "x" {
				return es, false
			}
			return InsertCharacters(es, "[x]"), true
		},
		Change: func(context.Context, draft.EditorState) { changes++ },
	}
	ed := New(newState(draft.NewBlock("a", draft.Normal, "")), h)
	ed.Type(context.Background(), "axb")

	require.Equal(t, []string{"a[x]b"}, texts(ed.State()))
	require.Equal(t, 2, changes, "handled input is not reported as a change")
}

func TestEditor_HandlerInterceptsCommand(t *testing.T) {
	h := HandlerFuncs{
		KeyCommand: func(_ context.Context, cmd Command, es draft.EditorState) (draft.EditorState, bool) {
			return es, cmd == CmdBackspace
		},
	}
	ed := New(at(newState(draft.NewBlock("a", draft.Normal, "ab")), "a", 2), h)

	require.True(t, ed.Exec(context.Background(), CmdBackspace))
	require.Equal(t, []string{"ab"}, texts(ed.State()))
}

func TestEditor_ExecReportsNoEffect(t *testing.T) {
	ed := New(newState(draft.NewBlock("a", draft.Normal, "")), NopHandler{})
	require.False(t, ed.Exec(context.Background(), CmdBackspace))
	require.False(t, ed.Exec(context.Background(), CmdUndo))
	require.False(t, ed.Exec(context.Background(), Command("bogus")))
}

func TestEditor_Reset(t *testing.T) {
	ed := New(newState(), nil)
	next := newState(draft.NewBlock("z", draft.Normal, "seed"))
	ed.Reset(next)
	require.Equal(t, []string{"seed"}, texts(ed.State()))
}

func TestParseCommand(t *testing.T) {
	for _, c := range Commands() {
		got, err := ParseCommand(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	got, err := ParseCommand("enter")
	require.NoError(t, err)
	require.Equal(t, CmdSplitBlock, got)

	_, err = ParseCommand("tab")
	require.Error(t, err)
}

func TestEditor_SelectReportsChange(t *testing.T) {
	var changes int
	h := HandlerFuncs{Change: func(context.Context, draft.EditorState) { changes++ }}
	ed := New(at(newState(draft.NewBlock("a", draft.Normal, "abc")), "a", 0), h)

	ed.Select(context.Background(), "a", 2)

	require.Equal(t, draft.Caret("a", 2), ed.State().Selection())
	require.Equal(t, 1, changes)
	require.Zero(t, ed.State().UndoDepth())
}
