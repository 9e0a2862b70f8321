package autoformat

import (
	"testing"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/testutil"
)

// stateAt returns a one-block document with the caret at off.
func stateAt(text string, off int) draft.EditorState {
	es := draft.NewEditorState(draft.NewContent(draft.NewBlock("a", draft.Normal, text)))
	return es.WithSelection(draft.Caret("a", off))
}

// docAt returns a document of normal blocks keyed b0, b1, ... with the
// caret in block idx at off.
func docAt(t *testing.T, lines []string, idx, off int) draft.EditorState {
	t.Helper()
	return testutil.NewBuilder(t).WithLines(lines...).WithCaret(testutil.LineKey(idx), off).Build()
}

func identity(es draft.EditorState) func() draft.EditorState {
	return func() draft.EditorState { return es }
}

func texts(es draft.EditorState) []string {
	var out []string
	for _, b := range es.Content().Blocks() {
		out = append(out, b.Text())
	}
	return out
}
