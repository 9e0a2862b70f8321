package autoformat

import "github.com/zjrosen/draftmark/internal/draft"

// AnchorLocation returns the block holding the selection anchor and the
// anchor offset in it. Triggers fire on collapsed selections, where anchor
// and focus agree; for a range the anchor side decides. It panics when the
// selection names a block that does not exist.
func AnchorLocation(es draft.EditorState) (draft.Block, int) {
	sel := es.Selection()
	return es.Content().MustBlock(sel.AnchorKey), sel.AnchorOffset
}
