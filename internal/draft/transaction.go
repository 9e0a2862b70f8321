package draft

// Transaction groups several edits into one history entry. Edits are
// applied to a working snapshot; Commit pushes the final snapshot once, so
// a single undo returns to the state the transaction began from.
type Transaction struct {
	base    EditorState
	content Content
	steps   int
}

// Begin opens a transaction on es.
func (es EditorState) Begin() *Transaction {
	return &Transaction{base: es, content: es.content}
}

// Base returns the state the transaction started from.
func (tx *Transaction) Base() EditorState { return tx.base }

// Content returns the working snapshot.
func (tx *Transaction) Content() Content { return tx.content }

// Selection returns the selection after the last applied edit, or the base
// selection when nothing has been applied yet.
func (tx *Transaction) Selection() Selection {
	if tx.steps == 0 {
		return tx.base.Selection()
	}
	return tx.content.SelectionAfter()
}

// Apply replaces the working snapshot. c.SelectionAfter() must hold the
// selection after the edit.
func (tx *Transaction) Apply(c Content) {
	tx.content = c
	tx.steps++
}

// Steps returns the number of applied edits.
func (tx *Transaction) Steps() int { return tx.steps }

// Commit records the working snapshot as one change. A transaction with no
// edits returns the base state unchanged.
func (tx *Transaction) Commit(change ChangeType) EditorState {
	if tx.steps == 0 {
		return tx.base
	}
	return Push(tx.base, tx.content, change)
}
