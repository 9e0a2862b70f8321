package tracing

// Span attribute keys for autoformat dispatch.
const (
	AttrTrigger   = "autoformat.trigger" // "space", "split-block" or "backspace"
	AttrOutcome   = "autoformat.outcome" // "inline", "fence", "undo" or "none"
	AttrStyles    = "autoformat.styles"
	AttrBlockKey  = "block.key"
	AttrBlockType = "block.type"
	AttrOffset    = "selection.offset"
	AttrState     = "session.state"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanDispatch = "autoformat.dispatch"
	SpanInline   = "autoformat.inline"
	SpanFence    = "autoformat.fence"
	SpanReplay   = "replay.run"
)

// Event names for span events.
const (
	EventNextStateMaterialized = "next_state.materialized"
	EventRuleMatched           = "rule.matched"
	EventRuleTimedOut          = "rule.timed_out"
	EventEntitySkipped         = "entity.skipped"
	EventUndoArmed             = "undo.armed"
	EventUndoConsumed          = "undo.consumed"
)
