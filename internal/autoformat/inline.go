package autoformat

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/tracing"
)

// Extractor converts delimiter-wrapped text in the caret's block into
// styled spans.
type Extractor struct {
	rules []Rule
}

// NewExtractor creates an extractor trying rules in order.
func NewExtractor(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Rules returns the rules in priority order.
func (x *Extractor) Rules() []Rule {
	return append([]Rule(nil), x.rules...)
}

// Extract looks for each rule's first match in the caret's block of es.
// On the first match the deferred next state is materialized and every rule
// from then on matches against the working state, so matches see the edit
// that triggered them. All replacements are committed as one
// change-inline-style entry on top of the next state: a single undo returns
// to the next state with its selection.
//
// Extraction is skipped when the character before the caret carries an
// entity. It returns the styles applied, in rule order.
func (x *Extractor) Extract(ctx context.Context, es draft.EditorState, next func() draft.EditorState) (draft.EditorState, []draft.Style, bool) {
	span := trace.SpanFromContext(ctx)
	block, offset := AnchorLocation(es)
	if offset > 0 && block.EntityAt(offset-1) != "" {
		span.AddEvent(tracing.EventEntitySkipped)
		log.Debug(log.CatAutoformat, "skipping inline styles inside entity", "block", block.Key(), "offset", offset)
		return es, nil, false
	}

	key := block.Key()
	var tx *draft.Transaction
	var styles []draft.Style
	for _, rule := range x.rules {
		if tx == nil {
			if _, ok := x.find(ctx, rule, block.Text()); !ok {
				continue
			}
			tx = next().Begin()
			span.AddEvent(tracing.EventNextStateMaterialized)
		}

		working := tx.Content().MustBlock(key)
		m, ok := x.find(ctx, rule, working.Text())
		if !ok {
			continue
		}
		span.AddEvent(tracing.EventRuleMatched, trace.WithAttributes(
			attribute.String(tracing.AttrStyles, rule.Style.String()),
			attribute.Int(tracing.AttrOffset, m.Start),
		))
		applyMatch(tx, key, m)
		styles = append(styles, rule.Style)
	}

	if tx == nil || tx.Steps() == 0 {
		return es, nil, false
	}
	return tx.Commit(draft.ChangeInlineStyle), styles, true
}

func (x *Extractor) find(ctx context.Context, rule Rule, text string) (Match, bool) {
	m, ok, err := rule.FindFirst(text)
	if err != nil {
		trace.SpanFromContext(ctx).AddEvent(tracing.EventRuleTimedOut, trace.WithAttributes(
			attribute.String(tracing.AttrErrorMessage, err.Error()),
		))
		log.ErrorErr(log.CatAutoformat, "rule match failed", err, "style", rule.Style, "pattern", rule.Pattern)
		return Match{}, false
	}
	return m, ok
}

// applyMatch strips both delimiter runs of m from block key, adds m.Style to
// the inner text and moves the caret with the text it was next to.
func applyMatch(tx *draft.Transaction, key string, m Match) {
	sel := tx.Selection()
	c := tx.Content()
	c = draft.RemoveRange(c, key, m.InnerEnd(), m.End())
	c = draft.RemoveRange(c, key, m.Start, m.InnerStart)
	c = draft.ApplyInlineStyle(c, key, m.Start, m.Start+m.InnerLength, m.Style)

	if sel.FocusKey == key {
		off := shiftOffset(sel.FocusOffset, m)
		off = max(0, min(off, c.MustBlock(key).Len()))
		sel = sel.CollapseTo(key, off)
	} else {
		sel = sel.CollapseTo(sel.FocusKey, 0)
	}
	tx.Apply(c.WithSelectionAfter(sel))
}

// shiftOffset maps an offset in the matched text to the same position once
// the delimiters are gone. An offset past the match moves left by the
// delimiter length, fullLen - innerLen.
func shiftOffset(off int, m Match) int {
	lead := m.InnerStart - m.Start
	switch {
	case off >= m.End():
		return off - (m.Length - m.InnerLength)
	case off > m.InnerEnd():
		return m.Start + m.InnerLength
	case off > m.InnerStart:
		return off - lead
	case off > m.Start:
		return m.Start
	default:
		return off
	}
}
