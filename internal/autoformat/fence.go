package autoformat

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/tracing"
)

// DefaultFenceMarker opens and closes a code block.
const DefaultFenceMarker = "```"

// FenceDetector turns the blocks between two fence lines into a code block
// when the closing fence is completed.
type FenceDetector struct {
	marker string
}

// NewFenceDetector creates a detector for marker; empty means "```".
func NewFenceDetector(marker string) *FenceDetector {
	if marker == "" {
		marker = DefaultFenceMarker
	}
	return &FenceDetector{marker: marker}
}

func (d *FenceDetector) Marker() string { return d.marker }

// FenceResult describes an applied fence transform.
type FenceResult struct {
	CodeKey  string
	CloseKey string
	Language string
	Merged   int
}

// Detect fires when the caret's block starts with the marker and the caret
// is past it. It walks back to the nearest earlier block starting with the
// marker; the opening block is removed, the blocks between are merged into
// one code block and the closing block is cleared and receives the caret.
// The info string after the opening marker becomes the code block's
// language. The change is recorded as change-block-type.
func (d *FenceDetector) Detect(ctx context.Context, es draft.EditorState) (draft.EditorState, FenceResult, bool) {
	closing, offset := AnchorLocation(es)
	if !strings.HasPrefix(closing.Text(), d.marker) || offset < utf8.RuneCountInString(d.marker) {
		return es, FenceResult{}, false
	}

	c := es.Content()
	closeIdx := c.IndexOf(closing.Key())
	openIdx := -1
	for i := closeIdx - 1; i >= 0; i-- {
		if strings.HasPrefix(c.BlockAt(i).Text(), d.marker) {
			openIdx = i
			break
		}
	}
	if openIdx < 0 {
		return es, FenceResult{}, false
	}

	opening := c.BlockAt(openIdx)
	res := FenceResult{
		CloseKey: closing.Key(),
		Language: strings.TrimSpace(strings.TrimPrefix(opening.Text(), d.marker)),
		Merged:   closeIdx - openIdx - 1,
	}

	c = draft.ClearBlock(c, closing.Key())
	if res.Merged > 0 {
		first, last := c.BlockAt(openIdx+1).Key(), c.BlockAt(closeIdx-1).Key()
		c = draft.MergeBlocks(c, first, last, draft.CodeBlock, "\n")
		c = c.WithoutBlock(opening.Key())
		res.CodeKey = first
	} else {
		c = draft.ClearBlock(c, opening.Key())
		c = draft.SetBlockType(c, opening.Key(), opening.Key(), draft.CodeBlock)
		res.CodeKey = opening.Key()
	}

	code := c.MustBlock(res.CodeKey).WithoutData()
	if res.Language != "" {
		code = code.WithData(draft.DataLanguage, res.Language)
	}
	c = c.WithBlock(code)
	c = c.WithSelectionAfter(es.Selection().CollapseTo(closing.Key(), 0))

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(tracing.AttrBlockKey, res.CodeKey),
		attribute.String(tracing.AttrBlockType, string(draft.CodeBlock)),
	)
	log.Debug(log.CatAutoformat, "fence closed", "code", res.CodeKey, "merged", res.Merged, "language", res.Language)

	return draft.Push(es, c, draft.ChangeBlockType), res, true
}
