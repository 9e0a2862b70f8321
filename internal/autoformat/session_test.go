package autoformat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/editor"
	"github.com/zjrosen/draftmark/internal/pubsub"
	"github.com/zjrosen/draftmark/internal/tracing"
)

func newEditor(s *Session) *editor.Editor {
	es := draft.NewEditorState(draft.NewContent(draft.NewBlock("a", draft.Normal, "")))
	return editor.New(es.WithSelection(draft.Caret("a", 0)), s)
}

func TestSession_InlineRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "**bold**")
	before := ed.State()
	ed.Type(ctx, " ")

	require.Equal(t, PendingUndo, s.State())
	b := ed.State().Content().MustBlock("a")
	require.Equal(t, "bold ", b.Text())
	require.Equal(t, draft.NewStyleSet(draft.Bold), b.StyleAt(3))
	require.True(t, b.StyleAt(4).IsEmpty())
	require.Equal(t, draft.Caret("a", 5), ed.State().Selection())

	require.True(t, ed.Exec(ctx, editor.CmdBackspace))

	want := editor.AddSpace(before)
	require.Equal(t, Idle, s.State())
	require.Equal(t, want.Content().Blocks(), ed.State().Content().Blocks())
	require.Equal(t, want.Selection(), ed.State().Selection())
	require.Equal(t, draft.Caret("a", 9), ed.State().Selection())
}

func TestSession_PendingUndoIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "_x_ ")
	require.Equal(t, PendingUndo, s.State())

	ed.Exec(ctx, editor.CmdBackspace)
	require.Equal(t, "_x_ ", ed.State().Content().PlainText())

	ed.Exec(ctx, editor.CmdBackspace)
	require.Equal(t, "_x_", ed.State().Content().PlainText())
	require.Equal(t, Idle, s.State())
}

func TestSession_OtherEditDisarmsUndo(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "**b** x")
	require.Equal(t, Idle, s.State())

	ed.Exec(ctx, editor.CmdBackspace)
	require.Equal(t, "b ", ed.State().Content().PlainText())
	require.True(t, ed.State().Content().MustBlock("a").StyleAt(0).Has(draft.Bold))
}

func TestSession_CaretMoveDisarmsUndo(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "`c` ")
	require.Equal(t, PendingUndo, s.State())
	ed.Exec(ctx, editor.CmdMoveLeft)
	require.Equal(t, Idle, s.State())
}

func TestSession_UnmatchedFallsThrough(t *testing.T) {
	s := NewSession(SessionConfig{})
	es := stateAt("nothing here", 12)
	calls := 0

	out, ok := s.HandleSpace(context.Background(), es, func() draft.EditorState {
		calls++
		return editor.AddSpace(es)
	})

	require.False(t, ok)
	require.Equal(t, es, out)
	require.Zero(t, calls)
	require.Equal(t, Idle, s.State())

	out, ok = s.HandleBackspace(context.Background(), es)
	require.False(t, ok)
	require.Equal(t, es, out)
}

func TestSession_SplitBlockTrigger(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "~~done~~\n")

	require.Equal(t, PendingUndo, s.State())
	c := ed.State().Content()
	require.Equal(t, 2, c.BlockCount())
	require.Equal(t, "done", c.BlockAt(0).Text())
	require.True(t, c.BlockAt(0).StyleAt(0).Has(draft.Strikethrough))
	require.Equal(t, c.BlockAt(1).Key(), ed.State().Selection().FocusKey)
	require.Zero(t, ed.State().Selection().FocusOffset)

	ed.Exec(ctx, editor.CmdBackspace)
	require.Equal(t, []string{"~~done~~", ""}, texts(ed.State()))
}

func TestSession_FenceThroughEditor(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "```\nlet x = 1;\n")
	require.Equal(t, Idle, s.State())
	ed.Type(ctx, "```\n")

	require.Equal(t, PendingUndo, s.State())
	c := ed.State().Content()
	require.Equal(t, []string{"let x = 1;", ""}, texts(ed.State()))
	require.Equal(t, draft.CodeBlock, c.BlockAt(0).Type())
	require.Equal(t, draft.Caret(c.BlockAt(1).Key(), 0), ed.State().Selection())

	// Enter inside the code block inserts a line break.
	ed.Exec(ctx, editor.CmdMoveUp)
	ed.Exec(ctx, editor.CmdEnd)
	ed.Type(ctx, "\nx")
	require.Equal(t, "let x = 1;\nx", ed.State().Content().BlockAt(0).Text())
	require.Equal(t, 2, ed.State().Content().BlockCount())
}

func TestSession_FenceUndo(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{})
	ed := newEditor(s)

	ed.Type(ctx, "```\nx\n```")
	before := ed.State()
	ed.Type(ctx, "\n")
	require.Equal(t, PendingUndo, s.State())

	ed.Exec(ctx, editor.CmdBackspace)
	require.Equal(t, before.Content().Blocks(), ed.State().Content().Blocks())
	require.Equal(t, before.Selection(), ed.State().Selection())
}

func TestSession_InnerHandlerWins(t *testing.T) {
	ctx := context.Background()
	inner := editor.HandlerFuncs{
		BeforeInput: func(_ context.Context, chars string, es draft.EditorState) (draft.EditorState, bool) {
			if chars != " " {
				return es, false
			}
			return editor.InsertCharacters(es, "·"), true
		},
	}
	s := NewSession(SessionConfig{Inner: inner})
	ed := newEditor(s)

	ed.Type(ctx, "**b** ")

	require.Equal(t, "**b**·", ed.State().Content().PlainText())
	require.Equal(t, Idle, s.State())
}

func TestSession_Disabled(t *testing.T) {
	ctx := context.Background()
	s := NewSession(SessionConfig{Disabled: true})
	ed := newEditor(s)

	ed.Type(ctx, "**b** ")

	require.Equal(t, "**b** ", ed.State().Content().PlainText())
	require.Equal(t, Idle, s.State())
}

func TestSession_PublishesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[Event]()
	defer broker.Close()
	ch := broker.Subscribe(ctx)

	s := NewSession(SessionConfig{Events: broker})
	ed := newEditor(s)
	ed.Type(ctx, "**b** ")
	ed.Exec(ctx, editor.CmdBackspace)

	receive := func() pubsub.Event[Event] {
		select {
		case ev := <-ch:
			return ev
		case <-time.After(time.Second):
			require.FailNow(t, "timeout waiting for event")
		}
		return pubsub.Event[Event]{}
	}

	applied := receive()
	require.Equal(t, pubsub.AppliedEvent, applied.Type)
	require.Equal(t, KindInline, applied.Payload.Kind)
	require.Equal(t, TriggerSpace, applied.Payload.Trigger)
	require.Equal(t, []draft.Style{draft.Bold}, applied.Payload.Styles)
	require.Equal(t, "a", applied.Payload.BlockKey)

	reverted := receive()
	require.Equal(t, pubsub.RevertedEvent, reverted.Type)
	require.Equal(t, KindUndo, reverted.Payload.Kind)
}

func TestSession_RecordsSpans(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	s := NewSession(SessionConfig{Tracer: tp.Tracer("test")})
	ed := newEditor(s)
	ed.Type(ctx, "_i_ ")

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, span := range sr.Ended() {
		spans[span.Name()] = span
	}
	require.Contains(t, spans, tracing.SpanDispatch)
	require.Contains(t, spans, tracing.SpanInline)
	require.NotContains(t, spans, tracing.SpanFence)

	dispatch := spans[tracing.SpanDispatch]
	require.Contains(t, dispatch.Attributes(), attribute.String(tracing.AttrOutcome, string(KindInline)))
	require.Contains(t, dispatch.Attributes(), attribute.String(tracing.AttrTrigger, string(TriggerSpace)))

	var events []string
	for _, ev := range dispatch.Events() {
		events = append(events, ev.Name)
	}
	require.Contains(t, events, tracing.EventUndoArmed)

	inline := spans[tracing.SpanInline]
	require.Equal(t, dispatch.SpanContext().SpanID(), inline.Parent().SpanID())
	var inlineEvents []string
	for _, ev := range inline.Events() {
		inlineEvents = append(inlineEvents, ev.Name)
	}
	require.Contains(t, inlineEvents, tracing.EventNextStateMaterialized)
	require.Contains(t, inlineEvents, tracing.EventRuleMatched)
}

func TestNewSessionFromConfig(t *testing.T) {
	cfg := config.Defaults().Autoformat

	s, err := NewSessionFromConfig(context.Background(), cfg, SessionConfig{})
	require.NoError(t, err)
	require.Len(t, s.extractor.Rules(), 4)
	require.Equal(t, DefaultFenceMarker, s.fence.Marker())
	require.False(t, s.disabled)

	cfg.Rules = []config.RuleConfig{{Style: "BOLD", Pattern: "(broken"}}
	_, err = NewSessionFromConfig(context.Background(), cfg, SessionConfig{})
	require.Error(t, err)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "pending-undo", PendingUndo.String())
}
