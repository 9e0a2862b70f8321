// Package autoformat converts markdown typed into a rich-text editor into
// styles as the user types. A Session sits in front of the editor's
// default behavior: on space or split-block it runs the inline style
// extractor and then the code-fence detector, and a backspace immediately
// after a successful transform undoes it.
package autoformat

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/editor"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/pubsub"
	"github.com/zjrosen/draftmark/internal/tracing"
)

// State is the dispatcher state.
type State int

const (
	Idle State = iota
	PendingUndo
)

func (s State) String() string {
	if s == PendingUndo {
		return "pending-undo"
	}
	return "idle"
}

// Trigger names the input that started a dispatch.
type Trigger string

const (
	TriggerSpace      Trigger = "space"
	TriggerSplitBlock Trigger = "split-block"
	TriggerBackspace  Trigger = "backspace"
)

// Kind names what a dispatch did.
type Kind string

const (
	KindInline Kind = "inline"
	KindFence  Kind = "fence"
	KindUndo   Kind = "undo"
)

// Event describes an applied or reverted transform.
type Event struct {
	Kind     Kind
	Trigger  Trigger
	Styles   []draft.Style
	BlockKey string
	Language string
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Rules       []Rule
	FenceMarker string
	// Disabled turns the session into a pass-through to Inner.
	Disabled bool
	// Inner is consulted before autoformatting and wins when it handles
	// the input. Nil handles nothing.
	Inner editor.Handler
	// Tracer creates dispatch spans. Nil uses a no-op tracer.
	Tracer trace.Tracer
	// Events receives applied/reverted events. Optional.
	Events pubsub.Publisher[Event]
}

// Session is the transform dispatcher for one editor. It implements
// editor.Handler and is not safe for concurrent use.
type Session struct {
	extractor *Extractor
	fence     *FenceDetector
	inner     editor.Handler
	tracer    trace.Tracer
	events    pubsub.Publisher[Event]
	disabled  bool
	state     State
}

var _ editor.Handler = (*Session)(nil)

// NewSession creates an idle session. Nil rules mean DefaultRules.
func NewSession(cfg SessionConfig) *Session {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	inner := cfg.Inner
	if inner == nil {
		inner = editor.NopHandler{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Session{
		extractor: NewExtractor(rules),
		fence:     NewFenceDetector(cfg.FenceMarker),
		inner:     inner,
		tracer:    tracer,
		events:    cfg.Events,
		disabled:  cfg.Disabled,
	}
}

// NewSessionFromConfig compiles the configured rules and creates a session.
// Compile errors name the offending rule.
func NewSessionFromConfig(ctx context.Context, cfg config.AutoformatConfig, base SessionConfig) (*Session, error) {
	rules, err := CompileRules(ctx, cfg.Rules, cfg.MatchTimeout, nil)
	if err != nil {
		return nil, err
	}
	base.Rules = rules
	base.FenceMarker = cfg.FenceMarker
	base.Disabled = !cfg.Enabled
	return NewSession(base), nil
}

// State returns the dispatcher state.
func (s *Session) State() State { return s.state }

// HandleSpace runs the transforms for a typed space. next is the state the
// editor would produce by inserting the space; it is evaluated only when a
// rule matches.
func (s *Session) HandleSpace(ctx context.Context, es draft.EditorState, next func() draft.EditorState) (draft.EditorState, bool) {
	return s.dispatch(ctx, TriggerSpace, es, next)
}

// HandleSplitBlock runs the transforms for a split-block command.
func (s *Session) HandleSplitBlock(ctx context.Context, es draft.EditorState, next func() draft.EditorState) (draft.EditorState, bool) {
	return s.dispatch(ctx, TriggerSplitBlock, es, next)
}

// HandleBackspace undoes the last transform when it was the last change.
// The pending undo is single use.
func (s *Session) HandleBackspace(ctx context.Context, es draft.EditorState) (draft.EditorState, bool) {
	if s.state != PendingUndo {
		return es, false
	}
	_, span := s.tracer.Start(ctx, tracing.SpanDispatch, trace.WithAttributes(
		attribute.String(tracing.AttrTrigger, string(TriggerBackspace)),
		attribute.String(tracing.AttrOutcome, string(KindUndo)),
	))
	defer span.End()
	span.AddEvent(tracing.EventUndoConsumed)

	s.state = Idle
	out := es.Undo()
	log.Info(log.CatAutoformat, "transform undone", "block", out.Selection().FocusKey)
	s.publish(pubsub.RevertedEvent, Event{Kind: KindUndo, Trigger: TriggerBackspace, BlockKey: out.Selection().FocusKey})
	return out, true
}

// HandleBeforeInput implements editor.Handler.
func (s *Session) HandleBeforeInput(ctx context.Context, chars string, es draft.EditorState) (draft.EditorState, bool) {
	if out, ok := s.inner.HandleBeforeInput(ctx, chars, es); ok {
		s.state = Idle
		return out, true
	}
	if chars != " " {
		return es, false
	}
	return s.HandleSpace(ctx, es, func() draft.EditorState { return editor.AddSpace(es) })
}

// HandleKeyCommand implements editor.Handler.
func (s *Session) HandleKeyCommand(ctx context.Context, cmd editor.Command, es draft.EditorState) (draft.EditorState, bool) {
	if out, ok := s.inner.HandleKeyCommand(ctx, cmd, es); ok {
		s.state = Idle
		return out, true
	}
	switch cmd {
	case editor.CmdSplitBlock:
		return s.HandleSplitBlock(ctx, es, func() draft.EditorState {
			return editor.SplitBlock(es, draft.GenerateKey())
		})
	case editor.CmdBackspace:
		return s.HandleBackspace(ctx, es)
	}
	return es, false
}

// HandleChange implements editor.Handler. Any change the session did not
// produce itself disarms the pending undo.
func (s *Session) HandleChange(ctx context.Context, es draft.EditorState) {
	s.state = Idle
	s.inner.HandleChange(ctx, es)
}

func (s *Session) dispatch(ctx context.Context, trigger Trigger, es draft.EditorState, next func() draft.EditorState) (draft.EditorState, bool) {
	if s.disabled {
		return es, false
	}

	block, offset := AnchorLocation(es)
	ctx, span := s.tracer.Start(ctx, tracing.SpanDispatch, trace.WithAttributes(
		attribute.String(tracing.AttrTrigger, string(trigger)),
		attribute.String(tracing.AttrBlockKey, block.Key()),
		attribute.String(tracing.AttrBlockType, string(block.Type())),
		attribute.Int(tracing.AttrOffset, offset),
		attribute.String(tracing.AttrState, s.state.String()),
	))
	defer span.End()
	start := time.Now()

	if out, styles, ok := s.runInline(ctx, es, next); ok {
		s.arm(span)
		span.SetAttributes(attribute.String(tracing.AttrOutcome, string(KindInline)))
		log.Info(log.CatAutoformat, "inline styles applied",
			"trigger", trigger, "styles", draft.NewStyleSet(styles...), "block", block.Key(), "took", time.Since(start))
		s.publish(pubsub.AppliedEvent, Event{Kind: KindInline, Trigger: trigger, Styles: styles, BlockKey: block.Key()})
		return out, true
	}

	if out, res, ok := s.runFence(ctx, es); ok {
		s.arm(span)
		span.SetAttributes(attribute.String(tracing.AttrOutcome, string(KindFence)))
		log.Info(log.CatAutoformat, "code block created",
			"trigger", trigger, "block", res.CodeKey, "merged", res.Merged, "took", time.Since(start))
		s.publish(pubsub.AppliedEvent, Event{Kind: KindFence, Trigger: trigger, BlockKey: res.CodeKey, Language: res.Language})
		return out, true
	}

	span.SetAttributes(attribute.String(tracing.AttrOutcome, "none"))
	return es, false
}

func (s *Session) runInline(ctx context.Context, es draft.EditorState, next func() draft.EditorState) (draft.EditorState, []draft.Style, bool) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanInline)
	defer span.End()
	out, styles, ok := s.extractor.Extract(ctx, es, next)
	if ok {
		span.SetStatus(codes.Ok, "")
	}
	return out, styles, ok
}

func (s *Session) runFence(ctx context.Context, es draft.EditorState) (draft.EditorState, FenceResult, bool) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanFence)
	defer span.End()
	out, res, ok := s.fence.Detect(ctx, es)
	if ok {
		span.SetStatus(codes.Ok, "")
	}
	return out, res, ok
}

func (s *Session) arm(span trace.Span) {
	s.state = PendingUndo
	span.AddEvent(tracing.EventUndoArmed)
}

func (s *Session) publish(typ pubsub.EventType, ev Event) {
	if s.events != nil {
		s.events.Publish(typ, ev)
	}
}
