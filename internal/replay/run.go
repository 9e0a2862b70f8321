package replay

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/draftmark/internal/autoformat"
	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/editor"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/pubsub"
	"github.com/zjrosen/draftmark/internal/tracing"
)

// Options configures a run.
type Options struct {
	Autoformat   config.AutoformatConfig
	HistoryLimit int
	// Tracer wraps the run in a replay span. Nil uses a no-op tracer.
	Tracer trace.Tracer
}

// Result is the outcome of a run.
type Result struct {
	Seed   draft.EditorState
	Final  draft.EditorState
	Events []Event
}

// Event is one autoformat event in the order it happened.
type Event struct {
	Step  int
	Type  pubsub.EventType
	Event autoformat.Event
}

// recorder collects session events synchronously.
type recorder struct {
	step   int
	events []Event
}

func (r *recorder) Publish(typ pubsub.EventType, ev autoformat.Event) {
	r.events = append(r.events, Event{Step: r.step, Type: typ, Event: ev})
}

// Run feeds the script's steps to a fresh editor and session.
func Run(ctx context.Context, s Script, opts Options) (Result, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	ctx, span := tracer.Start(ctx, tracing.SpanReplay, trace.WithAttributes(
		attribute.Int("replay.steps", len(s.Steps)),
	))
	defer span.End()

	seed, err := s.Document(opts.HistoryLimit)
	if err != nil {
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		return Result{}, err
	}

	rec := &recorder{}
	session, err := autoformat.NewSessionFromConfig(ctx, opts.Autoformat, autoformat.SessionConfig{
		Tracer: tracer,
		Events: rec,
	})
	if err != nil {
		return Result{}, fmt.Errorf("creating autoformat session: %w", err)
	}

	ed := editor.New(seed, session)
	for i, step := range s.Steps {
		rec.step = i
		for n := 0; n < max(step.Repeat, 1); n++ {
			if step.Key != "" {
				cmd, err := editor.ParseCommand(step.Key)
				if err != nil {
					return Result{}, fmt.Errorf("step %d: %w", i, err)
				}
				ed.Exec(ctx, cmd)
				continue
			}
			ed.Type(ctx, step.Type)
		}
	}

	log.Info(log.CatReplay, "replay finished", "steps", len(s.Steps), "events", len(rec.events))
	return Result{Seed: seed, Final: ed.State(), Events: rec.events}, nil
}

// Snapshot is the YAML form of a result.
type Snapshot struct {
	Blocks    []BlockSnapshot `yaml:"blocks"`
	Selection Position        `yaml:"selection"`
	UndoDepth int             `yaml:"undo_depth"`
	Events    []string        `yaml:"events,omitempty"`
}

// BlockSnapshot describes one block. Block keys are random and left out.
type BlockSnapshot struct {
	Type   string            `yaml:"type"`
	Text   string            `yaml:"text"`
	Data   map[string]string `yaml:"data,omitempty"`
	Styles []RunSnapshot     `yaml:"styles,omitempty"`
}

// RunSnapshot is one styled run; unstyled runs are omitted.
type RunSnapshot struct {
	Start  int    `yaml:"start"`
	Length int    `yaml:"length"`
	Style  string `yaml:"style"`
}

// Snapshot describes the final document.
func (r Result) Snapshot() Snapshot {
	c := r.Final.Content()
	snap := Snapshot{UndoDepth: r.Final.UndoDepth()}
	for _, b := range c.Blocks() {
		bs := BlockSnapshot{Type: string(b.Type()), Text: b.Text(), Data: b.DataMap()}
		for _, run := range b.StyleRuns() {
			if run.Style.IsEmpty() {
				continue
			}
			bs.Styles = append(bs.Styles, RunSnapshot{Start: run.Start, Length: run.Length, Style: run.Style.String()})
		}
		snap.Blocks = append(snap.Blocks, bs)
	}
	sel := r.Final.Selection()
	snap.Selection = Position{Block: c.IndexOf(sel.FocusKey), Offset: sel.FocusOffset}
	for _, ev := range r.Events {
		snap.Events = append(snap.Events, describe(ev))
	}
	return snap
}

func describe(ev Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "step %d: %s %s on %s", ev.Step, ev.Type, ev.Event.Kind, ev.Event.Trigger)
	if len(ev.Event.Styles) > 0 {
		fmt.Fprintf(&sb, " (%s)", draft.NewStyleSet(ev.Event.Styles...))
	}
	if ev.Event.Language != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Event.Language)
	}
	return sb.String()
}

// YAML renders the snapshot.
func (r Result) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return out, nil
}

// Markdown exports the final document.
func (r Result) Markdown() string {
	return draft.ToMarkdown(r.Final.Content())
}

// Diff shows how the plain text changed, word-diff style: deletions as
// [-text-] and insertions as {+text+}.
func (r Result) Diff() string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(r.Seed.Content().PlainText(), r.Final.Content().PlainText(), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
