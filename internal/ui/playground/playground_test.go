package playground

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/draftmark/internal/autoformat"
	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/pubsub"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if opts.State.Content().BlockCount() == 0 {
		es := draft.NewEditorState(draft.NewContent(draft.NewBlock("a", draft.Normal, "")))
		opts.State = es.WithSelection(draft.Caret("a", 0))
	}
	if opts.Autoformat.Rules == nil {
		opts.Autoformat = config.Defaults().Autoformat
	}
	if opts.UI.MarkdownStyle == "" {
		opts.UI = config.Defaults().UI
		opts.UI.MarkdownStyle = "notty"
	}
	m, err := New(ctx, opts)
	require.NoError(t, err)
	return m
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

// nextEvent reads the next autoformat event the way Init's command would.
func nextEvent(t *testing.T, m Model) tea.Msg {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg := pubsub.ListenCmd(ctx, m.eventSub)()
	require.NotNil(t, msg, "no autoformat event")
	return msg
}

func TestNew_InvalidRules(t *testing.T) {
	cfg := config.Defaults().Autoformat
	cfg.Rules = []config.RuleConfig{{Style: "BOLD", Pattern: "(unclosed"}}

	_, err := New(context.Background(), Options{
		State:      draft.NewEditorState(draft.FromText("")),
		Autoformat: cfg,
	})
	require.ErrorContains(t, err, "creating autoformat session")
}

func TestUpdate_TypingAppliesAndBackspaceReverts(t *testing.T) {
	m := newModel(t, Options{})

	m = send(m, runes("**bold**"), space)
	require.Equal(t, "bold ", m.Document().Content().PlainText())
	require.Equal(t, autoformat.PendingUndo, m.SessionState())

	m = send(m, nextEvent(t, m))
	require.Equal(t, "applied BOLD on space", m.Status())

	m = send(m, backspace)
	require.Equal(t, "**bold** ", m.Document().Content().PlainText())
	m = send(m, nextEvent(t, m))
	require.Equal(t, "reverted last transform", m.Status())
}

func TestUpdate_FenceOnEnter(t *testing.T) {
	m := newModel(t, Options{})

	m = send(m, runes("```go"), enter, runes("x"), enter, runes("```"), enter)

	c := m.Document().Content()
	require.Equal(t, 2, c.BlockCount())
	require.Equal(t, draft.CodeBlock, c.BlockAt(0).Type())
	require.Equal(t, "x", c.BlockAt(0).Text())

	m = send(m, nextEvent(t, m))
	require.Equal(t, "code block (go) on split-block", m.Status())
}

func TestUpdate_StyleShortcutsAndHistory(t *testing.T) {
	m := newModel(t, Options{})

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlB}, runes("hi"))
	b := m.Document().Content().MustBlock("a")
	require.True(t, b.StyleAt(0).Has(draft.Bold))

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}, Alt: true}, runes("!"))
	b = m.Document().Content().MustBlock("a")
	require.Equal(t, draft.NewStyleSet(draft.Bold, draft.Italic), b.StyleAt(2))

	// Arming a style does not break the typing run.
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	require.Equal(t, "", m.Document().Content().PlainText())
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.Equal(t, "hi!", m.Document().Content().PlainText())
}

func TestUpdate_Navigation(t *testing.T) {
	m := newModel(t, Options{})

	m = send(m, runes("abc"), tea.KeyMsg{Type: tea.KeyHome}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDelete})
	require.Equal(t, "ac", m.Document().Content().PlainText())
	m = send(m, tea.KeyMsg{Type: tea.KeyEnd}, tea.KeyMsg{Type: tea.KeyLeft}, runes("Z"))
	require.Equal(t, "aZc", m.Document().Content().PlainText())
}

func TestUpdate_TogglePreviewPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# keep me\nui:\n  show_preview: false\n"), 0o600))

	m := newModel(t, Options{ConfigPath: path})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30}, runes("hello"))
	require.False(t, m.ShowPreview())

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.True(t, m.ShowPreview())
	require.NotNil(t, m.preview)
	require.Contains(t, m.View(), "Preview")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "show_preview: true")
	require.Contains(t, string(data), "# keep me")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.False(t, m.ShowPreview())
	require.NotContains(t, m.View(), "Preview")
}

func TestUpdate_LogPane(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = send(m, pubsub.Event[string]{Type: pubsub.LoggedEvent, Payload: "2026-01-01T00:00:00 [INFO] [autoformat] hello\n"})
	require.NotContains(t, m.View(), "[autoformat] hello")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Contains(t, m.View(), "[autoformat] hello")
}

func TestUpdate_Quit(t *testing.T) {
	m := newModel(t, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_FitsWindow(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 20}, runes("some text"))

	view := m.View()
	require.LessOrEqual(t, lipgloss.Width(view), 60)
	require.Contains(t, view, "some text")
	require.Contains(t, view, "Ln 1, Col 10")
}

// lineZone renders m until the zone of edit-pane line i is registered.
func lineZone(t *testing.T, m Model, i int) *zone.ZoneInfo {
	t.Helper()
	id := m.lineZoneID(i)
	require.Eventually(t, func() bool {
		_ = m.View()
		z := zone.Get(id)
		return z != nil && !z.IsZero()
	}, time.Second, 10*time.Millisecond)
	return zone.Get(id)
}

func TestUpdate_ClickPlacesCaret(t *testing.T) {
	c := draft.NewContent(
		draft.NewBlock("a", draft.Normal, "**b** "),
		draft.NewBlock("b", draft.Normal, "日本語x"),
	)
	es := draft.NewEditorState(c).WithSelection(draft.Caret("a", 0))
	m := newModel(t, Options{State: es})
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 20})

	z := lineZone(t, m, 1)
	m = send(m, tea.MouseMsg{X: z.StartX + 2, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	require.Equal(t, draft.Caret("b", 1), m.Document().Selection())
}

func TestUpdate_ClickDisarmsPendingUndo(t *testing.T) {
	c := draft.NewContent(
		draft.NewBlock("a", draft.Normal, ""),
		draft.NewBlock("b", draft.Normal, "second"),
	)
	es := draft.NewEditorState(c).WithSelection(draft.Caret("a", 0))
	m := newModel(t, Options{State: es})
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 20}, runes("**bold**"), space)
	require.Equal(t, autoformat.PendingUndo, m.SessionState())

	z := lineZone(t, m, 1)
	m = send(m, tea.MouseMsg{X: z.EndX, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	require.Equal(t, draft.Caret("b", 6), m.Document().Selection())
	require.Equal(t, autoformat.Idle, m.SessionState())

	// Backspace now deletes instead of reverting the transform.
	m = send(m, backspace)
	require.Equal(t, "secon", m.Document().Content().MustBlock("b").Text())
	require.Equal(t, "bold ", m.Document().Content().MustBlock("a").Text())
}

func TestUpdate_IgnoresOtherMouseEvents(t *testing.T) {
	c := draft.NewContent(
		draft.NewBlock("a", draft.Normal, "first"),
		draft.NewBlock("b", draft.Normal, "second"),
	)
	es := draft.NewEditorState(c).WithSelection(draft.Caret("a", 0))
	m := newModel(t, Options{State: es})
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	z := lineZone(t, m, 1)

	m = send(m,
		tea.MouseMsg{X: z.StartX, Y: z.StartY, Button: tea.MouseButtonRight, Action: tea.MouseActionRelease},
		tea.MouseMsg{X: z.StartX, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
		tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease},
	)

	require.Equal(t, draft.Caret("a", 0), m.Document().Selection())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		ev   pubsub.Event[autoformat.Event]
		want string
	}{
		{
			name: "inline",
			ev: pubsub.Event[autoformat.Event]{Type: pubsub.AppliedEvent, Payload: autoformat.Event{
				Kind: autoformat.KindInline, Trigger: autoformat.TriggerSpace, Styles: []draft.Style{draft.Bold, draft.Italic},
			}},
			want: "applied BOLD|ITALIC on space",
		},
		{
			name: "fence without language",
			ev: pubsub.Event[autoformat.Event]{Type: pubsub.AppliedEvent, Payload: autoformat.Event{
				Kind: autoformat.KindFence, Trigger: autoformat.TriggerSplitBlock,
			}},
			want: "code block on split-block",
		},
		{
			name: "reverted",
			ev:   pubsub.Event[autoformat.Event]{Type: pubsub.RevertedEvent, Payload: autoformat.Event{Kind: autoformat.KindUndo}},
			want: "reverted last transform",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := describe(tt.ev)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPlayground_Teatest(t *testing.T) {
	m := newModel(t, Options{})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	tm.Type("_hi_ ")
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("applied ITALIC on space"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.Equal(t, "hi ", final.Document().Content().PlainText())
	require.True(t, final.Document().Content().MustBlock("a").StyleAt(0).Has(draft.Italic))
}
