// Package playground is an interactive terminal editor that runs the
// autoformat session on every keystroke and shows the resulting document,
// the last transform and, optionally, a rendered markdown preview.
package playground

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/draftmark/internal/autoformat"
	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/editor"
	"github.com/zjrosen/draftmark/internal/keys"
	"github.com/zjrosen/draftmark/internal/log"
	"github.com/zjrosen/draftmark/internal/pubsub"
	"github.com/zjrosen/draftmark/internal/ui/markdown"
	"github.com/zjrosen/draftmark/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxLogLines   = 200
	logPaneHeight = 8
)

// Options configures a playground.
type Options struct {
	State      draft.EditorState
	Autoformat config.AutoformatConfig
	UI         config.UIConfig
	// ConfigPath receives ui toggles; empty keeps them in memory.
	ConfigPath string
	Tracer     trace.Tracer
}

// Model is the playground state.
type Model struct {
	ctx        context.Context
	editor     *editor.Editor
	session    *autoformat.Session
	eventSub   <-chan pubsub.Event[autoformat.Event]
	logs       *log.LogListener
	keys       keys.PlaygroundKeyMap
	help       help.Model
	preview    *markdown.Renderer
	ui         config.UIConfig
	configPath string
	zones      string

	status      string
	statusStyle lipgloss.Style
	logLines    []string
	showLog     bool
	width       int
	height      int
}

// New creates a playground on opts.State. Rule compile errors are returned.
func New(ctx context.Context, opts Options) (Model, error) {
	broker := pubsub.NewBroker[autoformat.Event]()
	session, err := autoformat.NewSessionFromConfig(ctx, opts.Autoformat, autoformat.SessionConfig{
		Tracer: opts.Tracer,
		Events: broker,
	})
	if err != nil {
		return Model{}, fmt.Errorf("creating autoformat session: %w", err)
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:         ctx,
		editor:      editor.New(opts.State, session),
		session:     session,
		eventSub:    broker.Subscribe(ctx),
		logs:        log.NewListener(ctx),
		keys:        keys.Playground,
		help:        h,
		ui:          opts.UI,
		configPath:  opts.ConfigPath,
		zones:       zone.NewPrefix(),
		statusStyle: styles.MutedStyle,
		status:      "type markdown; space or enter applies it",
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.resizePreview()
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{pubsub.ListenCmd(m.ctx, m.eventSub)}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Document returns the current editor state.
func (m Model) Document() draft.EditorState { return m.editor.State() }

// SessionState returns the autoformat dispatcher state.
func (m Model) SessionState() autoformat.State { return m.session.State() }

// ShowPreview reports whether the preview pane is visible.
func (m Model) ShowPreview() bool { return m.ui.ShowPreview }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizePreview()
		return m, nil

	case pubsub.Event[autoformat.Event]:
		m.status, m.statusStyle = describe(msg)
		return m, pubsub.ListenCmd(m.ctx, m.eventSub)

	case pubsub.Event[string]:
		m.logLines = append(m.logLines, strings.TrimSuffix(msg.Payload, "\n"))
		if n := len(m.logLines); n > maxLogLines {
			m.logLines = m.logLines[n-maxLogLines:]
		}
		if m.logs == nil {
			return m, nil
		}
		return m, m.logs.Listen()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// handleMouse places the caret where a left click is released in the edit
// pane.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	es := m.editor.State()
	editorWidth, _ := m.paneWidths()
	for i, line := range layoutDocument(es, editorWidth-2) {
		if line.Key == "" {
			continue
		}
		z := zone.Get(m.lineZoneID(i))
		if z == nil || !z.InBounds(msg) {
			continue
		}
		b := es.Content().MustBlock(line.Key)
		m.editor.Select(m.ctx, line.Key, offsetAt(b, line, msg.X-z.StartX))
		return m, nil
	}
	return m, nil
}

func (m Model) lineZoneID(i int) string {
	return m.zones + "line-" + strconv.Itoa(i)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ui.ShowHelp = true
		return m, nil
	case key.Matches(msg, m.keys.TogglePreview):
		m.ui.ShowPreview = !m.ui.ShowPreview
		m.resizePreview()
		m.persistUI()
		return m, nil
	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		m.editor.Exec(ctx, editor.CmdUndo)
		return m, nil
	case key.Matches(msg, m.keys.Redo):
		m.editor.Exec(ctx, editor.CmdRedo)
		return m, nil
	case key.Matches(msg, m.keys.Bold):
		m.editor.Exec(ctx, editor.CmdBold)
		return m, nil
	case key.Matches(msg, m.keys.Italic):
		m.editor.Exec(ctx, editor.CmdItalic)
		return m, nil
	case key.Matches(msg, m.keys.Code):
		m.editor.Exec(ctx, editor.CmdCode)
		return m, nil
	case key.Matches(msg, m.keys.Strikethrough):
		m.editor.Exec(ctx, editor.CmdStrikethrough)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.editor.Exec(ctx, editor.CmdSplitBlock)
	case tea.KeyBackspace:
		m.editor.Exec(ctx, editor.CmdBackspace)
	case tea.KeyDelete:
		m.editor.Exec(ctx, editor.CmdDelete)
	case tea.KeyLeft:
		m.editor.Exec(ctx, editor.CmdMoveLeft)
	case tea.KeyRight:
		m.editor.Exec(ctx, editor.CmdMoveRight)
	case tea.KeyUp:
		m.editor.Exec(ctx, editor.CmdMoveUp)
	case tea.KeyDown:
		m.editor.Exec(ctx, editor.CmdMoveDown)
	case tea.KeyHome:
		m.editor.Exec(ctx, editor.CmdHome)
	case tea.KeyEnd:
		m.editor.Exec(ctx, editor.CmdEnd)
	case tea.KeySpace:
		m.editor.Input(ctx, " ")
	case tea.KeyTab:
		m.editor.Input(ctx, "\t")
	case tea.KeyRunes:
		if msg.Alt {
			return m, nil
		}
		m.editor.Type(ctx, string(msg.Runes))
	}
	return m, nil
}

// persistUI writes the ui section back to the config file.
func (m *Model) persistUI() {
	if m.configPath == "" {
		return
	}
	if err := config.SaveUI(m.configPath, m.ui); err != nil {
		log.ErrorErr(log.CatUI, "saving ui config", err, "path", m.configPath)
		m.status, m.statusStyle = "could not save ui settings: "+err.Error(), styles.ErrorStyle
	}
}

func (m *Model) resizePreview() {
	if !m.ui.ShowPreview {
		m.preview = nil
		return
	}
	_, previewWidth := m.paneWidths()
	r, err := markdown.New(max(previewWidth-2, 10), m.ui.MarkdownStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "creating preview renderer", err, "style", m.ui.MarkdownStyle)
		m.preview = nil
		return
	}
	m.preview = r
}

func (m Model) paneWidths() (editorWidth, previewWidth int) {
	if !m.ui.ShowPreview {
		return m.width, 0
	}
	editorWidth = m.width / 2
	return editorWidth, m.width - editorWidth
}

// View implements tea.Model.
func (m Model) View() string {
	es := m.editor.State()

	footer := m.footer(es)
	bodyHeight := max(m.height-lipgloss.Height(footer), 3)
	if m.showLog {
		bodyHeight = max(bodyHeight-logPaneHeight, 3)
	}

	editorWidth, previewWidth := m.paneWidths()
	doc := strings.Join(m.markLines(layoutDocument(es, editorWidth-2), editorWidth-2), "\n")
	body := styles.Pane(doc, "draftmark", editorWidth, bodyHeight, true)

	if m.ui.ShowPreview {
		rendered := ""
		if m.preview != nil {
			out, err := m.preview.RenderContent(es.Content())
			if err != nil {
				rendered = styles.ErrorStyle.Render(err.Error())
			} else {
				rendered = strings.Trim(out, "\n")
			}
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, body,
			styles.Pane(rendered, "Preview", previewWidth, bodyHeight, false))
	}

	parts := []string{body}
	if m.showLog {
		start := max(len(m.logLines)-(logPaneHeight-2), 0)
		parts = append(parts, styles.Pane(strings.Join(m.logLines[start:], "\n"), "Log", m.width, logPaneHeight, false))
	}
	parts = append(parts, footer)
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// markLines pads each line to width and wraps it in a click zone, so a
// click past the end of the text still lands on its line.
func (m Model) markLines(lines []docLine, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		text := l.Text
		if pad := width - ansi.StringWidth(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		out[i] = zone.Mark(m.lineZoneID(i), text)
	}
	return out
}

func (m Model) footer(es draft.EditorState) string {
	line, col := caretPosition(es)
	pos := styles.MutedStyle.Render(fmt.Sprintf("Ln %d, Col %d · %s · undo %d", line, col, m.session.State(), es.UndoDepth()))
	status := m.statusStyle.Render(wordwrap.String(m.status, max(m.width-2, 10)))

	lines := []string{status, pos}
	if m.ui.ShowHelp {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

// describe turns a transform event into a status line.
func describe(ev pubsub.Event[autoformat.Event]) (string, lipgloss.Style) {
	p := ev.Payload
	if ev.Type == pubsub.RevertedEvent {
		return "reverted last transform", styles.UndoneStyle
	}
	switch p.Kind {
	case autoformat.KindFence:
		if p.Language != "" {
			return fmt.Sprintf("code block (%s) on %s", p.Language, p.Trigger), styles.AppliedStyle
		}
		return fmt.Sprintf("code block on %s", p.Trigger), styles.AppliedStyle
	default:
		return fmt.Sprintf("applied %s on %s", draft.NewStyleSet(p.Styles...), p.Trigger), styles.AppliedStyle
	}
}
