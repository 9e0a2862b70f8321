// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PlaygroundKeyMap holds the playground bindings that are not plain typing.
type PlaygroundKeyMap struct {
	// Editing
	Undo          key.Binding
	Redo          key.Binding
	Bold          key.Binding
	Italic        key.Binding
	Code          key.Binding
	Strikethrough key.Binding

	// View
	TogglePreview key.Binding
	ToggleLog     key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// Playground is the default playground key map.
var Playground = PlaygroundKeyMap{
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("ctrl+z", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "redo"),
	),
	Bold: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "bold"),
	),
	Italic: key.NewBinding(
		key.WithKeys("alt+i"),
		key.WithHelp("alt+i", "italic"),
	),
	Code: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("alt+c", "code"),
	),
	Strikethrough: key.NewBinding(
		key.WithKeys("alt+s"),
		key.WithHelp("alt+s", "strikethrough"),
	),
	TogglePreview: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "preview"),
	),
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "log"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k PlaygroundKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.TogglePreview, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k PlaygroundKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Undo, k.Redo}, // History
		{k.Bold, k.Italic, k.Code, k.Strikethrough},    // Styles
		{k.TogglePreview, k.ToggleLog, k.Help, k.Quit}, // General
	}
}
