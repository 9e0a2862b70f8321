// Package styles contains Lip Gloss style definitions for the playground.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/draftmark/internal/draft"
)

var (
	// Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#89B4FA"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Document (Catppuccin Mocha)
	CodeForegroundColor  = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
	CodeBackgroundColor  = lipgloss.AdaptiveColor{Light: "#EFF1F5", Dark: "#313244"} // surface0
	QuoteColor           = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	GutterColor          = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	LanguageColor        = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
	StrikethroughTxColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#9399B2"} // overlay2

	TextStyle    = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(TextMutedColor)
	GutterStyle  = lipgloss.NewStyle().Foreground(GutterColor)
	QuoteStyle   = lipgloss.NewStyle().Foreground(QuoteColor)
	CaretStyle   = lipgloss.NewStyle().Reverse(true)
	LangStyle    = lipgloss.NewStyle().Foreground(LanguageColor).Italic(true)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusColor)
	AppliedStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	UndoneStyle  = lipgloss.NewStyle().Foreground(StatusWarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(StatusErrorColor)

	codeSpanStyle  = lipgloss.NewStyle().Foreground(CodeForegroundColor).Background(CodeBackgroundColor)
	codeBlockStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Background(CodeBackgroundColor)
)

// Inline returns the style for characters carrying s inside a block of
// type typ.
func Inline(s draft.StyleSet, typ draft.BlockType) lipgloss.Style {
	var st lipgloss.Style
	switch typ {
	case draft.CodeBlock:
		return codeBlockStyle
	case draft.Blockquote:
		st = QuoteStyle
	default:
		st = TextStyle
	}
	if s.Has(draft.Code) {
		st = codeSpanStyle
	}
	if s.Has(draft.Bold) {
		st = st.Bold(true)
	}
	if s.Has(draft.Italic) {
		st = st.Italic(true)
	}
	if s.Has(draft.Strikethrough) {
		st = st.Strikethrough(true).Foreground(StrikethroughTxColor)
	}
	return st
}
