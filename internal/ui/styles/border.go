package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Pane renders content inside a rounded border with title embedded in the
// top edge: ╭─ Title ─────╮. Content is clipped to the inner area.
func Pane(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	topBorder := buildTopBorder(title, innerWidth, borderStyle, TitleStyle)
	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	contentLines := strings.Split(content, "\n")
	lines := make([]string, contentHeight)
	for i := range lines {
		var line string
		if i < len(contentLines) {
			line = ansi.Truncate(contentLines[i], innerWidth, "")
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		lines[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	result.WriteString(bottomBorder)
	return result.String()
}

// buildTopBorder renders ╭─ Title ───╮, falling back to a plain edge when
// there is no room for the title.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}
	// "─ " before the title and " ─" after it.
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	shown := Truncate(title, innerWidth-4)
	dashes := max(innerWidth-3-lipgloss.Width(shown), 0)
	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(shown) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, dashes)+borderTopRight)
}

// Truncate clips s to maxWidth cells, ending in "..." when clipped.
func Truncate(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if maxWidth <= 3 && lipgloss.Width(s) > maxWidth {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}
