package playground

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/draftmark/internal/draft"
	"github.com/zjrosen/draftmark/internal/ui/styles"
)

const (
	quotePrefix = "│ "
	codeGutter  = "▏ "
)

// docLine is one rendered terminal line of the edit pane. Key is empty for
// lines that hold no text, such as a code block's language label.
type docLine struct {
	Text   string
	Key    string
	Start  int // rune offset in the block where the line starts
	Indent int // cells taken by the prefix before the text
}

// renderDocument renders every block of es as terminal lines no wider than
// width, with the caret shown as a reversed cell.
func renderDocument(es draft.EditorState, width int) []string {
	lines := layoutDocument(es, width)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func layoutDocument(es draft.EditorState, width int) []docLine {
	c := es.Content()
	sel := es.Selection()
	var lines []docLine
	inCode := false
	for _, b := range c.Blocks() {
		caret := -1
		if sel.HasFocus && sel.FocusKey == b.Key() {
			caret = sel.FocusOffset
		}

		if b.Type() == draft.CodeBlock && !inCode {
			if lang, ok := b.Data(draft.DataLanguage); ok {
				lines = append(lines, docLine{Text: styles.GutterStyle.Render(codeGutter) + styles.LangStyle.Render(lang)})
			}
		}
		inCode = b.Type() == draft.CodeBlock

		indent := runewidth.StringWidth(blockPrefix(b))
		starts := lineStarts(b.Text())
		for i, line := range renderBlock(b, caret) {
			lines = append(lines, docLine{
				Text:   ansi.Truncate(line, width, "…"),
				Key:    b.Key(),
				Start:  starts[i],
				Indent: indent,
			})
		}
	}
	return lines
}

// offsetAt maps a cell column inside line to a rune offset in b. Clicks on
// the prefix land on the line start, clicks past the text on its end.
func offsetAt(b draft.Block, line docLine, col int) int {
	text := []rune(b.Text())
	off := line.Start
	x := line.Indent
	for off < len(text) && text[off] != '\n' {
		w := runewidth.RuneWidth(text[off])
		if col < x+w {
			return off
		}
		x += w
		off++
	}
	return off
}

// lineStarts returns the rune offset of every "\n"-separated line of text.
func lineStarts(text string) []int {
	starts := []int{0}
	for i, r := range []rune(text) {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func blockPrefix(b draft.Block) string {
	switch b.Type() {
	case draft.Blockquote:
		return quotePrefix
	case draft.CodeBlock:
		return codeGutter
	}
	if level, ok := b.Data(draft.DataHeading); ok {
		if n, err := strconv.Atoi(level); err == nil && n > 0 {
			return strings.Repeat("#", n) + " "
		}
	}
	return ""
}

// renderBlock renders one block. Code blocks produce one line per "\n".
func renderBlock(b draft.Block, caret int) []string {
	prefix := blockPrefix(b)
	switch {
	case prefix == "":
	case b.Type() == draft.Blockquote:
		prefix = styles.QuoteStyle.Render(prefix)
	case b.Type() == draft.CodeBlock:
		prefix = styles.GutterStyle.Render(prefix)
	default:
		prefix = styles.MutedStyle.Render(prefix)
	}

	text := []rune(b.Text())
	var lines []string
	var sb strings.Builder
	sb.WriteString(prefix)

	var seg []rune
	var segStyle lipgloss.Style
	flush := func() {
		if len(seg) > 0 {
			sb.WriteString(segStyle.Render(string(seg)))
			seg = seg[:0]
		}
	}

	for i, r := range text {
		if r == '\n' {
			flush()
			if i == caret {
				sb.WriteString(styles.CaretStyle.Render(" "))
			}
			lines = append(lines, sb.String())
			sb.Reset()
			sb.WriteString(prefix)
			continue
		}
		st := styles.Inline(b.StyleAt(i), b.Type())
		if i == caret {
			flush()
			sb.WriteString(st.Reverse(true).Render(string(r)))
			continue
		}
		if len(seg) > 0 && !sameStyle(b, i, i-1) {
			flush()
		}
		if len(seg) == 0 {
			segStyle = st
		}
		seg = append(seg, r)
	}
	flush()
	if caret == len(text) {
		sb.WriteString(styles.CaretStyle.Render(" "))
	}
	return append(lines, sb.String())
}

func sameStyle(b draft.Block, i, j int) bool {
	return b.StyleAt(i) == b.StyleAt(j)
}

// caretPosition returns the 1-based line and display column of the caret.
// Columns count terminal cells, so wide runes advance by two.
func caretPosition(es draft.EditorState) (line, col int) {
	sel := es.Selection()
	c := es.Content()
	for _, b := range c.Blocks() {
		text := []rune(b.Text())
		if b.Key() != sel.FocusKey {
			line += strings.Count(b.Text(), "\n") + 1
			continue
		}
		before := text[:min(sel.FocusOffset, len(text))]
		lineStart := 0
		for i, r := range before {
			if r == '\n' {
				line++
				lineStart = i + 1
			}
		}
		return line + 1, runewidth.StringWidth(string(before[lineStart:])) + 1
	}
	return line, 1
}
