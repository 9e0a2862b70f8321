package draft

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Block data keys written by the importer and the code-fence transform.
const (
	DataLanguage = "language"
	DataHeading  = "heading"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// FromMarkdown parses markdown into a document snapshot. Paragraph lines,
// headings and list items become one block per line, blockquote paragraphs
// become blockquote blocks, and fenced or indented code becomes a single
// code block. Emphasis maps to ITALIC/BOLD, code spans to CODE,
// strikethrough to STRIKETHROUGH and link text carries the destination as
// its entity reference.
func FromMarkdown(src []byte) Content {
	doc := markdownParser.Parser().Parse(text.NewReader(src))
	im := &importer{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		im.blockNode(n, Normal)
	}
	return NewContent(im.blocks...)
}

type importer struct {
	src    []byte
	blocks []Block

	prefix string
	typ    BlockType
	data   map[string]string
	runes  []rune
	chars  []CharMeta
}

func (im *importer) startLine(typ BlockType) {
	im.typ = typ
	im.runes, im.chars, im.data = nil, nil, nil
	if im.prefix != "" {
		im.appendText(im.prefix, 0, "")
		im.prefix = ""
	}
}

func (im *importer) endLine() {
	b := NewBlock(GenerateKey(), im.typ, "").withContent(im.runes, im.chars)
	for k, v := range im.data {
		b = b.WithData(k, v)
	}
	im.blocks = append(im.blocks, b)
	im.runes, im.chars, im.data = nil, nil, nil
}

func (im *importer) appendText(s string, style StyleSet, entity string) {
	for _, r := range s {
		im.runes = append(im.runes, r)
		im.chars = append(im.chars, CharMeta{Style: style, Entity: entity})
	}
}

func (im *importer) blockNode(n ast.Node, typ BlockType) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		im.startLine(typ)
		im.inlines(n, 0, "")
		im.endLine()
	case *ast.Heading:
		im.startLine(typ)
		im.data = map[string]string{DataHeading: strconv.Itoa(n.Level)}
		im.inlines(n, NewStyleSet(Bold), "")
		im.endLine()
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			im.blockNode(c, Blockquote)
		}
	case *ast.List:
		num := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if n.IsOrdered() {
				marker = strconv.Itoa(num) + ". "
				num++
			}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				im.prefix = marker
				marker = "  "
				im.blockNode(c, typ)
			}
		}
	case *ast.FencedCodeBlock:
		b := NewBlock(GenerateKey(), CodeBlock, im.linesText(n.Lines()))
		if lang := n.Language(im.src); len(lang) > 0 {
			b = b.WithData(DataLanguage, string(lang))
		}
		im.blocks = append(im.blocks, b)
	case *ast.CodeBlock:
		im.blocks = append(im.blocks, NewBlock(GenerateKey(), CodeBlock, im.linesText(n.Lines())))
	case *ast.HTMLBlock:
		for _, line := range strings.Split(im.linesText(n.Lines()), "\n") {
			im.blocks = append(im.blocks, NewBlock(GenerateKey(), typ, line))
		}
	case *ast.ThematicBreak:
		im.blocks = append(im.blocks, NewBlock(GenerateKey(), typ, "---"))
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			im.blockNode(c, typ)
		}
	}
}

func (im *importer) inlines(n ast.Node, style StyleSet, entity string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			value := string(c.Segment.Value(im.src))
			if !style.Has(Code) {
				value = unescapeMarkdown(value)
			}
			im.appendText(value, style, entity)
			if c.SoftLineBreak() || c.HardLineBreak() {
				typ := im.typ
				im.endLine()
				im.startLine(typ)
			}
		case *ast.String:
			im.appendText(string(c.Value), style, entity)
		case *ast.Emphasis:
			s := Italic
			if c.Level >= 2 {
				s = Bold
			}
			im.inlines(c, style.With(s), entity)
		case *ast.CodeSpan:
			im.inlines(c, style.With(Code), entity)
		case *east.Strikethrough:
			im.inlines(c, style.With(Strikethrough), entity)
		case *ast.Link:
			im.inlines(c, style, string(c.Destination))
		case *ast.Image:
			im.inlines(c, style, string(c.Destination))
		case *ast.AutoLink:
			im.appendText(string(c.Label(im.src)), style, string(c.URL(im.src)))
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				im.appendText(string(seg.Value(im.src)), style, entity)
			}
		default:
			im.inlines(c, style, entity)
		}
	}
}

func (im *importer) linesText(lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(im.src))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// markdownPunct are the characters escaped in exported text.
const markdownPunct = "\\*_`~"

func unescapeMarkdown(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune(markdownPunct, runes[i+1]) {
			i++
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}

func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToMarkdown renders a snapshot as markdown. Style runs are wrapped in
// delimiters with surrounding whitespace kept outside, adjacent code blocks
// share one fence and blocks are separated by blank lines. Entities are not
// written.
func ToMarkdown(c Content) string {
	var sb strings.Builder
	blocks := c.Blocks()
	for i := 0; i < len(blocks); i++ {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		b := blocks[i]
		switch b.Type() {
		case CodeBlock:
			lang, _ := b.Data(DataLanguage)
			sb.WriteString("```" + lang + "\n")
			sb.WriteString(b.Text())
			for i+1 < len(blocks) && blocks[i+1].Type() == CodeBlock {
				i++
				sb.WriteString("\n" + blocks[i].Text())
			}
			sb.WriteString("\n```")
		case Blockquote:
			sb.WriteString("> ")
			sb.WriteString(inlineMarkdown(b, 0))
		default:
			if level, ok := b.Data(DataHeading); ok {
				n, _ := strconv.Atoi(level)
				sb.WriteString(strings.Repeat("#", max(n, 1)) + " ")
				sb.WriteString(inlineMarkdown(b, NewStyleSet(Bold)))
				continue
			}
			sb.WriteString(inlineMarkdown(b, 0))
		}
	}
	return sb.String()
}

// inlineMarkdown renders one block's runs, ignoring the styles in mask.
func inlineMarkdown(b Block, mask StyleSet) string {
	var sb strings.Builder
	runes := []rune(b.Text())
	for _, run := range b.StyleRuns() {
		seg := string(runes[run.Start : run.Start+run.Length])
		style := run.Style &^ mask
		if style.IsEmpty() {
			sb.WriteString(escapeMarkdown(seg))
			continue
		}
		core := strings.TrimSpace(seg)
		if core == "" {
			sb.WriteString(seg)
			continue
		}
		lead := seg[:strings.Index(seg, core)]
		trail := seg[len(lead)+len(core):]
		if !style.Has(Code) {
			core = escapeMarkdown(core)
		}
		open, closing := delimiters(style)
		sb.WriteString(lead + open + core + closing + trail)
	}
	return sb.String()
}

func delimiters(s StyleSet) (open, closing string) {
	var marks []string
	if s.Has(Bold) {
		marks = append(marks, "**")
	}
	if s.Has(Italic) {
		marks = append(marks, "_")
	}
	if s.Has(Strikethrough) {
		marks = append(marks, "~~")
	}
	if s.Has(Code) {
		marks = append(marks, "`")
	}
	for i := range marks {
		open += marks[i]
		closing += marks[len(marks)-1-i]
	}
	return open, closing
}
