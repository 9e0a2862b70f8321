package draft

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromMarkdown_InlineStyles(t *testing.T) {
	c := FromMarkdown([]byte("**bold** and _ital_"))
	require.Equal(t, 1, c.BlockCount())

	b := c.FirstBlock()
	require.Equal(t, "bold and ital", b.Text())
	require.Equal(t, []StyleRun{
		{Start: 0, Length: 4, Style: NewStyleSet(Bold)},
		{Start: 4, Length: 5, Style: 0},
		{Start: 9, Length: 4, Style: NewStyleSet(Italic)},
	}, b.StyleRuns())
}

func TestFromMarkdown_CodeAndStrike(t *testing.T) {
	b := FromMarkdown([]byte("~~gone~~ `x`")).FirstBlock()
	require.Equal(t, "gone x", b.Text())
	require.True(t, b.StyleAt(0).Has(Strikethrough))
	require.True(t, b.StyleAt(4).IsEmpty())
	require.True(t, b.StyleAt(5).Has(Code))
}

func TestFromMarkdown_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		texts []string
		types []BlockType
	}{
		{
			name:  "soft breaks split lines",
			src:   "line one\nline two",
			texts: []string{"line one", "line two"},
			types: []BlockType{Normal, Normal},
		},
		{
			name:  "blockquote",
			src:   "> quoted",
			texts: []string{"quoted"},
			types: []BlockType{Blockquote},
		},
		{
			name:  "bullet list",
			src:   "- a\n- b",
			texts: []string{"- a", "- b"},
			types: []BlockType{Normal, Normal},
		},
		{
			name:  "ordered list",
			src:   "3. c\n4. d",
			texts: []string{"3. c", "4. d"},
			types: []BlockType{Normal, Normal},
		},
		{
			name:  "fenced code",
			src:   "```go\nfmt.Println()\nx := 1\n```",
			texts: []string{"fmt.Println()\nx := 1"},
			types: []BlockType{CodeBlock},
		},
		{
			name:  "empty document",
			src:   "",
			texts: []string{""},
			types: []BlockType{Normal},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromMarkdown([]byte(tt.src))
			var texts []string
			var types []BlockType
			for _, b := range c.Blocks() {
				texts = append(texts, b.Text())
				types = append(types, b.Type())
			}
			require.Equal(t, tt.texts, texts)
			require.Equal(t, tt.types, types)
		})
	}
}

func TestFromMarkdown_FenceLanguage(t *testing.T) {
	b := FromMarkdown([]byte("```go\nx := 1\n```")).FirstBlock()
	lang, ok := b.Data(DataLanguage)
	require.True(t, ok)
	require.Equal(t, "go", lang)
}

func TestFromMarkdown_Heading(t *testing.T) {
	b := FromMarkdown([]byte("## Title")).FirstBlock()
	require.Equal(t, "Title", b.Text())
	require.True(t, b.StyleAt(0).Has(Bold))
	level, _ := b.Data(DataHeading)
	require.Equal(t, "2", level)
}

func TestFromMarkdown_LinkEntity(t *testing.T) {
	b := FromMarkdown([]byte("see [site](https://example.dev) now")).FirstBlock()
	require.Equal(t, "see site now", b.Text())
	require.Equal(t, "https://example.dev", b.EntityAt(4))
	require.Empty(t, b.EntityAt(0))
}

func TestToMarkdown(t *testing.T) {
	bold := NewContent(NewBlock("a", Normal, "bold and ital"))
	bold = ApplyInlineStyle(bold, "a", 0, 4, Bold)
	bold = ApplyInlineStyle(bold, "a", 9, 13, Italic)

	spaced := NewContent(NewBlock("a", Normal, "bold "))
	spaced = ApplyInlineStyle(spaced, "a", 0, 5, Bold)

	code := NewContent(
		NewBlock("a", CodeBlock, "x := 1").WithData(DataLanguage, "go"),
		NewBlock("b", CodeBlock, "y := 2"),
		NewBlock("c", Blockquote, "quoted"),
	)

	tests := []struct {
		name string
		in   Content
		want string
	}{
		{name: "styled runs", in: bold, want: "**bold** and _ital_"},
		{name: "edge whitespace outside", in: spaced, want: "**bold** "},
		{name: "escapes delimiters", in: NewContent(NewBlock("a", Normal, "a*b_c")), want: `a\*b\_c`},
		{name: "code and quote", in: code, want: "```go\nx := 1\ny := 2\n```\n\n> quoted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ToMarkdown(tt.in))
		})
	}
}

func TestMarkdown_RoundTrip(t *testing.T) {
	for _, src := range []string{
		"**bold** and _ital_",
		"~~strike~~ `code`",
		"```go\nx := 1\n```",
		"> quoted",
		"## Title",
		`a\*b`,
	} {
		t.Run(src, func(t *testing.T) {
			require.Equal(t, src, ToMarkdown(FromMarkdown([]byte(src))))
		})
	}
}
