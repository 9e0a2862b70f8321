package draft

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStyleSet(t *testing.T) {
	s := NewStyleSet(Bold, Code)
	require.True(t, s.Has(Bold))
	require.True(t, s.Has(Code))
	require.False(t, s.Has(Italic))
	require.Equal(t, "BOLD|CODE", s.String())
	require.Equal(t, []string{"BOLD", "CODE"}, s.Names())

	s = s.Toggle(Bold).With(Strikethrough)
	require.Equal(t, []Style{Code, Strikethrough}, s.Styles())
	require.True(t, StyleSet(0).IsEmpty())
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{in: "BOLD", want: Bold},
		{in: "italic", want: Italic},
		{in: "Code", want: Code},
		{in: "STRIKETHROUGH", want: Strikethrough},
		{in: "UNDERLINE", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseBlockType(t *testing.T) {
	typ, err := ParseBlockType("")
	require.NoError(t, err)
	require.Equal(t, Normal, typ)

	typ, err = ParseBlockType("code-block")
	require.NoError(t, err)
	require.Equal(t, CodeBlock, typ)

	_, err = ParseBlockType("header-one")
	require.Error(t, err)
}

func TestBlock_StyleRuns(t *testing.T) {
	c := FromText("hello world")
	key := c.FirstBlock().Key()
	c = ApplyInlineStyle(c, key, 0, 5, Bold)
	c = ApplyInlineStyle(c, key, 3, 8, Italic)

	runs := c.MustBlock(key).StyleRuns()
	require.Equal(t, []StyleRun{
		{Start: 0, Length: 3, Style: NewStyleSet(Bold)},
		{Start: 3, Length: 2, Style: NewStyleSet(Bold, Italic)},
		{Start: 5, Length: 3, Style: NewStyleSet(Italic)},
		{Start: 8, Length: 3, Style: 0},
	}, runs)
}

func TestBlock_OutOfRangeAccessors(t *testing.T) {
	b := NewBlock("k", Normal, "ab")
	require.Equal(t, CharMeta{}, b.CharAt(-1))
	require.Equal(t, CharMeta{}, b.CharAt(2))
	require.Empty(t, b.EntityAt(5))
}

func TestBlock_WithDataCopies(t *testing.T) {
	a := NewBlock("k", CodeBlock, "").WithData(DataLanguage, "go")
	b := a.WithData(DataLanguage, "rust")

	lang, _ := a.Data(DataLanguage)
	require.Equal(t, "go", lang)
	lang, _ = b.Data(DataLanguage)
	require.Equal(t, "rust", lang)
	require.Nil(t, b.WithoutData().DataMap())
}

func TestNewStyledBlock_LengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		NewStyledBlock("k", Normal, "abc", make([]CharMeta, 2))
	})
}

func TestBlock_RunLengthsSumToLen(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z *_]{0,30}`).Draw(t, "text")
		c := FromText(text)
		key := c.FirstBlock().Key()
		n := c.MustBlock(key).Len()

		ops := rapid.IntRange(0, 6).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			start := rapid.IntRange(0, n).Draw(t, "start")
			end := rapid.IntRange(0, n).Draw(t, "end")
			style := rapid.SampledFrom(AllStyles).Draw(t, "style")
			c = ApplyInlineStyle(c, key, start, end, style)
		}

		b := c.MustBlock(key)
		total := 0
		for _, run := range b.StyleRuns() {
			total += run.Length
		}
		require.Equal(t, b.Len(), total)
	})
}
