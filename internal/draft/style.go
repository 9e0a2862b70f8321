package draft

import (
	"fmt"
	"strings"
)

// Style is one inline style token.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Code
	Strikethrough
)

// AllStyles lists the inline styles in autoformat priority order.
var AllStyles = []Style{Bold, Italic, Code, Strikethrough}

func (s Style) String() string {
	switch s {
	case Bold:
		return "BOLD"
	case Italic:
		return "ITALIC"
	case Code:
		return "CODE"
	case Strikethrough:
		return "STRIKETHROUGH"
	default:
		return fmt.Sprintf("Style(%d)", uint8(s))
	}
}

// ParseStyle parses a style token name, case-insensitively.
func ParseStyle(name string) (Style, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BOLD":
		return Bold, nil
	case "ITALIC":
		return Italic, nil
	case "CODE":
		return Code, nil
	case "STRIKETHROUGH":
		return Strikethrough, nil
	}
	return 0, fmt.Errorf("unknown style %q (must be BOLD, ITALIC, CODE or STRIKETHROUGH)", name)
}

// StyleSet is the set of styles carried by one character.
type StyleSet uint8

// NewStyleSet returns a set holding the given styles.
func NewStyleSet(styles ...Style) StyleSet {
	var s StyleSet
	for _, st := range styles {
		s = s.With(st)
	}
	return s
}

func (s StyleSet) Has(st Style) bool         { return s&StyleSet(st) != 0 }
func (s StyleSet) With(st Style) StyleSet    { return s | StyleSet(st) }
func (s StyleSet) Without(st Style) StyleSet { return s &^ StyleSet(st) }
func (s StyleSet) IsEmpty() bool             { return s == 0 }
func (s StyleSet) Union(o StyleSet) StyleSet { return s | o }
func (s StyleSet) Toggle(st Style) StyleSet {
	if s.Has(st) {
		return s.Without(st)
	}
	return s.With(st)
}

// Styles returns the members in priority order.
func (s StyleSet) Styles() []Style {
	var out []Style
	for _, st := range AllStyles {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

// Names returns the member names in priority order.
func (s StyleSet) Names() []string {
	styles := s.Styles()
	names := make([]string, len(styles))
	for i, st := range styles {
		names[i] = st.String()
	}
	return names
}

func (s StyleSet) String() string {
	return strings.Join(s.Names(), "|")
}
