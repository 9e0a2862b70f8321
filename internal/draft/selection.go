package draft

// Selection is an anchor/focus pair of (block key, offset) positions.
type Selection struct {
	AnchorKey    string
	AnchorOffset int
	FocusKey     string
	FocusOffset  int
	HasFocus     bool
}

// Caret returns a focused, collapsed selection.
func Caret(key string, offset int) Selection {
	return Selection{
		AnchorKey:    key,
		AnchorOffset: offset,
		FocusKey:     key,
		FocusOffset:  offset,
		HasFocus:     true,
	}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// WithOffsets keeps both keys and replaces the offsets.
func (s Selection) WithOffsets(anchor, focus int) Selection {
	s.AnchorOffset = anchor
	s.FocusOffset = focus
	return s
}

// CollapseTo moves anchor and focus to one position, keeping HasFocus.
func (s Selection) CollapseTo(key string, offset int) Selection {
	s.AnchorKey, s.FocusKey = key, key
	s.AnchorOffset, s.FocusOffset = offset, offset
	return s
}
