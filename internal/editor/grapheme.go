package editor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeBounds returns the rune offsets of every grapheme cluster
// boundary in text, including 0 and the rune length.
func graphemeBounds(text string) []int {
	bounds := []int{0}
	off := 0
	state := -1
	for len(text) > 0 {
		cluster, rest, _, newState := uniseg.StepString(text, state)
		off += utf8.RuneCountInString(cluster)
		bounds = append(bounds, off)
		text = rest
		state = newState
	}
	return bounds
}

// PrevBoundary returns the rune offset of the cluster boundary before off,
// so a caret never lands inside a cluster.
func PrevBoundary(text string, off int) int {
	prev := 0
	for _, b := range graphemeBounds(text) {
		if b >= off {
			break
		}
		prev = b
	}
	return prev
}

// NextBoundary returns the rune offset of the cluster boundary after off.
func NextBoundary(text string, off int) int {
	bounds := graphemeBounds(text)
	for _, b := range bounds {
		if b > off {
			return b
		}
	}
	return bounds[len(bounds)-1]
}
