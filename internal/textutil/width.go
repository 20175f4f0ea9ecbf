package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports the number of terminal columns text occupies,
// treating grapheme clusters such as emoji sequences as a single glyph.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth shortens text to at most width columns, ending it with an
// ellipsis when anything was cut.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(text, width, "…")
}

// PadToWidth right-pads text with spaces to exactly width columns, truncating
// first if needed.
func PadToWidth(text string, width int) string {
	return runewidth.FillRight(TruncateToWidth(text, width), width)
}
