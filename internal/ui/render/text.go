package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/xv/internal/textutil"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru >= 0 && ru < 128 {
		if w := r.runeWidthCache[ru]; w != 0 {
			return w - 1
		}
		w := max(runewidth.RuneWidth(ru), 0)
		r.runeWidthCache[ru] = w + 1
		return w
	}
	if w, ok := r.runeWidthWide[ru]; ok {
		return w
	}
	w := max(runewidth.RuneWidth(ru), 0)
	if r.runeWidthWide == nil {
		r.runeWidthWide = make(map[rune]int)
	}
	r.runeWidthWide[ru] = w
	return w
}

// drawTextLine draws text from startX, stopping after maxWidth columns, and
// returns the column after the last glyph drawn.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		mainc := runes[i]
		w := r.cachedRuneWidth(mainc)
		if x-startX+max(w, 1) > maxWidth {
			break
		}
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		r.screen.SetContent(x, y, mainc, combc, style)
		x += max(w, 1)
	}

	return x
}

// fillLine paints columns [startX, endX) of row y with spaces.
func (r *Renderer) fillLine(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawClipped sanitises text, truncates it to width and draws it.
func (r *Renderer) drawClipped(startX, y, width int, text string, style tcell.Style) int {
	text = textutil.TruncateToWidth(textutil.SanitizeTerminalText(text), width)
	return r.drawTextLine(startX, y, width, text, style)
}
