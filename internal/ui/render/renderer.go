package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xv/internal/hexview"
	statepkg "github.com/kk-code-lab/xv/internal/state"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen         tcell.Screen
	theme          ColorTheme
	styles         *byteStyles
	runeWidthCache [128]int // ASCII widths plus one; zero means unset
	runeWidthWide  map[rune]int
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen}
	r.SetTheme(DarkTheme())
	return r
}

// SetTheme switches the colour scheme and rebuilds the byte styles.
func (r *Renderer) SetTheme(theme ColorTheme) {
	r.theme = theme
	r.styles = newByteStyles(theme)
}

// Theme returns the active colour scheme.
func (r *Renderer) Theme() ColorTheme {
	return r.theme
}

// Layout computes the column placement for the current screen size.
func (r *Renderer) Layout(reader *hexview.Reader) Layout {
	w, h := r.screen.Size()
	return ComputeLayout(w, h, reader.RowOffsetsWidth(), reader.Group(),
		reader.Visual() != hexview.VisualOff, reader.LineWidth())
}

// Render draws the entire UI. The reader must hold a capture taken with the
// window size of Layout.
func (r *Renderer) Render(state *statepkg.AppState, reader *hexview.Reader) {
	if state != nil && state.ThemeName() != r.theme.Name {
		r.SetTheme(ThemeNamed(state.ThemeName()))
	}

	r.screen.Clear()
	w, h := r.screen.Size()

	if state != nil && state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	layout := r.Layout(reader)
	r.drawHeader(reader, w)
	r.drawColumns(reader, layout, h)
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// drawHeader renders the top bar with the file name and position.
func (r *Renderer) drawHeader(reader *hexview.Reader, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	r.fillLine(0, w, 0, headerStyle)

	x := r.drawTextLine(0, 0, w, " xv ", headerStyle.Bold(true))

	position := r.positionText(reader)
	posWidth := r.measureTextWidth(position)
	nameWidth := w - x - posWidth - 1
	if nameWidth > 0 {
		r.drawClipped(x, 0, nameWidth, reader.Name(), headerStyle.Bold(true))
	}
	if posWidth <= w {
		r.drawTextLine(w-posWidth, 0, posWidth, position, headerStyle)
	}
}

func (r *Renderer) positionText(reader *hexview.Reader) string {
	origin := reader.Layout().Origin()
	length := reader.Length()
	percent := 100
	if rows := reader.Rows(); rows > 0 {
		_, y := reader.Position()
		last := y + uint64(reader.Window().H)
		percent = int(min(last, rows) * 100 / rows)
	}
	return fmt.Sprintf(" 0x%X / 0x%X  %d%%  %s ", origin, length, percent, reader.Visual())
}

func (r *Renderer) drawColumns(reader *hexview.Reader, layout Layout, h int) {
	top := headerRows
	sepStyle := r.separatorStyle()
	for y := top; y < h-footerRows; y++ {
		r.drawTextLine(layout.HexX-columnSeparatorWidth, y, columnSeparatorWidth, columnSeparator, sepStyle)
		if layout.VisualX >= 0 {
			r.drawTextLine(layout.VisualX-columnSeparatorWidth, y, columnSeparatorWidth, columnSeparator, sepStyle)
		}
	}

	offsetStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.OffsetFg)
	reader.VisitRowOffsets(&offsetPrinter{
		r:     r,
		x:     layout.OffsetsX,
		y:     top,
		width: reader.RowOffsetsWidth(),
		style: offsetStyle,
	})
	reader.VisitHex(newHexPrinter(r, layout.HexX, top))
	if layout.VisualX >= 0 {
		reader.VisitHex(newVisualPrinter(r, layout.VisualX, top, reader.Visual()))
	}
}

// drawStatusLine renders the prompt, the last message, or key hints.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	footerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	r.fillLine(0, w, y, footerStyle)
	if state == nil {
		return
	}

	switch {
	case state.Prompt.Active():
		label := state.Prompt.Kind.Label()
		x := r.drawTextLine(0, y, w, label, footerStyle.Foreground(r.theme.PromptFg).Bold(true))
		query := r.fitTail(state.Prompt.Query, w-x-1)
		x = r.drawTextLine(x, y, w-x, query, footerStyle)
		if x < w {
			r.screen.ShowCursor(x, y)
		}
		return
	case state.LastError != nil:
		r.drawClipped(0, y, w, " "+state.LastError.Error(), footerStyle.Foreground(r.theme.ErrorFg).Bold(true))
	case state.StatusMessage != "":
		r.drawClipped(0, y, w, " "+state.StatusMessage, footerStyle)
	default:
		r.drawClipped(0, y, w, buildFooterHelpText(state), footerStyle)
	}
	r.screen.HideCursor()
}

// fitTail keeps the end of text that fits in width, so typing stays visible.
func (r *Renderer) fitTail(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	total := 0
	start := len(runes)
	for start > 0 {
		rw := max(r.cachedRuneWidth(runes[start-1]), 1)
		if total+rw > width {
			break
		}
		total += rw
		start--
	}
	return string(runes[start:])
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}
