package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/highlight"
)

const groupRune = '┊'

// offsetPrinter draws one row label per line of the offsets column.
type offsetPrinter struct {
	r     *Renderer
	x, y  int
	width int
	style tcell.Style
}

func (p *offsetPrinter) Offset(label string) {
	p.r.drawTextLine(p.x, p.y, p.width, label, p.style)
	p.y++
}

func (p *offsetPrinter) End() {}

// hexPrinter draws two digits per byte. The slot before a byte holds a space
// or, at a group boundary, the group marker. The slot takes the highlight
// colour when both neighbours share a highlight.
type hexPrinter struct {
	r        *Renderer
	x0, x, y int
	styles   *byteStyles
	sep      tcell.Style

	first    bool
	group    bool
	lastKind highlight.Kind
}

func newHexPrinter(r *Renderer, x, y int) *hexPrinter {
	return &hexPrinter{
		r:      r,
		x0:     x,
		x:      x,
		y:      y,
		styles: r.styles,
		sep:    r.separatorStyle(),
		first:  true,
	}
}

func (p *hexPrinter) Byte(b byte, kind highlight.Kind) {
	style := p.styles.style(b, kind)
	if !p.first {
		slot := ' '
		slotStyle := p.sep
		if p.group {
			slot = groupRune
		}
		if kind != highlight.Neutral && kind == p.lastKind {
			slotStyle = style
		}
		p.r.screen.SetContent(p.x, p.y, slot, nil, slotStyle)
		p.x++
	}
	digits := hexview.HexDigits[b]
	p.r.screen.SetContent(p.x, p.y, rune(digits[0]), nil, style)
	p.r.screen.SetContent(p.x+1, p.y, rune(digits[1]), nil, style)
	p.x += 2

	p.first = false
	p.group = false
	p.lastKind = kind
}

func (p *hexPrinter) Group() {
	p.group = true
}

func (p *hexPrinter) NextLine() {
	p.x = p.x0
	p.y++
	p.first = true
	p.group = false
	p.lastKind = highlight.Neutral
}

func (p *hexPrinter) End() {}

// visualPrinter draws one glyph per byte from the active visual table. Group
// boundaries add an empty column.
type visualPrinter struct {
	r      *Renderer
	x0, x  int
	y      int
	table  *[256]string
	runes  [256]rune
	styles *byteStyles
	sep    tcell.Style
}

func newVisualPrinter(r *Renderer, x, y int, mode hexview.VisualMode) *visualPrinter {
	p := &visualPrinter{
		r:      r,
		x0:     x,
		x:      x,
		y:      y,
		table:  hexview.VisualTable(mode),
		styles: r.styles,
		sep:    r.separatorStyle(),
	}
	for i, glyph := range p.table {
		p.runes[i] = r.glyphRune(glyph)
	}
	return p
}

func (p *visualPrinter) Byte(b byte, kind highlight.Kind) {
	p.r.screen.SetContent(p.x, p.y, p.runes[b], nil, p.styles.style(b, kind))
	p.x++
}

func (p *visualPrinter) Group() {
	p.r.screen.SetContent(p.x, p.y, ' ', nil, p.sep)
	p.x++
}

func (p *visualPrinter) NextLine() {
	p.x = p.x0
	p.y++
}

func (p *visualPrinter) End() {}

// glyphRune returns the single-column rune for a table entry, or '.' when the
// glyph would not fit one cell.
func (r *Renderer) glyphRune(glyph string) rune {
	runes := []rune(glyph)
	if len(runes) != 1 || r.cachedRuneWidth(runes[0]) != 1 {
		return '.'
	}
	return runes[0]
}

func (r *Renderer) separatorStyle() tcell.Style {
	return tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.SeparatorFg)
}
