// Package dump prints the byte grid as styled text for non-interactive use.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/highlight"
)

// batchRows is how many rows are captured per read.
const batchRows = 256

// Options limits what is printed.
type Options struct {
	// Offset selects the first row: the one containing this byte.
	Offset uint64
	// Rows is the number of rows to print. Zero prints to the end of the
	// file.
	Rows uint64
}

// Write prints rows of the file one line per row: offset, hex digits and,
// unless the visual mode is off, the visual column. Colours follow the
// capabilities of w. The reader's window is left on the last batch.
func Write(w io.Writer, reader *hexview.Reader, opts Options) error {
	lineWidth := reader.LineWidth()
	if lineWidth > math.MaxUint16 {
		return fmt.Errorf("line width %d too large to dump", lineWidth)
	}
	width := uint16(lineWidth)

	row := opts.Offset / lineWidth
	end := reader.Rows()
	if opts.Rows > 0 && row+opts.Rows < end {
		end = row + opts.Rows
	}

	st := newStyles(lipgloss.NewRenderer(w), reader.Visual())
	out := bufio.NewWriter(w)

	for row < end {
		h := uint16(min(end-row, batchRows))
		reader.SetWindowSize(width, h)
		reader.SetPosition(0, row)
		if err := reader.Capture(); err != nil {
			return err
		}

		offsets := &offsetLines{}
		reader.VisitRowOffsets(offsets)
		hex := &lines{glyphs: &st.hex, sep: st.hexGroup, hex: true}
		reader.VisitHex(hex)
		var visual *lines
		if reader.Visual() != hexview.VisualOff {
			visual = &lines{glyphs: &st.visual, sep: " "}
			reader.VisitHex(visual)
		}

		hexWidth := 3*int(width) - 1
		for i, label := range offsets.labels {
			var b strings.Builder
			b.WriteString(st.offset.Render(label))
			b.WriteString(st.separator)
			b.WriteString(hex.text(i))
			if visual != nil {
				if pad := hexWidth - hex.width(i); pad > 0 {
					b.WriteString(strings.Repeat(" ", pad))
				}
				b.WriteString(st.separator)
				b.WriteString(visual.text(i))
			}
			b.WriteByte('\n')
			if _, err := out.WriteString(b.String()); err != nil {
				return err
			}
		}
		row += uint64(h)
	}
	return out.Flush()
}

type styles struct {
	offset    lipgloss.Style
	separator string
	hexGroup  string
	hex       [3][256]string
	visual    [3][256]string
}

// Dark theme colours, matching the interactive view.
var categoryColors = [4]lipgloss.Color{
	hexview.AsciiControl:    "204",
	hexview.AsciiPrintable:  "252",
	hexview.AsciiWhitespace: "114",
	hexview.Other:           "179",
}

func newStyles(r *lipgloss.Renderer, mode hexview.VisualMode) *styles {
	sep := r.NewStyle().Foreground(lipgloss.Color("240"))
	st := &styles{
		offset:    r.NewStyle().Foreground(lipgloss.Color("244")),
		separator: sep.Render(" │ "),
		hexGroup:  sep.Render("┊"),
	}

	var kinds [3]lipgloss.Style
	kinds[highlight.Positive] = r.NewStyle().Background(lipgloss.Color("33")).Foreground(lipgloss.Color("15"))
	kinds[highlight.Negative] = r.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("15"))
	table := hexview.VisualTable(mode)
	for i := 0; i < 256; i++ {
		kinds[highlight.Neutral] = r.NewStyle().Foreground(categoryColors[hexview.Categories[i]])
		for kind, style := range kinds {
			st.hex[kind][i] = style.Render(hexview.HexDigits[i])
			st.visual[kind][i] = style.Render(table[i])
		}
	}
	return st
}

type offsetLines struct {
	labels []string
}

func (o *offsetLines) Offset(label string) { o.labels = append(o.labels, label) }
func (o *offsetLines) End()                {}

// lines collects one styled string per row along with its unstyled width.
type lines struct {
	glyphs *[3][256]string
	sep    string
	// hex rows put a space between bytes and take two columns per byte.
	hex bool

	rows   []string
	widths []int
	cur    strings.Builder
	curW   int
	group  bool
}

func (l *lines) Byte(b byte, kind highlight.Kind) {
	if l.curW > 0 {
		switch {
		case l.group:
			l.cur.WriteString(l.sep)
			l.curW++
		case l.hex:
			l.cur.WriteByte(' ')
			l.curW++
		}
	}
	l.cur.WriteString(l.glyphs[kind][b])
	if l.hex {
		l.curW += 2
	} else {
		l.curW++
	}
	l.group = false
}

func (l *lines) Group() { l.group = true }

func (l *lines) NextLine() {
	l.rows = append(l.rows, l.cur.String())
	l.widths = append(l.widths, l.curW)
	l.cur.Reset()
	l.curW = 0
	l.group = false
}

func (l *lines) End() {
	if l.curW > 0 {
		l.NextLine()
	}
}

func (l *lines) text(i int) string {
	if i < len(l.rows) {
		return l.rows[i]
	}
	return ""
}

func (l *lines) width(i int) int {
	if i < len(l.widths) {
		return l.widths[i]
	}
	return 0
}
