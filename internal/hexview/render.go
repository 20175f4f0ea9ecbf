package hexview

import "github.com/kk-code-lab/xv/internal/highlight"

// Layout places a capture in the byte grid.
type Layout struct {
	// X and Y are the column and row of the first captured byte.
	X, Y uint64
	// LineWidth is the number of file bytes per grid row.
	LineWidth uint64
	// Width is the number of captured bytes per row.
	Width uint16
	// Group is the column group size; zero disables group separators.
	Group uint16
}

// Origin returns the file offset of the first captured byte.
func (l Layout) Origin() uint64 {
	return l.Y*l.LineWidth + l.X
}

// Walk feeds capture to v one byte at a time, tagging each byte with the kind
// of the highlight interval covering it. Highlight state does not carry over
// from one row to the next. idx may be nil.
func Walk(capture []byte, layout Layout, idx *highlight.Index, v HexVisitor) {
	if layout.Width == 0 {
		v.End()
		return
	}

	rowStart := layout.Origin()
	var (
		cursor  highlight.Cursor
		next    highlight.Interval
		pending bool
	)
	if idx != nil {
		cursor = idx.QueryFrom(rowStart)
		next, pending = cursor.Next()
	}

	width := int(layout.Width)
	group := uint64(layout.Group)
	kind := highlight.Neutral
	var remaining uint64
	col := 0

	for _, b := range capture {
		if col > 0 && group > 0 && (layout.X+uint64(col))%group == 0 {
			v.Group()
		}

		offset := rowStart + uint64(col)
		for pending {
			if next.End() <= offset {
				next, pending = cursor.Next()
				continue
			}
			if next.Start <= offset {
				kind = next.Kind
				remaining = next.End() - offset
				next, pending = cursor.Next()
			}
			break
		}

		v.Byte(b, kind)
		if remaining > 0 {
			remaining--
			if remaining == 0 {
				kind = highlight.Neutral
			}
		}

		col++
		if col == width {
			v.NextLine()
			col = 0
			rowStart += layout.LineWidth
			kind = highlight.Neutral
			remaining = 0
		}
	}
	v.End()
}
