package render

import "math"

const (
	// columnSeparator sits between the offsets, hex and visual columns.
	columnSeparator      = " │ "
	columnSeparatorWidth = 3
	headerRows           = 1
	footerRows           = 1
)

// Layout is the placement of the three columns on screen.
type Layout struct {
	// Width and Height are the window size in bytes and rows.
	Width  uint16
	Height uint16

	OffsetsX int
	HexX     int
	HexWidth int
	// VisualX is negative when the visual column is hidden.
	VisualX     int
	VisualWidth int
}

// ComputeLayout fits as many bytes per row as the screen allows, never more
// than lineWidth.
func ComputeLayout(screenW, screenH, offsetsWidth int, group uint16, visual bool, lineWidth uint64) Layout {
	height := max(screenH-headerRows-footerRows, 1)

	limit := lineWidth
	if limit > math.MaxUint16 {
		limit = math.MaxUint16
	}
	w := int(min(limit, uint64(max(screenW, 1))))
	for w > 1 && rowWidth(offsetsWidth, w, group, visual) > screenW {
		w--
	}
	w = max(w, 1)

	l := Layout{
		Width:    uint16(w),
		Height:   uint16(min(height, math.MaxUint16)),
		OffsetsX: 0,
		HexX:     offsetsWidth + columnSeparatorWidth,
		HexWidth: hexWidth(w),
		VisualX:  -1,
	}
	if visual {
		l.VisualX = l.HexX + l.HexWidth + columnSeparatorWidth
		l.VisualWidth = visualWidth(w, group)
	}
	return l
}

func rowWidth(offsetsWidth, w int, group uint16, visual bool) int {
	total := offsetsWidth + columnSeparatorWidth + hexWidth(w)
	if visual {
		total += columnSeparatorWidth + visualWidth(w, group)
	}
	return total
}

// hexWidth is two digits per byte with one separator slot between bytes. A
// group separator takes the place of the slot.
func hexWidth(w int) int {
	return 3*w - 1
}

// visualWidth is one cell per byte plus one per group boundary. The count of
// boundaries depends on the column offset, so the upper bound is used.
func visualWidth(w int, group uint16) int {
	return w + groupBoundaries(w, group)
}

func groupBoundaries(w int, group uint16) int {
	if group == 0 || w <= 1 {
		return 0
	}
	return (w-2)/int(group) + 1
}
