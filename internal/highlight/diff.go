package highlight

// Diff compares two captures of the same window and records every run of
// differing bytes as a Negative interval in idx. It returns the number of runs
// inserted.
//
// Both captures are row-major with windowWidth bytes per row; origin is the
// absolute file offset of the first captured byte and lineWidth the distance
// between rows in the file. A run never crosses a row edge: it is closed at
// the first matching byte, at the end of its row, or where either capture
// ends. Bytes of after beyond the end of before are not compared.
func Diff(idx *Index, before, after []byte, origin, lineWidth uint64, windowWidth uint16) int {
	if windowWidth == 0 {
		return 0
	}
	n := min(len(before), len(after))
	row := int(windowWidth)
	gap := uint64(0)
	if lineWidth > uint64(windowWidth) {
		gap = lineWidth - uint64(windowWidth)
	}

	runs := 0
	offset := origin
	open := false
	var start uint64
	closeRun := func() {
		if open {
			idx.Insert(start, offset-start, Negative)
			runs++
			open = false
		}
	}

	col := 0
	for i := 0; i < n; i++ {
		if before[i] != after[i] {
			if !open {
				open = true
				start = offset
			}
		} else {
			closeRun()
		}

		offset++
		col++
		if col == row {
			closeRun()
			col = 0
			offset += gap
		}
	}
	closeRun()
	return runs
}
