package hexview

import "github.com/kk-code-lab/xv/internal/highlight"

// OffsetsVisitor receives one formatted label per captured row.
type OffsetsVisitor interface {
	Offset(label string)
	End()
}

// HexVisitor receives the captured bytes in row-major order.
//
// Group is called before the first byte of every column group except at the
// start of a row. NextLine is called after the last byte of every full row.
type HexVisitor interface {
	Byte(b byte, kind highlight.Kind)
	Group()
	NextLine()
	End()
}
