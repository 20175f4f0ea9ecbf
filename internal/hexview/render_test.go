package hexview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kk-code-lab/xv/internal/highlight"
)

// textVisitor renders bytes as "30 31+" rows, marking highlights with + or -
// and group separators with |.
type textVisitor struct {
	b strings.Builder
}

func (v *textVisitor) Byte(b byte, kind highlight.Kind) {
	v.b.WriteString(HexDigits[b])
	switch kind {
	case highlight.Positive:
		v.b.WriteByte('+')
	case highlight.Negative:
		v.b.WriteByte('-')
	}
	v.b.WriteByte(' ')
}

func (v *textVisitor) Group() {
	v.b.WriteString("| ")
}

func (v *textVisitor) NextLine() {
	v.trimSpace()
	v.b.WriteByte('\n')
}

func (v *textVisitor) End() {
	v.trimSpace()
}

func (v *textVisitor) trimSpace() {
	s := strings.TrimSuffix(v.b.String(), " ")
	v.b.Reset()
	v.b.WriteString(s)
}

func (v *textVisitor) String() string {
	return strings.TrimSuffix(v.b.String(), "\n")
}

type offsetsVisitor struct {
	labels []string
	ended  bool
}

func (v *offsetsVisitor) Offset(label string) { v.labels = append(v.labels, label) }
func (v *offsetsVisitor) End()                { v.ended = true }

func walkText(capture []byte, layout Layout, idx *highlight.Index) string {
	v := &textVisitor{}
	Walk(capture, layout, idx, v)
	return v.String()
}

func TestWalkRows(t *testing.T) {
	got := walkText([]byte("0145"), Layout{LineWidth: 4, Width: 2}, nil)
	assert.Equal(t, "30 31\n34 35", got)
}

func TestWalkGroups(t *testing.T) {
	got := walkText([]byte("01234567"), Layout{LineWidth: 8, Width: 8, Group: 4}, nil)
	assert.Equal(t, "30 31 32 33 | 34 35 36 37", got)

	got = walkText([]byte("01234567"), Layout{LineWidth: 8, Width: 8}, nil)
	assert.Equal(t, "30 31 32 33 34 35 36 37", got)
}

func TestWalkGroupsFollowColumnOffset(t *testing.T) {
	// Starting at column 2 with groups of 4, the first separator comes
	// before column 4.
	got := walkText([]byte("234567"), Layout{X: 2, LineWidth: 8, Width: 6, Group: 4}, nil)
	assert.Equal(t, "32 33 | 34 35 36 37", got)
}

func TestWalkNoGroupAtRowStart(t *testing.T) {
	got := walkText([]byte("01234567"), Layout{LineWidth: 4, Width: 4, Group: 4}, nil)
	assert.Equal(t, "30 31 32 33\n34 35 36 37", got)
}

func TestWalkHighlights(t *testing.T) {
	idx := highlight.NewIndex()
	idx.Insert(1, 1, highlight.Positive)
	idx.Insert(3, 1, highlight.Positive)
	idx.Insert(4, 1, highlight.Negative)
	idx.Insert(5, 1, highlight.Negative)

	// Window 2x2 over rows of 4: bytes 0, 1, 4 and 5.
	got := walkText([]byte("0145"), Layout{LineWidth: 4, Width: 2}, idx)
	assert.Equal(t, "30 31+\n34- 35-", got)
}

func TestWalkHighlightEndsAtWidth(t *testing.T) {
	idx := highlight.NewIndex()
	idx.Insert(1, 2, highlight.Positive)

	got := walkText([]byte("01234"), Layout{LineWidth: 8, Width: 8}, idx)
	assert.Equal(t, "30 31+ 32+ 33 34", got)
}

func TestWalkHighlightResetsAtRowEnd(t *testing.T) {
	idx := highlight.NewIndex()
	idx.Insert(2, 4, highlight.Positive)

	got := walkText([]byte("01234567"), Layout{LineWidth: 4, Width: 4}, idx)
	assert.Equal(t, "30 31 32+ 33+\n34 35 36 37", got)
}

func TestWalkHighlightStartedBeforeWindow(t *testing.T) {
	idx := highlight.NewIndex()
	idx.Insert(6, 4, highlight.Negative)

	// Row 2 of a 4-wide grid begins at offset 8, inside the interval.
	got := walkText([]byte("89ab"), Layout{Y: 2, LineWidth: 4, Width: 4}, idx)
	assert.Equal(t, "38- 39- 61 62", got)
}

func TestWalkZeroWidth(t *testing.T) {
	v := &textVisitor{}
	Walk([]byte("abc"), Layout{LineWidth: 4}, nil, v)
	assert.Equal(t, "", v.String())
}
