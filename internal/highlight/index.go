package highlight

import "sort"

// Kind is the display emphasis of a highlighted byte.
type Kind uint8

const (
	Neutral Kind = iota
	Positive
	Negative
)

func (k Kind) String() string {
	switch k {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Interval is a highlighted byte range [Start, Start+Width).
type Interval struct {
	Start uint64
	Width uint64
	Kind  Kind
}

// End returns the first offset after the interval, saturating at the top of
// the offset space.
func (iv Interval) End() uint64 {
	end := iv.Start + iv.Width
	if end < iv.Start {
		return ^uint64(0)
	}
	return end
}

// Contains reports whether offset falls inside the interval.
func (iv Interval) Contains(offset uint64) bool {
	return iv.Start <= offset && offset < iv.End()
}

// Index is a sparse set of highlight intervals ordered by start offset. At
// most one interval exists per start offset; inserting at an occupied start
// replaces it.
//
// Index has no internal locking. Callers must not query it while inserting.
type Index struct {
	items    []Interval
	maxWidth uint64
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Insert records an interval. Zero-width intervals are ignored.
func (x *Index) Insert(offset, width uint64, kind Kind) {
	if width == 0 {
		return
	}
	iv := Interval{Start: offset, Width: width, Kind: kind}
	i := x.search(offset)
	switch {
	case i < len(x.items) && x.items[i].Start == offset:
		x.items[i] = iv
	case i == len(x.items):
		x.items = append(x.items, iv)
	default:
		x.items = append(x.items, Interval{})
		copy(x.items[i+1:], x.items[i:])
		x.items[i] = iv
	}
	if width > x.maxWidth {
		x.maxWidth = width
	}
}

// Clear removes every interval and resets the width bound.
func (x *Index) Clear() {
	x.items = x.items[:0]
	x.maxWidth = 0
}

// Len returns the number of stored intervals.
func (x *Index) Len() int {
	return len(x.items)
}

// MaxWidth returns the widest interval inserted since the last Clear.
func (x *Index) MaxWidth() uint64 {
	return x.maxWidth
}

// Intervals returns a copy of the stored intervals in start order.
func (x *Index) Intervals() []Interval {
	return append([]Interval(nil), x.items...)
}

// QueryFrom returns a cursor over every interval that could overlap
// [offset, ∞). Iteration starts at offset-MaxWidth, so it may also yield
// intervals that end before offset; callers skip those.
func (x *Index) QueryFrom(offset uint64) Cursor {
	start := uint64(0)
	if offset > x.maxWidth {
		start = offset - x.maxWidth
	}
	return Cursor{items: x.items, pos: x.search(start)}
}

func (x *Index) search(offset uint64) int {
	return sort.Search(len(x.items), func(i int) bool {
		return x.items[i].Start >= offset
	})
}

// Cursor walks intervals in ascending start order without allocating.
type Cursor struct {
	items []Interval
	pos   int
}

// Next returns the next interval, or false when the cursor is exhausted.
func (c *Cursor) Next() (Interval, bool) {
	if c.pos >= len(c.items) {
		return Interval{}, false
	}
	iv := c.items[c.pos]
	c.pos++
	return iv, true
}
