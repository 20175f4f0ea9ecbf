package hexview

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/kk-code-lab/xv/internal/fs"
	"github.com/kk-code-lab/xv/internal/highlight"
	"github.com/kk-code-lab/xv/internal/search"
)

const (
	DefaultLineWidth = 16
	DefaultGroup     = 8
	DefaultWidth     = 16
	DefaultHeight    = 32
)

var (
	ErrInvalidLineWidth = errors.New("line width must be positive")
	ErrOffsetOutOfRange = errors.New("offset beyond end of file")
)

// Reader is a viewing session over one file: the window position, the latest
// capture, and the highlights drawn over it.
//
// Reader is not safe for concurrent use.
type Reader struct {
	source *fs.Source

	lineWidth uint64
	group     uint16
	x, y      uint64
	width     uint16
	height    uint16
	visual    VisualMode

	capture    []byte
	captureSum uint64
	spare      []byte
	before     []byte
	hasBefore  bool
	diffRuns   int

	highlights *highlight.Index
	engine     *search.Engine
	logger     *zap.Logger
}

type Option func(*Reader)

// WithEngine sets the search engine used by Search.
func WithEngine(e *search.Engine) Option {
	return func(r *Reader) {
		if e != nil {
			r.engine = e
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader starts a session over src with the default geometry. The first
// Capture call fills the window.
func NewReader(src *fs.Source, opts ...Option) *Reader {
	r := &Reader{
		source:     src,
		lineWidth:  DefaultLineWidth,
		group:      DefaultGroup,
		width:      DefaultWidth,
		height:     DefaultHeight,
		visual:     VisualUnicode,
		highlights: highlight.NewIndex(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = search.New(search.WithLogger(r.logger))
	}
	return r
}

func (r *Reader) Name() string   { return r.source.Name() }
func (r *Reader) Path() string   { return r.source.Path() }
func (r *Reader) Length() uint64 { return r.source.Length() }

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.source.Close()
}

func (r *Reader) LineWidth() uint64      { return r.lineWidth }
func (r *Reader) Group() uint16          { return r.group }
func (r *Reader) Visual() VisualMode     { return r.visual }
func (r *Reader) SetVisual(m VisualMode) { r.visual = m }

// SetLineWidth changes the number of file bytes per row, keeping the first
// visible byte on screen.
func (r *Reader) SetLineWidth(n uint64) error {
	if n == 0 {
		return ErrInvalidLineWidth
	}
	top := r.y*r.lineWidth + r.x
	r.lineWidth = n
	r.y = top / n
	r.x = 0
	r.clamp()
	return nil
}

// SetGroup sets the column group size. Zero disables groups.
func (r *Reader) SetGroup(n uint16) {
	r.group = n
}

// SetWindowSize sets how many bytes per row and rows are captured.
func (r *Reader) SetWindowSize(w, h uint16) {
	r.width = max(w, 1)
	r.height = max(h, 1)
	r.clamp()
}

// Position returns the column and row of the window origin.
func (r *Reader) Position() (x, y uint64) {
	return r.x, r.y
}

// SetPosition moves the window origin, clamped to the file.
func (r *Reader) SetPosition(x, y uint64) {
	r.x, r.y = x, y
	r.clamp()
}

// Window returns the current window.
func (r *Reader) Window() fs.Window {
	return fs.Window{X: r.x, Y: r.y, W: r.width, H: r.height}
}

// Layout returns the geometry of the current capture for Walk.
func (r *Reader) Layout() Layout {
	return Layout{X: r.x, Y: r.y, LineWidth: r.lineWidth, Width: r.width, Group: r.group}
}

// Bytes returns the latest capture. The slice is replaced by the next
// successful Capture and must not be modified.
func (r *Reader) Bytes() []byte {
	return r.capture
}

// Capture reads the window. On failure the previous capture is kept and the
// error is returned. When a before image is pending, the new capture is
// diffed against it and the differences are highlighted.
func (r *Reader) Capture() error {
	buf, err := r.source.ReadWindow(r.Window(), r.lineWidth, r.spare)
	if err != nil {
		r.spare = buf[:0]
		return err
	}
	r.spare = r.capture[:0]
	r.capture = buf
	r.captureSum = xxh3.Hash(buf)

	r.diffRuns = 0
	if r.hasBefore {
		r.diffRuns = highlight.Diff(r.highlights, r.before, r.capture, r.Layout().Origin(), r.lineWidth, r.width)
		r.logger.Debug("capture diff", zap.Int("runs", r.diffRuns), zap.Int("bytes", len(r.capture)))
		r.before = r.before[:0]
		r.hasBefore = false
	}
	return nil
}

// CaptureBeforeImage saves a copy of the current capture as the baseline for
// the next Capture.
func (r *Reader) CaptureBeforeImage() {
	r.before = append(r.before[:0], r.capture...)
	r.hasBefore = true
}

// CaptureFingerprint returns the hash of the current capture.
func (r *Reader) CaptureFingerprint() uint64 {
	return r.captureSum
}

// Stale reports whether the file on disk no longer matches the session: its
// length changed or the bytes under the window differ from the capture. The
// window is read through a fresh handle and compared by hash.
func (r *Reader) Stale() (bool, error) {
	buf, length, err := r.source.PeekWindow(r.Window(), r.lineWidth, r.spare)
	r.spare = buf[:0]
	if err != nil {
		return false, err
	}
	return length != r.Length() || len(buf) != len(r.capture) || xxh3.Hash(buf) != r.captureSum, nil
}

func (r *Reader) Highlight(offset, width uint64, kind highlight.Kind) {
	r.highlights.Insert(offset, width, kind)
}

func (r *Reader) ClearHighlights() {
	r.highlights.Clear()
}

// Highlights exposes the index for read-only use between captures.
func (r *Reader) Highlights() *highlight.Index {
	return r.highlights
}

// Search scans the whole file for needle on an independent handle and marks
// every match Positive. Matches found before an error stay highlighted.
func (r *Reader) Search(ctx context.Context, needle []byte) (search.Stats, error) {
	if len(needle) == 0 {
		return search.Stats{}, search.ErrEmptyPattern
	}
	f, err := r.source.OpenReader()
	if err != nil {
		return search.Stats{}, err
	}
	defer f.Close()

	width := uint64(len(needle))
	stats, err := r.engine.SearchFile(ctx, f, needle, func(offset uint64) {
		r.highlights.Insert(offset, width, highlight.Positive)
	})
	r.logger.Debug("search finished",
		zap.Int("matches", stats.Matches),
		zap.Int64("scanned", stats.Scanned),
		zap.Stringer("strategy", stats.Strategy),
		zap.Error(err))
	return stats, err
}

// NextMatch returns the start of the first Positive interval at or after from.
func (r *Reader) NextMatch(from uint64) (uint64, bool) {
	cursor := r.highlights.QueryFrom(from)
	for {
		iv, ok := cursor.Next()
		if !ok {
			return 0, false
		}
		if iv.Start >= from && iv.Kind == highlight.Positive {
			return iv.Start, true
		}
	}
}

// Reopen re-acquires the file so external changes become visible.
func (r *Reader) Reopen() error {
	if err := r.source.Reopen(); err != nil {
		return err
	}
	r.clamp()
	return nil
}

// Reload reopens the file and recaptures the window, highlighting what
// changed. It reports whether the captured bytes differ.
//
// The window keeps its position until the diff has run, so both captures
// cover the same offsets. Only then is it clamped to the new length; if that
// moves it, the new position is captured without a diff.
func (r *Reader) Reload() (bool, error) {
	prevLen := len(r.capture)
	r.CaptureBeforeImage()
	if err := r.source.Reopen(); err != nil {
		r.hasBefore = false
		return false, fmt.Errorf("reload %s: %w", r.Name(), err)
	}
	if err := r.Capture(); err != nil {
		r.hasBefore = false
		return false, fmt.Errorf("reload %s: %w", r.Name(), err)
	}
	changed := r.diffRuns > 0 || prevLen != len(r.capture)

	x, y := r.x, r.y
	r.clamp()
	if r.x != x || r.y != y {
		if err := r.Capture(); err != nil {
			return changed, fmt.Errorf("reload %s: %w", r.Name(), err)
		}
	}
	return changed, nil
}

// GoToOffset scrolls the window so offset is visible and marks that byte.
func (r *Reader) GoToOffset(offset uint64) error {
	if err := r.Reveal(offset); err != nil {
		return err
	}
	r.highlights.Insert(offset, 1, highlight.Positive)
	return nil
}

// Reveal scrolls the window the least amount needed for offset to be
// visible.
func (r *Reader) Reveal(offset uint64) error {
	if offset >= r.Length() {
		return fmt.Errorf("0x%X: %w", offset, ErrOffsetOutOfRange)
	}
	row := offset / r.lineWidth
	col := offset % r.lineWidth
	if row < r.y || row >= r.y+uint64(r.height) {
		r.y = row
	}
	if col < r.x || col >= r.x+uint64(r.width) {
		r.x = col
	}
	r.clamp()
	return nil
}

// Visible reports whether offset lies inside the current window.
func (r *Reader) Visible(offset uint64) bool {
	row := offset / r.lineWidth
	col := offset % r.lineWidth
	return row >= r.y && row < r.y+uint64(r.height) &&
		col >= r.x && col < r.x+uint64(r.width)
}

// ScrollRows moves the window by n rows, clamped to the file.
func (r *Reader) ScrollRows(n int) {
	r.y = addClamped(r.y, n)
	r.clamp()
}

// ScrollColumns moves the window by n columns, clamped to the line width.
func (r *Reader) ScrollColumns(n int) {
	r.x = addClamped(r.x, n)
	r.clamp()
}

// Home moves the window to the start of the file.
func (r *Reader) Home() {
	r.x, r.y = 0, 0
}

// End moves the window so the last row of the file is at the bottom.
func (r *Reader) End() {
	r.y = r.maxRow()
}

// Rows returns the number of grid rows, counting a short last row.
func (r *Reader) Rows() uint64 {
	n := r.Length()
	rows := n / r.lineWidth
	if n%r.lineWidth != 0 {
		rows++
	}
	return rows
}

// LinesInFile returns the number of complete grid rows.
func (r *Reader) LinesInFile() uint64 {
	return r.Length() / r.lineWidth
}

// RowOffsetsWidth returns the display width of a row label.
func (r *Reader) RowOffsetsWidth() int {
	if r.source.LargeAddresses() {
		return 16 + 2
	}
	return 8 + 2
}

// VisitRowOffsets emits one label per captured row.
func (r *Reader) VisitRowOffsets(v OffsetsVisitor) {
	w := int(r.width)
	rows := (len(r.capture) + w - 1) / w
	rows = min(rows, int(r.height))

	format := "0x%08X"
	if r.source.LargeAddresses() {
		format = "0x%016X"
	}
	base := r.y * r.lineWidth
	for i := 0; i < rows; i++ {
		v.Offset(fmt.Sprintf(format, base+uint64(i)*r.lineWidth))
	}
	v.End()
}

// VisitHex walks the capture with the current highlights.
func (r *Reader) VisitHex(v HexVisitor) {
	Walk(r.capture, r.Layout(), r.highlights, v)
}

func (r *Reader) maxRow() uint64 {
	rows := r.Rows()
	if rows <= uint64(r.height) {
		return 0
	}
	return rows - uint64(r.height)
}

func (r *Reader) clamp() {
	if r.y > r.maxRow() {
		r.y = r.maxRow()
	}
	maxCol := uint64(0)
	if r.lineWidth > uint64(r.width) {
		maxCol = r.lineWidth - uint64(r.width)
	}
	if r.x > maxCol {
		r.x = maxCol
	}
}

func addClamped(v uint64, n int) uint64 {
	if n < 0 {
		d := uint64(-n)
		if d > v {
			return 0
		}
		return v - d
	}
	d := uint64(n)
	if v+d < v {
		return ^uint64(0)
	}
	return v + d
}
