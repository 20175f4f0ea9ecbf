package hexview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/xv/internal/fs"
	"github.com/kk-code-lab/xv/internal/highlight"
	"github.com/kk-code-lab/xv/internal/search"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openReader(t *testing.T, path string, lineWidth uint64, w, h uint16) *Reader {
	t.Helper()
	src, err := fs.Open(path)
	require.NoError(t, err)
	r := NewReader(src)
	t.Cleanup(func() {
		_ = r.Close()
	})
	require.NoError(t, r.SetLineWidth(lineWidth))
	r.SetWindowSize(w, h)
	return r
}

func hexText(r *Reader) string {
	v := &textVisitor{}
	r.VisitHex(v)
	return v.String()
}

func TestReaderTopLeftWindow(t *testing.T) {
	r := openReader(t, writeTemp(t, "0123456789abcdef"), 4, 2, 2)
	require.NoError(t, r.Capture())
	assert.Equal(t, "30 31\n34 35", hexText(r))
}

func TestReaderHighlights(t *testing.T) {
	r := openReader(t, writeTemp(t, "0123456789abcdef"), 4, 2, 2)
	r.Highlight(1, 1, highlight.Positive)
	r.Highlight(3, 1, highlight.Positive)
	r.Highlight(4, 1, highlight.Negative)
	r.Highlight(5, 1, highlight.Negative)
	require.NoError(t, r.Capture())
	assert.Equal(t, "30 31+\n34- 35-", hexText(r))

	r.ClearHighlights()
	assert.Equal(t, "30 31\n34 35", hexText(r))
}

func TestReaderWindowBiggerThanFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		hex     string
	}{
		{"aligned", "0123456789abcdef", "30 31 32 33\n34 35 36 37\n38 39 61 62\n63 64 65 66"},
		{"unaligned", "0123456789abcde", "30 31 32 33\n34 35 36 37\n38 39 61 62\n63 64 65"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openReader(t, writeTemp(t, tt.content), 4, 4, 16)
			require.NoError(t, r.Capture())
			assert.Equal(t, tt.hex, hexText(r))

			offsets := &offsetsVisitor{}
			r.VisitRowOffsets(offsets)
			assert.Equal(t, []string{"0x00000000", "0x00000004", "0x00000008", "0x0000000C"}, offsets.labels)
			assert.True(t, offsets.ended)
		})
	}
}

func TestReaderReloadHighlightsChanges(t *testing.T) {
	path := writeTemp(t, "0123456789abcdef")
	r := openReader(t, path, 4, 4, 4)
	require.NoError(t, r.Capture())

	changed, err := r.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, r.Highlights().Len())

	require.NoError(t, os.WriteFile(path, []byte("0123456X89abcdef"), 0o644))
	changed, err = r.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []highlight.Interval{{Start: 7, Width: 1, Kind: highlight.Negative}}, r.Highlights().Intervals())
	assert.Equal(t, "30 31 32 33\n34 35 36 58-\n38 39 61 62\n63 64 65 66", hexText(r))
}

func TestReaderReloadAfterTruncationDiffsTheSameRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "identical rows", content: strings.Repeat("a", 64)},
		{name: "distinct rows", content: strings.Repeat("0", 16) + strings.Repeat("1", 16) + strings.Repeat("2", 16) + strings.Repeat("3", 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.content)
			r := openReader(t, path, 16, 16, 2)
			r.ScrollRows(2)
			require.NoError(t, r.Capture())
			_, y := r.Position()
			require.Equal(t, uint64(2), y)

			require.NoError(t, os.WriteFile(path, []byte(tt.content[:32]), 0o644))
			changed, err := r.Reload()
			require.NoError(t, err)

			assert.True(t, changed, "the viewed rows were removed")
			assert.Empty(t, r.Highlights().Intervals(), "bytes kept by the truncation must not be marked")
			_, y = r.Position()
			assert.Equal(t, uint64(0), y)
			assert.Equal(t, tt.content[:32], string(r.Bytes()))
		})
	}
}

func TestReaderReloadAfterShortenedLastRow(t *testing.T) {
	content := strings.Repeat("0123456789abcdef", 4)
	path := writeTemp(t, content)
	r := openReader(t, path, 16, 16, 2)
	r.ScrollRows(2)
	require.NoError(t, r.Capture())

	require.NoError(t, os.WriteFile(path, []byte(content[:56]), 0o644))
	changed, err := r.Reload()
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Empty(t, r.Highlights().Intervals())
	_, y := r.Position()
	assert.Equal(t, uint64(2), y)
	assert.Equal(t, content[32:56], string(r.Bytes()))
}

func TestReaderStale(t *testing.T) {
	path := writeTemp(t, "0123456789abcdef")
	r := openReader(t, path, 4, 4, 2)
	require.NoError(t, r.Capture())

	stale, err := r.Stale()
	require.NoError(t, err)
	assert.False(t, stale)

	// Same length, change outside the window.
	require.NoError(t, os.WriteFile(path, []byte("0123456789abcdeX"), 0o644))
	stale, err = r.Stale()
	require.NoError(t, err)
	assert.False(t, stale)

	require.NoError(t, os.WriteFile(path, []byte("0123X56789abcdeX"), 0o644))
	stale, err = r.Stale()
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "0123456789abcdef"[:8], string(r.Bytes()), "the capture is left alone")

	require.NoError(t, r.Reopen())
	require.NoError(t, r.Capture())
	require.NoError(t, os.WriteFile(path, []byte("0123X56789abcdeXYZ"), 0o644))
	stale, err = r.Stale()
	require.NoError(t, err)
	assert.True(t, stale, "a length change counts")
}

func TestReaderCaptureFailureKeepsPreviousCapture(t *testing.T) {
	r := openReader(t, writeTemp(t, "0123456789abcdef"), 4, 2, 2)
	require.NoError(t, r.Capture())
	before := append([]byte(nil), r.Bytes()...)

	require.NoError(t, r.source.Close())
	var readErr *fs.ReadError
	require.ErrorAs(t, r.Capture(), &readErr)
	assert.Equal(t, before, r.Bytes())
}

func TestReaderSearch(t *testing.T) {
	r := openReader(t, writeTemp(t, "xxababayyaba"), 4, 4, 4)
	stats, err := r.Search(context.Background(), []byte("aba"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Matches)
	assert.Equal(t, []highlight.Interval{
		{Start: 2, Width: 3, Kind: highlight.Positive},
		{Start: 4, Width: 3, Kind: highlight.Positive},
		{Start: 9, Width: 3, Kind: highlight.Positive},
	}, r.Highlights().Intervals())

	next, ok := r.NextMatch(5)
	require.True(t, ok)
	assert.Equal(t, uint64(9), next)
	_, ok = r.NextMatch(10)
	assert.False(t, ok)

	_, err = r.Search(context.Background(), nil)
	assert.ErrorIs(t, err, search.ErrEmptyPattern)
}

func TestReaderGoToOffset(t *testing.T) {
	r := openReader(t, writeTemp(t, string(make([]byte, 256))), 16, 16, 4)
	require.NoError(t, r.GoToOffset(0x95))

	x, y := r.Position()
	assert.Equal(t, uint64(0), x)
	assert.Equal(t, uint64(9), y)
	assert.Equal(t, []highlight.Interval{{Start: 0x95, Width: 1, Kind: highlight.Positive}}, r.Highlights().Intervals())

	assert.ErrorIs(t, r.GoToOffset(256), ErrOffsetOutOfRange)
}

func TestReaderScrollingClamps(t *testing.T) {
	r := openReader(t, writeTemp(t, string(make([]byte, 100))), 10, 4, 3)

	r.ScrollRows(-5)
	_, y := r.Position()
	assert.Equal(t, uint64(0), y)

	r.ScrollRows(1000)
	_, y = r.Position()
	assert.Equal(t, uint64(7), y)

	r.ScrollColumns(100)
	x, _ := r.Position()
	assert.Equal(t, uint64(6), x)

	r.Home()
	x, y = r.Position()
	assert.Equal(t, uint64(0), x)
	assert.Equal(t, uint64(0), y)

	r.End()
	_, y = r.Position()
	assert.Equal(t, uint64(7), y)
}

func TestReaderSetLineWidthKeepsTopByte(t *testing.T) {
	r := openReader(t, writeTemp(t, string(make([]byte, 1000))), 16, 8, 4)
	r.SetPosition(0, 10)

	require.NoError(t, r.SetLineWidth(32))
	_, y := r.Position()
	assert.Equal(t, uint64(5), y)
	assert.Equal(t, uint64(31), r.LinesInFile())
	assert.Equal(t, uint64(32), r.Rows())

	assert.ErrorIs(t, r.SetLineWidth(0), ErrInvalidLineWidth)
}

func TestReaderRowOffsetsWidth(t *testing.T) {
	r := openReader(t, writeTemp(t, "abc"), 16, 16, 4)
	assert.Equal(t, 10, r.RowOffsetsWidth())
}

func TestReaderFingerprintFollowsCapture(t *testing.T) {
	r := openReader(t, writeTemp(t, "0123456789abcdef"), 4, 4, 1)
	require.NoError(t, r.Capture())
	first := r.CaptureFingerprint()

	r.ScrollRows(1)
	require.NoError(t, r.Capture())
	assert.NotEqual(t, first, r.CaptureFingerprint())
}
