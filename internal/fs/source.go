package fs

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Window is a rectangular view onto the byte grid. X is the column offset into
// each row, Y the first row index, W and H the width in bytes and height in rows.
type Window struct {
	X uint64
	Y uint64
	W uint16
	H uint16
}

// Source owns an open file and maps window requests onto positioned reads.
// It is not safe for concurrent use.
type Source struct {
	file        *os.File
	path        string
	displayName string
	length      uint64
	large       bool
}

// Open opens path for windowed reading.
func Open(path string) (*Source, error) {
	file, length, err := openWithLength(path)
	if err != nil {
		return nil, err
	}
	return &Source{
		file:        file,
		path:        path,
		displayName: filepath.Base(path),
		length:      length,
		large:       length > math.MaxUint32,
	}, nil
}

func openWithLength(path string) (*os.File, uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, newOpenError(path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, newOpenError(path, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, 0, &OpenError{Path: path, Kind: KindOther, Err: errIsDirectory}
	}
	return file, uint64(info.Size()), nil
}

// Name returns the display name (the base name of the path).
func (s *Source) Name() string {
	return s.displayName
}

// Path returns the path the source was opened with.
func (s *Source) Path() string {
	return s.path
}

// Length returns the file length observed at the last open or reopen.
func (s *Source) Length() uint64 {
	return s.length
}

// LargeAddresses reports whether offsets need more than 32 bits.
func (s *Source) LargeAddresses() bool {
	return s.large
}

// ReadWindow reads the bytes covered by win into dst[:0] and returns the
// extended slice. Each row i in [Y, Y+H) contributes up to W bytes starting at
// lineWidth*i + X; rows at or beyond end of file contribute nothing.
//
// On error the rows read so far are returned along with a *ReadError.
func (s *Source) ReadWindow(win Window, lineWidth uint64, dst []byte) ([]byte, error) {
	if s.file == nil {
		return dst[:0], &ReadError{Row: win.Y, Err: os.ErrClosed}
	}
	return readWindow(s.file, s.length, win, lineWidth, dst)
}

// PeekWindow reads win from the file as it is on disk now, through a fresh
// handle, leaving the open handle and the recorded length untouched.
func (s *Source) PeekWindow(win Window, lineWidth uint64, dst []byte) ([]byte, uint64, error) {
	file, length, err := openWithLength(s.path)
	if err != nil {
		return dst[:0], 0, err
	}
	defer file.Close()
	buf, err := readWindow(file, length, win, lineWidth, dst)
	return buf, length, err
}

func readWindow(ra io.ReaderAt, length uint64, win Window, lineWidth uint64, dst []byte) ([]byte, error) {
	dst = dst[:0]
	if win.W == 0 || win.H == 0 {
		return dst, nil
	}

	width := int(win.W)
	for i := win.Y; i < win.Y+uint64(win.H); i++ {
		offset, ok := rowOffset(i, lineWidth, win.X)
		if !ok || offset >= length || offset > math.MaxInt64 {
			break
		}

		start := len(dst)
		dst = growTo(dst, start+width)
		n, err := ra.ReadAt(dst[start:start+width], int64(offset))
		dst = dst[:start+n]
		if err != nil && !errors.Is(err, io.EOF) {
			return dst, &ReadError{Row: i, Offset: offset, Err: err}
		}
	}
	return dst, nil
}

// rowOffset computes lineWidth*row + x, reporting false on overflow.
func rowOffset(row, lineWidth, x uint64) (uint64, bool) {
	if lineWidth != 0 && row > (math.MaxUint64-x)/lineWidth {
		return 0, false
	}
	return lineWidth*row + x, true
}

func growTo(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}
	grown := make([]byte, n, n+n/2)
	copy(grown, buf)
	return grown
}

// Reopen re-acquires the file handle and refreshes the length so external
// changes become visible. The previous handle stays in use if reopening fails.
func (s *Source) Reopen() error {
	file, length, err := openWithLength(s.path)
	if err != nil {
		return err
	}
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = file
	s.length = length
	s.large = length > math.MaxUint32
	return nil
}

// OpenReader opens an independent handle on the same path, for callers such as
// search that read the file on their own schedule.
func (s *Source) OpenReader() (*os.File, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, newOpenError(s.path, err)
	}
	return file, nil
}

// Close releases the file handle.
func (s *Source) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
