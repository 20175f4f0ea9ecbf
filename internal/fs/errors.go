package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
)

// OpenErrorKind classifies why a file could not be opened.
type OpenErrorKind int

const (
	KindOther OpenErrorKind = iota
	KindNotFound
	KindPermission
)

func (k OpenErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	default:
		return "i/o error"
	}
}

var errIsDirectory = errors.New("is a directory")

// OpenError is returned when a source cannot be opened or reopened.
type OpenError struct {
	Path string
	Kind OpenErrorKind
	Err  error
}

func newOpenError(path string, err error) *OpenError {
	kind := KindOther
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, iofs.ErrPermission):
		kind = KindPermission
	}
	return &OpenError{Path: path, Kind: kind, Err: err}
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ReadError reports a failed row read inside ReadWindow.
type ReadError struct {
	Row    uint64
	Offset uint64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read row %d at offset 0x%X: %v", e.Row, e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
