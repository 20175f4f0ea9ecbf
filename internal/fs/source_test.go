package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func openTemp(t *testing.T, content string) *Source {
	t.Helper()
	source, err := Open(writeTempFile(t, content))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = source.Close()
	})
	return source
}

func TestReadWindow(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		win       Window
		lineWidth uint64
		want      string
	}{
		{"window larger than file", "01234567", Window{0, 0, 16, 16}, 16, "01234567"},
		{"top left", "0123456789abcdef", Window{0, 0, 4, 2}, 8, "012389ab"},
		{"top right", "0123456789abcdef", Window{4, 0, 4, 2}, 8, "4567cdef"},
		{"bottom left", "0123456789abcdef", Window{0, 1, 4, 2}, 8, "89ab"},
		{"short last row", "0123456789abcde", Window{0, 0, 4, 4}, 4, "0123456789abcde"},
		{"x beyond line width", "0123456789abcdef", Window{10, 0, 4, 2}, 8, "abcd"},
		{"empty window", "0123456789abcdef", Window{0, 0, 0, 2}, 8, ""},
		{"rows past eof", "0123", Window{0, 5, 4, 2}, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := openTemp(t, tt.content)
			got, err := source.ReadWindow(tt.win, tt.lineWidth, nil)
			if err != nil {
				t.Fatalf("ReadWindow: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("ReadWindow(%+v, %d)=%q want %q", tt.win, tt.lineWidth, got, tt.want)
			}
		})
	}
}

func TestReadWindowReusesBuffer(t *testing.T) {
	source := openTemp(t, "0123456789abcdef")
	buf := make([]byte, 0, 64)
	buf = append(buf, "stale"...)

	got, err := source.ReadWindow(Window{0, 0, 4, 2}, 8, buf)
	if err != nil {
		t.Fatalf("ReadWindow: %v", err)
	}
	if string(got) != "012389ab" {
		t.Fatalf("expected buffer to be cleared first, got %q", got)
	}
	if &got[0] != &buf[:1][0] {
		t.Fatalf("expected the destination buffer to be reused")
	}
}

func TestReadWindowRowOffsetOverflow(t *testing.T) {
	source := openTemp(t, "0123456789abcdef")
	got, err := source.ReadWindow(Window{X: 0, Y: 1 << 62, W: 4, H: 2}, 16, nil)
	if err != nil {
		t.Fatalf("ReadWindow: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no bytes for overflowing offsets, got %q", got)
	}
}

func TestReadWindowAfterClose(t *testing.T) {
	source := openTemp(t, "0123")
	_ = source.Close()
	_, err := source.ReadWindow(Window{0, 0, 4, 1}, 4, nil)
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected os.ErrClosed in chain, got %v", err)
	}
}

func TestSourceMetadata(t *testing.T) {
	path := writeTempFile(t, "0123456789")
	source, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer source.Close()

	if source.Name() != "data.bin" {
		t.Fatalf("Name=%q want %q", source.Name(), "data.bin")
	}
	if source.Path() != path {
		t.Fatalf("Path=%q want %q", source.Path(), path)
	}
	if source.Length() != 10 {
		t.Fatalf("Length=%d want 10", source.Length())
	}
	if source.LargeAddresses() {
		t.Fatalf("small file should not need large addresses")
	}
}

func TestReopenRoundTrip(t *testing.T) {
	source := openTemp(t, "0123456789abcdef")
	win := Window{2, 0, 4, 2}

	before, err := source.ReadWindow(win, 8, nil)
	if err != nil {
		t.Fatalf("ReadWindow: %v", err)
	}
	if err := source.Reopen(); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	after, err := source.ReadWindow(win, 8, nil)
	if err != nil {
		t.Fatalf("ReadWindow after reopen: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("reopen changed window bytes: %q vs %q", before, after)
	}
}

func TestReopenSeesExternalChanges(t *testing.T) {
	path := writeTempFile(t, "0123")
	source, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer source.Close()

	if err := os.WriteFile(path, []byte("01234567"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := source.Reopen(); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if source.Length() != 8 {
		t.Fatalf("Length after reopen=%d want 8", source.Length())
	}
}

func TestPeekWindowReadsCurrentContents(t *testing.T) {
	path := writeTempFile(t, "0123456789abcdef")
	source, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer source.Close()

	if err := os.WriteFile(path, []byte("0123X5"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, length, err := source.PeekWindow(Window{X: 0, Y: 1, W: 4, H: 2}, 4, nil)
	if err != nil {
		t.Fatalf("PeekWindow: %v", err)
	}
	if string(got) != "X5" || length != 6 {
		t.Fatalf("PeekWindow=%q length=%d want %q length 6", got, length, "X5")
	}
	if source.Length() != 16 {
		t.Fatalf("Length=%d want 16, peeking must not refresh the source", source.Length())
	}
}

func TestReopenFailureKeepsHandle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("open files cannot be removed on windows")
	}
	path := writeTempFile(t, "0123")
	source, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer source.Close()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	var openErr *OpenError
	if err := source.Reopen(); !errors.As(err, &openErr) || openErr.Kind != KindNotFound {
		t.Fatalf("expected not-found OpenError, got %v", err)
	}
	got, err := source.ReadWindow(Window{0, 0, 4, 1}, 4, nil)
	if err != nil || string(got) != "0123" {
		t.Fatalf("old handle should remain readable, got %q, %v", got, err)
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *OpenError, got %v", err)
	}
	if openErr.Kind != KindNotFound {
		t.Fatalf("Kind=%v want %v", openErr.Kind, KindNotFound)
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("expected errors.Is(err, fs.ErrNotExist)")
	}

	_, err = Open(t.TempDir())
	if !errors.As(err, &openErr) || openErr.Kind != KindOther {
		t.Fatalf("expected KindOther for a directory, got %v", err)
	}
}

func TestOpenPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	path := writeTempFile(t, "secret")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	_, err := Open(path)
	var openErr *OpenError
	if !errors.As(err, &openErr) || openErr.Kind != KindPermission {
		t.Fatalf("expected permission OpenError, got %v", err)
	}
}
