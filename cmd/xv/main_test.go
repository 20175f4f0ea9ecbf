package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runXV(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	// An empty config keeps the user's own config out of the test.
	cfg := writeTemp(t, "config.toml", "")
	code := run(append([]string{"--config", cfg}, args...), &stdout, &stderr, false)
	return code, sgr.ReplaceAllString(stdout.String(), ""), stderr.String()
}

func TestRunDumpsWhenNotInteractive(t *testing.T) {
	path := writeTemp(t, "data.bin", "0123456789abcdef")

	code, out, errOut := runXV(t, path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	want := "0x00000000 │ 30 31 32 33 34 35 36 37┊38 39 61 62 63 64 65 66 │ 01234567 89abcdef\n"
	if out != want {
		t.Fatalf("unexpected dump\nwant %q\n got %q", want, out)
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	path := writeTemp(t, "data.bin", "01234567")
	cfg := writeTemp(t, "xv.toml", "line_width = 2\nvisual = \"ascii\"\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfg, "-w", "4", "--group", "0", "--visual", "off", "-o", "4", "-n", "1", path}, &stdout, &stderr, false)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}
	if got := sgr.ReplaceAllString(stdout.String(), ""); got != "0x00000004 │ 34 35 36 37\n" {
		t.Fatalf("unexpected dump %q", got)
	}
}

func TestRunReportsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.bin")

	code, _, errOut := runXV(t, missing)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if strings.TrimSpace(errOut) != "File not found: "+missing {
		t.Fatalf("unexpected message %q", errOut)
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no file", args: nil},
		{name: "two files", args: []string{"a", "b"}},
		{name: "unknown flag", args: []string{"--bogus", "a"}},
		{name: "bad offset", args: []string{"-o", "0x", "a"}},
		{name: "bad visual", args: []string{"--visual", "braille", "a"}},
		{name: "zero width", args: []string{"-w", "0", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runXV(t, tt.args...); code != 2 {
				t.Fatalf("expected exit code 2, got %d", code)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, out, _ := runXV(t, "--help")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	for _, want := range []string{"USAGE:", "--width", "--dump", "--offset"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help should mention %q, got %q", want, out)
		}
	}
}

func TestRunWritesLogFile(t *testing.T) {
	path := writeTemp(t, "data.bin", "abc")
	logPath := filepath.Join(t.TempDir(), "xv.log")

	if code, _, errOut := runXV(t, "--log", logPath, path); code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"opened"`) {
		t.Fatalf("expected an open entry in the log, got %q", data)
	}
}
