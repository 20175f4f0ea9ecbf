package textutil

import (
	"errors"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want uint64
	}{
		{"0", 0},
		{"42", 42},
		{" 42 ", 42},
		{"0x1F", 31},
		{"0X10", 16},
		{"010", 8},
		{"0xFFFFFFFFFFFFFFFF", ^uint64(0)},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.text)
		if err != nil {
			t.Fatalf("ParseNumber(%q) error: %v", tt.text, err)
		}
		if got != tt.want {
			t.Fatalf("ParseNumber(%q)=%d want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseNumberErrors(t *testing.T) {
	for _, text := range []string{"08", "0x", "abc", "-1", "1.5"} {
		if _, err := ParseNumber(text); err == nil {
			t.Fatalf("ParseNumber(%q) should fail", text)
		}
	}
	if _, err := ParseNumber("  "); !errors.Is(err, ErrEmptyNumber) {
		t.Fatalf("expected ErrEmptyNumber, got %v", err)
	}
}

func TestParseOffsetExpr(t *testing.T) {
	tests := []struct {
		text string
		want uint64
	}{
		{"0x100", 0x100},
		{"0x100 + 16 * 4", 0x140},
		{"16*4", 64},
		{"1 + 2 + 3", 6},
		{"2 * 3 + 4 * 5", 26},
	}
	for _, tt := range tests {
		got, err := ParseOffsetExpr(tt.text)
		if err != nil {
			t.Fatalf("ParseOffsetExpr(%q) error: %v", tt.text, err)
		}
		if got != tt.want {
			t.Fatalf("ParseOffsetExpr(%q)=%d want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseOffsetExprErrors(t *testing.T) {
	for _, text := range []string{"", "1 +", "* 2", "0xFFFFFFFFFFFFFFFF + 1", "0x100000000 * 0x100000000"} {
		if _, err := ParseOffsetExpr(text); err == nil {
			t.Fatalf("ParseOffsetExpr(%q) should fail", text)
		}
	}
}
