package hexview

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Category classifies a byte value for colouring.
type Category uint8

const (
	AsciiControl Category = iota
	AsciiPrintable
	AsciiWhitespace
	Other
)

func (c Category) String() string {
	switch c {
	case AsciiControl:
		return "control"
	case AsciiPrintable:
		return "printable"
	case AsciiWhitespace:
		return "whitespace"
	default:
		return "other"
	}
}

// VisualMode selects how the text column renders bytes.
type VisualMode int

const (
	VisualUnicode VisualMode = iota
	VisualASCII
	VisualCP437
	VisualOff
)

var visualModeNames = [...]string{
	VisualUnicode: "unicode",
	VisualASCII:   "ascii",
	VisualCP437:   "cp437",
	VisualOff:     "off",
}

func (m VisualMode) String() string {
	if m < 0 || int(m) >= len(visualModeNames) {
		return "unknown"
	}
	return visualModeNames[m]
}

// Next cycles through the visual modes in declaration order.
func (m VisualMode) Next() VisualMode {
	return (m + 1) % VisualMode(len(visualModeNames))
}

// ParseVisualMode maps a configuration value onto a VisualMode.
func ParseVisualMode(value string) (VisualMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return VisualUnicode, nil
	}
	for i, name := range visualModeNames {
		if name == v {
			return VisualMode(i), nil
		}
	}
	return VisualUnicode, fmt.Errorf("unknown visual mode %q", value)
}

var (
	// HexDigits holds the two lowercase hex digits of every byte value.
	HexDigits [256]string
	// Categories holds the colour class of every byte value.
	Categories [256]Category

	unicodeTable [256]string
	asciiTable   [256]string
	cp437Table   [256]string
)

func init() {
	const digits = "0123456789abcdef"
	for i := 0; i < 256; i++ {
		b := byte(i)
		HexDigits[i] = string([]byte{digits[b>>4], digits[b&0x0f]})

		switch {
		case b == ' ':
			Categories[i] = AsciiWhitespace
		case b < 0x20 || b == 0x7f:
			Categories[i] = AsciiControl
		case b < 0x7f:
			Categories[i] = AsciiPrintable
		default:
			Categories[i] = Other
		}

		switch {
		case b < 0x20:
			unicodeTable[i] = string(rune(0x2400 + int(b)))
		case b == ' ':
			unicodeTable[i] = "␣"
		case b == 0x7f:
			unicodeTable[i] = "␡"
		case b < 0x7f:
			unicodeTable[i] = string(rune(b))
		default:
			unicodeTable[i] = "�"
		}

		if b >= 0x20 && b < 0x7f {
			asciiTable[i] = string(rune(b))
		} else {
			asciiTable[i] = "."
		}

		// Code page 437 decodes the C0 range and DEL as control characters,
		// which the terminal cannot show, so those keep their control pictures.
		if b <= 0x20 || b == 0x7f {
			cp437Table[i] = unicodeTable[i]
		} else {
			cp437Table[i] = string(charmap.CodePage437.DecodeByte(b))
		}
	}
}

// VisualTable returns the glyph for every byte value in the given mode.
// VisualOff shares the ASCII table; callers hide the column instead.
func VisualTable(mode VisualMode) *[256]string {
	switch mode {
	case VisualUnicode:
		return &unicodeTable
	case VisualCP437:
		return &cp437Table
	default:
		return &asciiTable
	}
}
