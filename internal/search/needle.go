package search

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidHex = errors.New("invalid hex pattern")

// ParseQuery turns a prompt query into a needle. A leading ':' selects hex
// input (":de ad be ef"); anything else is taken literally.
func ParseQuery(query string) ([]byte, error) {
	if query == "" {
		return nil, ErrEmptyPattern
	}
	if strings.HasPrefix(query, ":") {
		return ParseHex(query[1:])
	}
	return []byte(query), nil
}

// ParseHex decodes hex digits, ignoring whitespace and an optional 0x prefix.
// A trailing odd digit becomes the high nibble of a final byte.
func ParseHex(text string) ([]byte, error) {
	digits := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)
	digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")
	if digits == "" {
		return nil, ErrEmptyPattern
	}

	out := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, ok := hexNibble(digits[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidHex, digits[i], i)
		}
		if i+1 == len(digits) {
			out = append(out, hi<<4)
			break
		}
		lo, ok := hexNibble(digits[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidHex, digits[i+1], i+1)
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// FormatHex renders b as space separated lowercase hex pairs.
func FormatHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString(b[i : i+1]))
	}
	return sb.String()
}

func hexNibble(ch byte) (byte, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}
