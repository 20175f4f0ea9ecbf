package textutil

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var ErrEmptyNumber = errors.New("empty number")

// ParseNumber parses an unsigned integer written in hex with a 0x prefix, in
// octal with a leading 0, or in decimal.
func ParseNumber(text string) (uint64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, ErrEmptyNumber
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case len(s) > 1 && s[0] == '0':
		s, base = s[1:], 8
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return n, nil
}

// ParseOffsetExpr evaluates a sum of products of numbers, such as
// "0x100 + 16 * 4". Each number is read by ParseNumber.
func ParseOffsetExpr(text string) (uint64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyNumber
	}
	var sum uint64
	for _, term := range strings.Split(text, "+") {
		product := uint64(1)
		for _, factor := range strings.Split(term, "*") {
			n, err := ParseNumber(factor)
			if err != nil {
				return 0, err
			}
			hi, lo := bits.Mul64(product, n)
			if hi != 0 {
				return 0, fmt.Errorf("%q overflows", text)
			}
			product = lo
		}
		var carry uint64
		sum, carry = bits.Add64(sum, product, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%q overflows", text)
		}
	}
	return sum, nil
}
