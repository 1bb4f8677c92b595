// Package hexcodec converts between byte values, hexadecimal text and
// characters. All functions are pure.
package hexcodec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

// BinaryUnitWidth is the length of one rendered byte, " 0xHH".
const BinaryUnitWidth = 5

const hexDigits = "0123456789ABCDEF"

// ByteToHex returns b as two uppercase hex digits.
func ByteToHex(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}

// RenderByte returns b in the receive-buffer format " 0xHH".
func RenderByte(b byte) string {
	return " 0x" + ByteToHex(b)
}

// HexToByte parses a single prefixed hex byte such as "0xFF" or "&h41".
// The prefix is required and must be followed by exactly two hex digits.
func HexToByte(s string) (byte, error) {
	s = strings.TrimSpace(s)
	var digits string
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		digits = s[2:]
	case len(s) > 2 && (s[:2] == "&h" || s[:2] == "&H"):
		digits = s[2:]
	default:
		return 0, fmt.Errorf("%w: %q must start with 0x or &h", domain.ErrParse, s)
	}
	if len(digits) != 2 {
		return 0, fmt.Errorf("%w: %q must have exactly two hex digits", domain.ErrParse, s)
	}
	hi, ok1 := nibble(digits[0])
	lo, ok2 := nibble(digits[1])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %q is not valid hex", domain.ErrParse, s)
	}
	return hi<<4 | lo, nil
}

// CharToByteInfo returns the byte value of r and its hex rendering.
// Characters beyond a single byte are rejected.
func CharToByteInfo(r rune) (byte, string, error) {
	if r < 0 || r > 0xFF {
		return 0, "", fmt.Errorf("%w: %q does not fit in a byte", domain.ErrParse, r)
	}
	b := byte(r)
	return b, ByteToHex(b), nil
}

// IsPrintable reports whether r is worth showing as a character literal:
// a letter, digit, punctuation, symbol or whitespace.
func IsPrintable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) ||
		unicode.IsSymbol(r) || unicode.IsSpace(r)
}

// ParseBytes parses a message typed in binary mode. Whitespace and 0x
// prefixes separate groups of hex digits, and every group must hold whole
// bytes: "0x41 0x42", "41 42", "4142" and "0x410x42" all yield {0x41, 0x42},
// while "4 0x1" and "A0xB" are rejected rather than joined across the gap.
func ParseBytes(s string) ([]byte, error) {
	out := []byte{}
	for _, field := range strings.Fields(s) {
		for _, group := range splitPrefixes(field) {
			if len(group)%2 != 0 {
				return nil, fmt.Errorf("%w: %q is not a whole number of bytes", domain.ErrParse, group)
			}
			for i := 0; i < len(group); i += 2 {
				hi, ok1 := nibble(group[i])
				lo, ok2 := nibble(group[i+1])
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("%w: %q is not valid hex", domain.ErrParse, group[i:i+2])
				}
				out = append(out, hi<<4|lo)
			}
		}
	}
	return out, nil
}

// splitPrefixes cuts a field at every 0x or 0X prefix, dropping empty
// groups.
func splitPrefixes(field string) []string {
	var groups []string
	for field != "" {
		i := strings.Index(strings.ToLower(field), "0x")
		if i < 0 {
			groups = append(groups, field)
			break
		}
		if i > 0 {
			groups = append(groups, field[:i])
		}
		field = field[i+2:]
	}
	return groups
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
