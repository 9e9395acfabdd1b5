package insts

import (
	"fmt"
	"strconv"
	"strings"
)

// Encoding is a normalized instruction encoding.
type Encoding struct {
	Raw    string // uppercase hex digits
	Format Format
	Word   uint32
}

// ParseEncoding validates and normalizes a hex instruction encoding.
// The format is decided by the number of digits.
func ParseEncoding(hexCode string) (Encoding, error) {
	raw := strings.ToUpper(hexCode)

	if raw == "" || strings.IndexFunc(raw, notHexDigit) >= 0 {
		return Encoding{}, &DecodeError{Code: hexCode, Err: ErrInvalidHex}
	}

	var format Format
	switch len(raw) {
	case Format3.Digits():
		format = Format3
	case Format4.Digits():
		format = Format4
	default:
		return Encoding{}, &DecodeError{Code: hexCode, Err: ErrUnsupportedFormat}
	}

	word, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Encoding{}, &DecodeError{Code: hexCode, Err: ErrInvalidHex}
	}

	return Encoding{Raw: raw, Format: format, Word: uint32(word)}, nil
}

func notHexDigit(r rune) bool {
	return !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F')
}

// Binary returns the encoding as a zero-padded binary string of
// Format.Bits() characters.
func (e Encoding) Binary() string {
	return fmt.Sprintf("%0*b", e.Format.Bits(), e.Word)
}

// Key packs the encoding into a value that is unique per word and format.
func (e Encoding) Key() uint64 {
	return uint64(e.Format)<<32 | uint64(e.Word)
}
