package insts

import (
	"errors"
	"fmt"
)

// Decode errors. Every error returned by the decoder wraps one of these.
var (
	ErrInvalidHex             = errors.New("invalid hexadecimal input")
	ErrUnsupportedFormat      = errors.New("unsupported instruction format, expected 6 or 8 hex digits")
	ErrInvalidFlagCombination = errors.New("invalid flag combination b=1, p=1")
)

// DecodeError reports the input that failed to decode.
type DecodeError struct {
	Code string // input as given
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorKind returns a stable name for a decode error, or "" if err is not
// one.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidHex):
		return "invalid_hex"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrInvalidFlagCombination):
		return "invalid_flag_combination"
	default:
		return ""
	}
}
