package address

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength     = errors.New("user-friendly address should contain strictly 48 characters")
	ErrInvalidByteLength = errors.New("unknown address type: byte length is not equal to 36")
	ErrChecksumMismatch  = errors.New("wrong crc16 hashsum")
	ErrUnknownTag        = errors.New("unknown address tag")
	ErrInvalidWorkchain  = errors.New("invalid address workchain")
	ErrInvalidHashLength = errors.New("invalid address hex length, should be 64 characters")
	ErrInvalidHex        = errors.New("invalid address hex")
	ErrInvalidRawFormat  = errors.New("raw address should be workchain:hash")
)

// FormatError is returned for every address that cannot be parsed.
// Err is one of the Err* values of this package.
type FormatError struct {
	Input string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Input, e.Err.Error())
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(input string, err error) error {
	return &FormatError{Input: input, Err: err}
}
