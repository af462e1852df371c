package tryi

import "errors"

var (
	// ErrInvalidEncoding is returned when a payload is not valid base64.
	ErrInvalidEncoding = errors.New("tryi: invalid base64 payload")

	// ErrInvalidLength is returned when a decoded payload is not a
	// multiple of 10 bytes.
	ErrInvalidLength = errors.New("tryi: payload must contain a multiple of 10 bytes")

	// ErrInvalidSize is returned when the "<width>;<height>;" prefix of a
	// sized payload is malformed.
	ErrInvalidSize = errors.New("tryi: invalid canvas size")

	// ErrInvalidDNA is returned for malformed DNA text.
	ErrInvalidDNA = errors.New("tryi: invalid DNA")
)
