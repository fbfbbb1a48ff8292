package blf

import (
	"errors"
	"fmt"
)

var (
	// ErrDecompression matches any *DecompressionError via errors.Is.
	ErrDecompression = errors.New("blf: decompression failed")

	// ErrTruncatedBuffer matches any *TruncatedBufferError via errors.Is.
	ErrTruncatedBuffer = errors.New("blf: truncated buffer")

	// ErrInvalidLayout is returned when a Layout's fields do not fit its stride.
	ErrInvalidLayout = errors.New("blf: invalid layout")
)

// DecompressionError reports an upload that is not a valid compressed container.
// The same bytes always fail the same way, so callers reject the upload rather than retry.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("blf: decompression failed: %v", e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

func (e *DecompressionError) Is(target error) bool { return target == ErrDecompression }

// TruncatedBufferError reports a read of Width bytes at absolute Offset against a
// buffer of only Len bytes.
type TruncatedBufferError struct {
	Offset int
	Width  int
	Len    int
}

func (e *TruncatedBufferError) Error() string {
	return fmt.Sprintf("blf: truncated buffer: need %d bytes at offset %#x, buffer is %d bytes",
		e.Width, e.Offset, e.Len)
}

func (e *TruncatedBufferError) Is(target error) bool { return target == ErrTruncatedBuffer }
