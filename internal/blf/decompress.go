package blf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// HeaderSize is the transport framing header that precedes the compressed stream.
const HeaderSize = 12

// DefaultMaxDecompressedSize bounds the inflated size of one upload.
const DefaultMaxDecompressedSize = 8 << 20

// MaxDecompressedSizeLimit is the largest output cap accepted by configuration.
const MaxDecompressedSizeLimit = 1 << 30

// Decompress strips the framing header from raw and inflates the rest.
func Decompress(raw []byte) ([]byte, error) {
	return DecompressLimit(raw, DefaultMaxDecompressedSize)
}

// DecompressLimit is Decompress with an explicit output cap. Output larger
// than limit is reported as a *DecompressionError. The stream may be zlib or
// gzip framed; gzip is recognised by its magic bytes.
func DecompressLimit(raw []byte, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, &DecompressionError{Err: fmt.Errorf("output limit %d must be positive", limit)}
	}
	if len(raw) < HeaderSize {
		return nil, &DecompressionError{Err: fmt.Errorf("upload is %d bytes, shorter than the %d byte header", len(raw), HeaderSize)}
	}

	zr, err := newInflater(raw[HeaderSize:])
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, limit))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	if int64(len(out)) == limit {
		// One more byte means the stream is over the cap.
		var extra [1]byte
		n, err := zr.Read(extra[:])
		if n > 0 {
			return nil, &DecompressionError{Err: fmt.Errorf("inflated size exceeds %d bytes", limit)}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &DecompressionError{Err: err}
		}
	}
	return out, nil
}

func newInflater(stream []byte) (io.ReadCloser, error) {
	if len(stream) >= 2 && stream[0] == 0x1f && stream[1] == 0x8b {
		return gzip.NewReader(bytes.NewReader(stream))
	}
	return zlib.NewReader(bytes.NewReader(stream))
}
