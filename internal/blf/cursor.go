package blf

import (
	"encoding/binary"
	"fmt"
)

// cursor performs bounds-checked reads at offsets relative to buf.
// base is the absolute offset of buf[0] in the decompressed buffer and
// total the length of that buffer, both used only for error reporting.
type cursor struct {
	buf   []byte
	base  int
	total int
}

func newCursor(buf []byte) cursor {
	return cursor{buf: buf, total: len(buf)}
}

// sub returns a cursor over buf[off:off+n].
func (c cursor) sub(off, n int) (cursor, error) {
	b, err := c.bytes(off, n)
	if err != nil {
		return cursor{}, err
	}
	return cursor{buf: b, base: c.base + off, total: c.total}, nil
}

func (c cursor) bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(c.buf) || n > len(c.buf)-off {
		return nil, &TruncatedBufferError{Offset: c.base + off, Width: n, Len: c.total}
	}
	return c.buf[off : off+n : off+n], nil
}

// uint reads an unsigned integer of width 1, 2, 4 or 8 bytes.
func (c cursor) uint(off, width int, order binary.ByteOrder) (uint64, error) {
	b, err := c.bytes(off, width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(order.Uint16(b)), nil
	case 4:
		return uint64(order.Uint32(b)), nil
	case 8:
		return order.Uint64(b), nil
	}
	return 0, fmt.Errorf("%w: unsupported integer width %d", ErrInvalidLayout, width)
}

// int reads a two's complement signed integer of width 1, 2, 4 or 8 bytes.
func (c cursor) int(off, width int, order binary.ByteOrder) (int64, error) {
	u, err := c.uint(off, width, order)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	}
	return int64(u), nil
}

func (c cursor) zero(off, n int) (bool, error) {
	b, err := c.bytes(off, n)
	if err != nil {
		return false, err
	}
	for _, v := range b {
		if v != 0 {
			return false, nil
		}
	}
	return true, nil
}
