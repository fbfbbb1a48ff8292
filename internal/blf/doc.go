// Package blf decodes the multiplayer stats container uploaded by game clients.
//
// An upload is a 12 byte framing header followed by a zlib stream. The
// inflated buffer holds a packed array of fixed-size player slots at a
// constant offset. The position and encoding of every value in a slot is
// described by a [Layout] table rather than by code, so supporting a new
// container version means adding a table.
//
// Decoding is bounded by the region size of the layout and never reads past
// the buffer: a short buffer yields a [TruncatedBufferError] and no records.
package blf
