// Package blftest builds synthetic stats containers for tests.
package blftest

import (
	"bytes"
	"fmt"

	"github.com/halostats/uploadserver/internal/blf"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Buffer returns a decompressed buffer exactly Base+RegionLength long with
// records written to slots 0..len(records)-1. Remaining slots are zeroed.
func Buffer(layout blf.Layout, records ...blf.PlayerRecord) []byte {
	buf := make([]byte, layout.End())
	for i, rec := range records {
		PutRecord(buf, layout, i, rec)
	}
	return buf
}

// PutRecord encodes rec into slot of buf. It panics if the slot does not fit,
// in the manner of httptest helpers.
func PutRecord(buf []byte, layout blf.Layout, slot int, rec blf.PlayerRecord) {
	if slot < 0 || slot >= layout.Slots() {
		panic(fmt.Sprintf("blftest: slot %d out of range [0,%d)", slot, layout.Slots()))
	}
	start := layout.Base + slot*layout.Stride
	if start+layout.Stride > len(buf) {
		panic(fmt.Sprintf("blftest: slot %d ends past buffer of %d bytes", slot, len(buf)))
	}
	s := buf[start : start+layout.Stride]
	clear(s)

	putUint(s, layout.ID, rec.XUID)
	putText(s, layout.Name, rec.PlayerName)
	if layout.ServiceTag.Width > 0 {
		putText(s, layout.ServiceTag, rec.ServiceTag)
	}
	for _, f := range layout.Stats {
		v, _ := rec.Stat(f.Name)
		putUint(s, f, uint64(v))
	}
}

// Compress frames buf the way a client does: a zeroed 12 byte header
// followed by a zlib stream.
func Compress(buf []byte) []byte {
	var out bytes.Buffer
	out.Write(make([]byte, blf.HeaderSize))
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(buf); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return out.Bytes()
}

// CompressGzip is Compress with a gzip stream instead of zlib.
func CompressGzip(buf []byte) []byte {
	var out bytes.Buffer
	out.Write(make([]byte, blf.HeaderSize))
	zw := gzip.NewWriter(&out)
	if _, err := zw.Write(buf); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return out.Bytes()
}

// Upload returns a complete LayoutV1 upload holding records.
func Upload(records ...blf.PlayerRecord) []byte {
	return Compress(Buffer(blf.LayoutV1, records...))
}

// Player returns a record with plausible stats for tests that only care
// about identity.
func Player(xuid uint64, name string) blf.PlayerRecord {
	return blf.PlayerRecord{
		XUID:            xuid,
		PlayerName:      name,
		ServiceTag:      "S117",
		Team:            1,
		Place:           1,
		Score:           25,
		Kills:           25,
		Deaths:          7,
		Assists:         4,
		Headshots:       9,
		MostKillsInARow: 6,
		SecondsPlayed:   600,
	}
}

func putUint(slot []byte, f blf.Field, v uint64) {
	b := slot[f.Offset : f.Offset+f.Width]
	switch f.Width {
	case 1:
		b[0] = byte(v)
	case 2:
		f.Order.PutUint16(b, uint16(v))
	case 4:
		f.Order.PutUint32(b, uint32(v))
	case 8:
		f.Order.PutUint64(b, v)
	default:
		panic(fmt.Sprintf("blftest: field %q width %d", f.Name, f.Width))
	}
}

func putText(slot []byte, f blf.Field, s string) {
	b := slot[f.Offset : f.Offset+f.Width]
	enc := []byte(s)
	if codec := blf.TextCodec(f.Text); codec != nil {
		var err error
		if enc, err = codec.NewEncoder().Bytes(enc); err != nil {
			panic(err)
		}
	}
	if len(enc) > len(b) {
		panic(fmt.Sprintf("blftest: %q does not fit %d byte field %q", s, f.Width, f.Name))
	}
	copy(b, enc)
}
