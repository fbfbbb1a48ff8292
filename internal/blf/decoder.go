package blf

import (
	"fmt"
	"iter"
)

// Decoder walks the player region of a decompressed buffer one slot at a time.
//
// A Decoder is a single-use sequence: once Next returns false it stays false.
// It copies the fixed region when created and never references the caller's
// buffer afterwards.
//
//	d := blf.NewDecoder(buf, blf.LayoutV1)
//	for d.Next() {
//	    rec := d.Record()
//	}
//	if err := d.Err(); err != nil { ... }
type Decoder struct {
	layout Layout
	region []byte
	slot   int
	rec    PlayerRecord
	err    error
}

// NewDecoder prepares a walk over buf using layout. Structural problems such
// as a buffer shorter than the region are reported by Err once Next returns false.
func NewDecoder(buf []byte, layout Layout) *Decoder {
	d := &Decoder{layout: layout}
	if err := layout.Validate(); err != nil {
		d.err = err
		return d
	}
	if len(buf) < layout.End() {
		d.err = &TruncatedBufferError{Offset: layout.Base, Width: layout.RegionLength, Len: len(buf)}
		return d
	}
	d.region = make([]byte, layout.RegionLength)
	copy(d.region, buf[layout.Base:layout.End()])
	return d
}

// Next advances to the next populated slot. Empty slots are skipped.
func (d *Decoder) Next() bool {
	if d.region == nil {
		return false
	}
	c := cursor{buf: d.region, base: d.layout.Base, total: d.layout.End()}
	for d.slot < d.layout.Slots() {
		i := d.slot
		d.slot++

		slot, err := c.sub(i*d.layout.Stride, d.layout.Stride)
		if err != nil {
			return d.fail(err)
		}
		rec, ok, err := d.layout.decodeSlot(slot)
		if err != nil {
			return d.fail(fmt.Errorf("slot %d: %w", i, err))
		}
		if !ok {
			continue
		}
		rec.Slot = i
		d.rec = rec
		return true
	}
	d.region = nil
	return false
}

func (d *Decoder) fail(err error) bool {
	d.err = err
	d.region = nil
	return false
}

// Record returns the record produced by the last successful Next.
func (d *Decoder) Record() PlayerRecord {
	return d.rec
}

// Err returns the structural error that stopped the walk, if any.
func (d *Decoder) Err() error {
	return d.err
}

// All adapts the decoder to a range-over-func sequence. If the walk stops on
// an error, it is yielded last with a zero record.
func (d *Decoder) All() iter.Seq2[PlayerRecord, error] {
	return func(yield func(PlayerRecord, error) bool) {
		for d.Next() {
			if !yield(d.Record(), nil) {
				return
			}
		}
		if err := d.Err(); err != nil {
			yield(PlayerRecord{}, err)
		}
	}
}

// Decode is NewDecoder with LayoutV1.
func Decode(buf []byte) *Decoder {
	return NewDecoder(buf, LayoutV1)
}

// DecodeAll drains a decoder. On a structural error it returns the records
// decoded before the failure together with the error.
func DecodeAll(buf []byte, layout Layout) ([]PlayerRecord, error) {
	d := NewDecoder(buf, layout)
	var out []PlayerRecord
	for d.Next() {
		out = append(out, d.Record())
	}
	return out, d.Err()
}

// decodeSlot reads one slot. ok is false for an empty slot.
func (l Layout) decodeSlot(c cursor) (rec PlayerRecord, ok bool, err error) {
	empty, err := c.zero(l.ID.Offset, l.ID.Width)
	if err != nil || empty {
		return rec, false, err
	}

	if rec.XUID, err = c.uint(l.ID.Offset, l.ID.Width, l.ID.Order); err != nil {
		return rec, false, err
	}
	if rec.PlayerName, err = readText(c, l.Name); err != nil {
		return rec, false, err
	}
	if l.ServiceTag.Width > 0 {
		if rec.ServiceTag, err = readText(c, l.ServiceTag); err != nil {
			return rec, false, err
		}
	}

	for _, f := range l.Stats {
		var v int64
		switch f.Kind {
		case KindSigned:
			v, err = c.int(f.Offset, f.Width, f.Order)
		default:
			var u uint64
			u, err = c.uint(f.Offset, f.Width, f.Order)
			v = int64(u)
		}
		if err != nil {
			return rec, false, err
		}
		rec.SetStat(f.Name, v)
	}
	return rec, true, nil
}

func readText(c cursor, f Field) (string, error) {
	b, err := c.bytes(f.Offset, f.Width)
	if err != nil {
		return "", err
	}
	return decodeText(b, f.Text)
}
