package blf

import (
	"encoding/binary"
	"fmt"
)

// Fixed region of a version 1 multiplayer stats buffer.
const (
	RegionBase   = 0x4e4
	RegionLength = 0x11e0
	SlotStride   = 0x11e
	MaxSlots     = RegionLength / SlotStride
)

// FieldKind selects how a field's bytes are interpreted.
type FieldKind uint8

const (
	KindUnsigned FieldKind = iota + 1
	KindSigned
	KindText
)

// TextEncoding is the character encoding of a KindText field.
type TextEncoding uint8

const (
	TextASCII TextEncoding = iota + 1
	TextUTF16BE
	TextUTF16LE
)

// Stat field names. These key Layout.Stats entries to PlayerRecord fields.
const (
	StatTeam            = "team"
	StatPlace           = "place"
	StatScore           = "score"
	StatKills           = "kills"
	StatDeaths          = "deaths"
	StatAssists         = "assists"
	StatBetrayals       = "betrayals"
	StatSuicides        = "suicides"
	StatHeadshots       = "headshots"
	StatMostKillsInARow = "most_kills_in_a_row"
	StatSecondsPlayed   = "seconds_played"
)

// Field describes one fixed-offset value inside a record slot.
type Field struct {
	Name   string
	Offset int // from the start of the slot
	Width  int // in bytes
	Kind   FieldKind
	Order  binary.ByteOrder // numeric fields only
	Text   TextEncoding     // text fields only
}

// Layout is the versioned constant table for one container format version.
type Layout struct {
	Version      int
	Base         int
	RegionLength int
	Stride       int

	ID         Field
	Name       Field
	ServiceTag Field
	Stats      []Field
}

// LayoutV1 is the record layout written by current clients. Integers are
// big-endian and text is UTF-16BE.
var LayoutV1 = Layout{
	Version:      1,
	Base:         RegionBase,
	RegionLength: RegionLength,
	Stride:       SlotStride,

	ID:         Field{Name: "xuid", Offset: 0x00, Width: 8, Kind: KindUnsigned, Order: binary.BigEndian},
	Name:       Field{Name: "player_name", Offset: 0x08, Width: 32, Kind: KindText, Text: TextUTF16BE},
	ServiceTag: Field{Name: "service_tag", Offset: 0x28, Width: 10, Kind: KindText, Text: TextUTF16BE},
	Stats: []Field{
		{Name: StatTeam, Offset: 0x32, Width: 1, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatPlace, Offset: 0x33, Width: 1, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatScore, Offset: 0x34, Width: 4, Kind: KindSigned, Order: binary.BigEndian},
		{Name: StatKills, Offset: 0x38, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatDeaths, Offset: 0x3a, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatAssists, Offset: 0x3c, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatBetrayals, Offset: 0x3e, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatSuicides, Offset: 0x40, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatHeadshots, Offset: 0x42, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatMostKillsInARow, Offset: 0x44, Width: 2, Kind: KindUnsigned, Order: binary.BigEndian},
		{Name: StatSecondsPlayed, Offset: 0x48, Width: 4, Kind: KindUnsigned, Order: binary.BigEndian},
	},
}

var layouts = map[int]Layout{
	LayoutV1.Version: LayoutV1,
}

// LayoutFor returns the registered layout for a format version.
func LayoutFor(version int) (Layout, bool) {
	l, ok := layouts[version]
	return l, ok
}

// Slots returns the number of whole slots that fit in the region.
func (l Layout) Slots() int {
	if l.Stride <= 0 {
		return 0
	}
	return l.RegionLength / l.Stride
}

// End returns the exclusive end offset of the region.
func (l Layout) End() int {
	return l.Base + l.RegionLength
}

// Validate checks that the region is well formed and that every field lies
// inside one slot, so a walk can never read across slot boundaries.
func (l Layout) Validate() error {
	if l.Base < 0 || l.RegionLength <= 0 || l.Stride <= 0 {
		return fmt.Errorf("%w: v%d base=%d length=%d stride=%d", ErrInvalidLayout, l.Version, l.Base, l.RegionLength, l.Stride)
	}
	if l.Slots() == 0 || l.Slots()*l.Stride > l.RegionLength {
		return fmt.Errorf("%w: v%d stride %d does not fit region length %d", ErrInvalidLayout, l.Version, l.Stride, l.RegionLength)
	}
	if l.ID.Kind != KindUnsigned {
		return fmt.Errorf("%w: v%d identifier must be unsigned", ErrInvalidLayout, l.Version)
	}
	if l.Name.Kind != KindText {
		return fmt.Errorf("%w: v%d name must be text", ErrInvalidLayout, l.Version)
	}

	fields := append([]Field{l.ID, l.Name}, l.Stats...)
	if l.ServiceTag.Width > 0 {
		fields = append(fields, l.ServiceTag)
	}
	for _, f := range fields {
		if err := l.validateField(f); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) validateField(f Field) error {
	if f.Offset < 0 || f.Width <= 0 || f.Offset+f.Width > l.Stride {
		return fmt.Errorf("%w: v%d field %q [%#x,+%d) outside %d byte slot",
			ErrInvalidLayout, l.Version, f.Name, f.Offset, f.Width, l.Stride)
	}
	switch f.Kind {
	case KindUnsigned, KindSigned:
		switch f.Width {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("%w: v%d field %q has integer width %d", ErrInvalidLayout, l.Version, f.Name, f.Width)
		}
		if f.Order == nil {
			return fmt.Errorf("%w: v%d field %q has no byte order", ErrInvalidLayout, l.Version, f.Name)
		}
	case KindText:
		switch f.Text {
		case TextASCII:
		case TextUTF16BE, TextUTF16LE:
			if f.Width%2 != 0 {
				return fmt.Errorf("%w: v%d field %q has odd UTF-16 width %d", ErrInvalidLayout, l.Version, f.Name, f.Width)
			}
		default:
			return fmt.Errorf("%w: v%d field %q has no text encoding", ErrInvalidLayout, l.Version, f.Name)
		}
	default:
		return fmt.Errorf("%w: v%d field %q has unknown kind %d", ErrInvalidLayout, l.Version, f.Name, f.Kind)
	}
	return nil
}
