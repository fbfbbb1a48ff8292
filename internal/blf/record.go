package blf

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// PlayerRecord is one populated slot of the player region.
type PlayerRecord struct {
	Slot       int    `json:"slot"`
	XUID       uint64 `json:"xuid"`
	PlayerName string `json:"player_name"`
	ServiceTag string `json:"service_tag,omitempty"`

	Team            int64 `json:"team"`
	Place           int64 `json:"place"`
	Score           int64 `json:"score"`
	Kills           int64 `json:"kills"`
	Deaths          int64 `json:"deaths"`
	Assists         int64 `json:"assists"`
	Betrayals       int64 `json:"betrayals"`
	Suicides        int64 `json:"suicides"`
	Headshots       int64 `json:"headshots"`
	MostKillsInARow int64 `json:"most_kills_in_a_row"`
	SecondsPlayed   int64 `json:"seconds_played"`
}

// Stat returns the value of the named stat field.
func (r PlayerRecord) Stat(name string) (int64, bool) {
	p := r.statPtr(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetStat assigns the named stat field. Unknown names report false.
func (r *PlayerRecord) SetStat(name string, v int64) bool {
	p := r.statPtr(name)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (r *PlayerRecord) statPtr(name string) *int64 {
	switch name {
	case StatTeam:
		return &r.Team
	case StatPlace:
		return &r.Place
	case StatScore:
		return &r.Score
	case StatKills:
		return &r.Kills
	case StatDeaths:
		return &r.Deaths
	case StatAssists:
		return &r.Assists
	case StatBetrayals:
		return &r.Betrayals
	case StatSuicides:
		return &r.Suicides
	case StatHeadshots:
		return &r.Headshots
	case StatMostKillsInARow:
		return &r.MostKillsInARow
	case StatSecondsPlayed:
		return &r.SecondsPlayed
	}
	return nil
}

// TextCodec returns the x/text encoding for a UTF-16 text encoding, or nil for ASCII.
func TextCodec(t TextEncoding) encoding.Encoding {
	switch t {
	case TextUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case TextUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return nil
}

// decodeText decodes a fixed-width text field up to its first NUL character.
// Anything that is not padding is kept as-is.
func decodeText(b []byte, t TextEncoding) (string, error) {
	codec := TextCodec(t)
	if codec == nil {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return string(b), nil
	}

	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			b = b[:i]
			break
		}
	}
	out, err := codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("blf: decode text: %w", err)
	}
	return string(out), nil
}
