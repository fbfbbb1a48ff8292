// Package stats turns decoded player records into service-record updates.
//
// The decoder reports every populated slot. Guests are local profiles whose
// display name the client suffixes with a parenthesised index, e.g. "Chief(1)";
// they have no service record and are dropped here.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/halostats/uploadserver/internal/blf"
)

// IsGuest reports whether name follows the client's guest naming convention.
// The suffix is chosen by the client and is not verified server-side.
func IsGuest(name string) bool {
	return strings.HasSuffix(name, ")")
}

// UpdateServiceRecord folds one player's match stats into their service record.
// Applying the same (XUID, MatchID) pair more than once must have no further effect.
type UpdateServiceRecord struct {
	XUID    uint64
	MatchID uuid.UUID
	Player  blf.PlayerRecord
}

// Sink applies service-record updates.
type Sink interface {
	UpdateServiceRecord(ctx context.Context, cmd UpdateServiceRecord) error
}

// Summary counts what a Dispatch did with its records.
type Summary struct {
	Forwarded int `json:"forwarded"`
	Guests    int `json:"guests"`
}

// Dispatcher filters guests and forwards one command per remaining record.
type Dispatcher struct {
	sink Sink
}

// NewDispatcher returns a Dispatcher writing to sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch forwards records in order and stops at the first sink failure,
// returning the counts up to that point. Duplicate XUIDs are forwarded as-is.
func (d *Dispatcher) Dispatch(ctx context.Context, matchID uuid.UUID, records []blf.PlayerRecord) (Summary, error) {
	var sum Summary
	for _, rec := range records {
		if IsGuest(rec.PlayerName) {
			sum.Guests++
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		cmd := UpdateServiceRecord{XUID: rec.XUID, MatchID: matchID, Player: rec}
		if err := d.sink.UpdateServiceRecord(ctx, cmd); err != nil {
			return sum, fmt.Errorf("update service record %016x: %w", rec.XUID, err)
		}
		sum.Forwarded++
	}
	return sum, nil
}
