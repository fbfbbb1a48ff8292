// Package store persists cumulative per-player service records in PostgreSQL.
//
// XUIDs are unsigned 64-bit values and are stored bit-for-bit in BIGINT
// columns; [ServiceRecords] converts in both directions.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halostats/uploadserver/internal/stats"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned by Get when no service record exists for a XUID.
var ErrNotFound = errors.New("service record not found")

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ServiceRecord is a player's cumulative totals across recorded matches.
type ServiceRecord struct {
	XUID           uint64    `json:"xuid"`
	PlayerName     string    `json:"player_name"`
	ServiceTag     string    `json:"service_tag"`
	Games          int64     `json:"games"`
	Kills          int64     `json:"kills"`
	Deaths         int64     `json:"deaths"`
	Assists        int64     `json:"assists"`
	Betrayals      int64     `json:"betrayals"`
	Suicides       int64     `json:"suicides"`
	Headshots      int64     `json:"headshots"`
	Score          int64     `json:"score"`
	SecondsPlayed  int64     `json:"seconds_played"`
	BestKillStreak int64     `json:"best_kill_streak"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS service_records (
	xuid            BIGINT PRIMARY KEY,
	player_name     TEXT NOT NULL,
	service_tag     TEXT NOT NULL DEFAULT '',
	games           BIGINT NOT NULL DEFAULT 0,
	kills           BIGINT NOT NULL DEFAULT 0,
	deaths          BIGINT NOT NULL DEFAULT 0,
	assists         BIGINT NOT NULL DEFAULT 0,
	betrayals       BIGINT NOT NULL DEFAULT 0,
	suicides        BIGINT NOT NULL DEFAULT 0,
	headshots       BIGINT NOT NULL DEFAULT 0,
	score           BIGINT NOT NULL DEFAULT 0,
	seconds_played  BIGINT NOT NULL DEFAULT 0,
	best_kill_streak BIGINT NOT NULL DEFAULT 0,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS service_record_matches (
	xuid        BIGINT NOT NULL,
	match_id    UUID NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (xuid, match_id)
);
`

// Migrate creates the service record tables if they do not exist.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate service records: %w", err)
	}
	return nil
}

// ServiceRecords implements stats.Sink on top of PostgreSQL.
type ServiceRecords struct {
	db DB
}

// NewServiceRecords returns a store backed by db, usually a *pgxpool.Pool.
func NewServiceRecords(db DB) *ServiceRecords {
	return &ServiceRecords{db: db}
}

var _ stats.Sink = (*ServiceRecords)(nil)

const claimMatchSQL = `
INSERT INTO service_record_matches (xuid, match_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

const upsertServiceRecordSQL = `
INSERT INTO service_records (
	xuid, player_name, service_tag, games, kills, deaths, assists, betrayals,
	suicides, headshots, score, seconds_played, best_kill_streak, updated_at
) VALUES ($1, $2, $3, 1, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
ON CONFLICT (xuid) DO UPDATE SET
	player_name      = EXCLUDED.player_name,
	service_tag      = EXCLUDED.service_tag,
	games            = service_records.games + 1,
	kills            = service_records.kills + EXCLUDED.kills,
	deaths           = service_records.deaths + EXCLUDED.deaths,
	assists          = service_records.assists + EXCLUDED.assists,
	betrayals        = service_records.betrayals + EXCLUDED.betrayals,
	suicides         = service_records.suicides + EXCLUDED.suicides,
	headshots        = service_records.headshots + EXCLUDED.headshots,
	score            = service_records.score + EXCLUDED.score,
	seconds_played   = service_records.seconds_played + EXCLUDED.seconds_played,
	best_kill_streak = GREATEST(service_records.best_kill_streak, EXCLUDED.best_kill_streak),
	updated_at       = now()`

// UpdateServiceRecord adds one match to a player's totals. The (xuid, match)
// claim and the totals update commit together, so a repeated command is a no-op.
func (s *ServiceRecords) UpdateServiceRecord(ctx context.Context, cmd stats.UpdateServiceRecord) error {
	p := cmd.Player
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, claimMatchSQL, int64(cmd.XUID), pgtype.UUID{Bytes: cmd.MatchID, Valid: true})
		if err != nil {
			return fmt.Errorf("claim match: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, upsertServiceRecordSQL,
			int64(cmd.XUID), p.PlayerName, p.ServiceTag,
			p.Kills, p.Deaths, p.Assists, p.Betrayals, p.Suicides,
			p.Headshots, p.Score, p.SecondsPlayed, p.MostKillsInARow,
		)
		if err != nil {
			return fmt.Errorf("upsert service record: %w", err)
		}
		return nil
	})
}

const getServiceRecordSQL = `
SELECT xuid, player_name, service_tag, games, kills, deaths, assists, betrayals,
	suicides, headshots, score, seconds_played, best_kill_streak, updated_at
FROM service_records
WHERE xuid = $1`

// Get returns the service record for xuid.
func (s *ServiceRecords) Get(ctx context.Context, xuid uint64) (*ServiceRecord, error) {
	var (
		r  ServiceRecord
		id int64
	)
	err := s.db.QueryRow(ctx, getServiceRecordSQL, int64(xuid)).Scan(
		&id, &r.PlayerName, &r.ServiceTag, &r.Games, &r.Kills, &r.Deaths, &r.Assists,
		&r.Betrayals, &r.Suicides, &r.Headshots, &r.Score, &r.SecondsPlayed,
		&r.BestKillStreak, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service record: %w", err)
	}
	r.XUID = uint64(id)
	return &r, nil
}
