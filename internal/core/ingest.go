package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/halostats/uploadserver/internal/archive"
	"github.com/halostats/uploadserver/internal/blf"
	"github.com/halostats/uploadserver/internal/logging"
)

// Upload is one file posted by a game client.
type Upload struct {
	ContentType string // declared type of the multipart part
	Filename    string // client supplied
	Data        []byte
}

// StatsResult describes what IngestStats did with an upload.
type StatsResult struct {
	Kind        string    `json:"kind"`
	ArchivePath string    `json:"archive_path"`
	MatchID     uuid.UUID `json:"match_id"`
	Records     int       `json:"records"`
	Forwarded   int       `json:"forwarded"`
	Guests      int       `json:"guests"`

	// Truncated is set when the container ended inside the player region.
	// The region is decoded whole or not at all, so Records is zero then.
	Truncated bool `json:"truncated"`
}

// IngestStats archives a stats upload and, for multiplayer results, turns
// its player records into service record updates.
//
// A decompression failure archives the raw bytes and returns a
// *blf.DecompressionError. A truncated player region is not an error: the
// decompressed container is still archived, no records are dispatched and
// Truncated is set.
func (s *Service) IngestStats(ctx context.Context, up Upload) (*StatsResult, error) {
	kind, err := ParseContentType(up.ContentType)
	if err != nil {
		s.counters.rejected.Add(1)
		return nil, err
	}
	if len(up.Data) == 0 {
		s.counters.rejected.Add(1)
		return nil, ErrEmptyUpload
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	s.counters.uploads.Add(1)
	key := archive.Key{Kind: kind, Filename: up.Filename, Time: s.now()}
	res := &StatsResult{Kind: kind, ArchivePath: key.Path()}
	log := logging.WithFields(ctx, "kind", kind, "filename", up.Filename, "bytes", len(up.Data)).
		With(clientFields(ctx)...)

	if kind != SubtypeMulti {
		if err := s.archive.Put(ctx, key, up.Data); err != nil {
			return nil, fmt.Errorf("archive %s upload: %w", kind, err)
		}
		log.Info("stats upload archived", "path", res.ArchivePath)
		return res, nil
	}

	container, err := blf.DecompressLimit(up.Data, s.maxDecompressed)
	if err != nil {
		s.counters.decompressionFailures.Add(1)
		if aerr := s.archive.Put(ctx, key, up.Data); aerr != nil {
			log.Error("archive raw upload failed", "error", aerr)
		}
		log.Warn("stats upload rejected", "error", err, "path", res.ArchivePath)
		return nil, err
	}

	if err := s.archive.Put(ctx, key, container); err != nil {
		return nil, fmt.Errorf("archive %s upload: %w", kind, err)
	}

	res.MatchID = MatchID(container)
	records, err := blf.DecodeAll(container, blf.LayoutV1)
	if err != nil {
		if !errors.Is(err, blf.ErrTruncatedBuffer) {
			return nil, fmt.Errorf("decode player records: %w", err)
		}
		res.Truncated = true
		s.counters.truncated.Add(1)
		log.Warn("player record region truncated",
			"error", err,
			"decompressed_bytes", len(container),
			"records", len(records),
		)
	}
	res.Records = len(records)
	s.counters.records.Add(int64(len(records)))

	sum, err := s.dispatcher.Dispatch(ctx, res.MatchID, records)
	res.Forwarded, res.Guests = sum.Forwarded, sum.Guests
	s.counters.forwarded.Add(int64(sum.Forwarded))
	s.counters.guests.Add(int64(sum.Guests))
	if err != nil {
		log.Error("service record dispatch failed",
			"error", err,
			"match_id", res.MatchID,
			"forwarded", sum.Forwarded,
		)
		return nil, fmt.Errorf("dispatch service records: %w", err)
	}

	log.Info("stats upload processed",
		"match_id", res.MatchID,
		"records", res.Records,
		"forwarded", res.Forwarded,
		"guests", res.Guests,
		"truncated", res.Truncated,
	)
	return res, nil
}

// IngestCrashDump archives a crash dump under its original file name.
// A later dump with the same name replaces the earlier one.
func (s *Service) IngestCrashDump(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		s.counters.rejected.Add(1)
		return "", ErrEmptyUpload
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()

	key := archive.Key{Kind: archive.KindCrash, Filename: filename, Time: s.now()}
	if err := s.archive.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("archive crash dump: %w", err)
	}
	s.counters.crashDumps.Add(1)

	logging.WithFields(ctx, "filename", filename, "bytes", len(data), "path", key.Path()).
		With(clientFields(ctx)...).
		Info("crash dump stored")
	return key.Path(), nil
}
