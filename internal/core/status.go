package core

import "time"

// Status is a point-in-time view of ingest activity since startup.
type Status struct {
	StartedAt time.Time           `json:"started_at"`
	Uptime    time.Duration       `json:"uptime_ns"`
	Limiter   UploadLimiterStatus `json:"limiter"`

	Uploads               int64 `json:"uploads"`
	CrashDumps            int64 `json:"crash_dumps"`
	Rejected              int64 `json:"rejected"`
	Records               int64 `json:"records"`
	Forwarded             int64 `json:"forwarded"`
	Guests                int64 `json:"guests"`
	DecompressionFailures int64 `json:"decompression_failures"`
	Truncated             int64 `json:"truncated"`
}

// Status returns the current ingest counters.
func (s *Service) Status() Status {
	return Status{
		StartedAt:             s.startedAt,
		Uptime:                s.now().Sub(s.startedAt),
		Limiter:               s.limiter.Status(),
		Uploads:               s.counters.uploads.Load(),
		CrashDumps:            s.counters.crashDumps.Load(),
		Rejected:              s.counters.rejected.Load(),
		Records:               s.counters.records.Load(),
		Forwarded:             s.counters.forwarded.Load(),
		Guests:                s.counters.guests.Load(),
		DecompressionFailures: s.counters.decompressionFailures.Load(),
		Truncated:             s.counters.truncated.Load(),
	}
}
