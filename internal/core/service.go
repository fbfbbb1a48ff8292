package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/halostats/uploadserver/internal/archive"
	"github.com/halostats/uploadserver/internal/blf"
	"github.com/halostats/uploadserver/internal/stats"
)

// ErrEmptyUpload is returned for zero-length uploads.
var ErrEmptyUpload = errors.New("empty file")

// matchNamespace scopes match ids derived from container contents.
var matchNamespace = uuid.MustParse("9b3c6a1e-52f4-4d0b-8e7a-3f1d2c4b5a60")

// MatchID derives a stable id for a decompressed game-results container.
// Re-uploads of the same container map to the same match, which makes
// service record updates idempotent across retries.
func MatchID(container []byte) uuid.UUID {
	return uuid.NewSHA1(matchNamespace, container)
}

// Options configures a Service.
type Options struct {
	Archive archive.Store // required
	Sink    stats.Sink    // required

	// Limiter bounds concurrent ingests; a default limiter is used when nil.
	Limiter *UploadLimiter

	// MaxDecompressedSize caps inflated containers
	// (default: blf.DefaultMaxDecompressedSize).
	MaxDecompressedSize int64

	// Now is the archive clock (default: time.Now).
	Now func() time.Time
}

// Service ingests stats uploads and crash dumps.
type Service struct {
	archive         archive.Store
	dispatcher      *stats.Dispatcher
	limiter         *UploadLimiter
	maxDecompressed int64
	now             func() time.Time
	startedAt       time.Time

	counters counters
}

type counters struct {
	uploads               atomic.Int64
	crashDumps            atomic.Int64
	rejected              atomic.Int64
	records               atomic.Int64
	forwarded             atomic.Int64
	guests                atomic.Int64
	decompressionFailures atomic.Int64
	truncated             atomic.Int64
}

// NewService creates a new Service instance.
func NewService(opts Options) (*Service, error) {
	if opts.Archive == nil {
		return nil, errors.New("core: archive store is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("core: service record sink is required")
	}
	if opts.Limiter == nil {
		opts.Limiter = NewUploadLimiter(DefaultMaxConcurrentUploads, DefaultMaxWaitTime)
	}
	if opts.MaxDecompressedSize <= 0 {
		opts.MaxDecompressedSize = blf.DefaultMaxDecompressedSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		archive:         opts.Archive,
		dispatcher:      stats.NewDispatcher(opts.Sink),
		limiter:         opts.Limiter,
		maxDecompressed: opts.MaxDecompressedSize,
		now:             opts.Now,
		startedAt:       opts.Now(),
	}, nil
}

// Limiter returns the service's upload limiter.
func (s *Service) Limiter() *UploadLimiter {
	return s.limiter
}

// WaitForUploads blocks until in-flight ingests finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
