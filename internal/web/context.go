package web

import (
	"context"
	"net/http"

	"github.com/halostats/uploadserver/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to context for
// ingest logging. RemoteAddr has already been resolved by TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
