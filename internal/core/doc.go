// Package core implements stats upload ingest independent of the HTTP layer.
//
// # Upload Flow
//
// Game clients post two kinds of payload. Stats uploads carry a content type
// of the form application/x-halo3-<subtype>; crash dumps carry none. For a
// stats upload [Service.IngestStats]:
//
//  1. Parses the subtype with [ParseContentType], rejecting anything else
//  2. Waits for a slot from the [UploadLimiter]
//  3. For "multi" uploads, inflates the BLF container with [blf.DecompressLimit]
//  4. Archives the inflated (or, for other subtypes, raw) bytes
//  5. Decodes the player-record region and dispatches one service record
//     update per non-guest player
//
// A failed inflate archives the raw bytes before the error is returned, so
// broken uploads stay inspectable. A truncated container is not fatal: the
// records read so far are dispatched and the result is flagged.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - BLF001-BLF002: Container errors (inflate failed, truncated region)
//   - DB004-DB007: Service record database errors
//   - FILE001-FILE005: File errors (size, missing, empty)
//   - UPL002-UPL006: Upload errors (busy, cancelled, timeout, unrecognized)
//
// # Retention
//
// [Service.StartRetentionScheduler] periodically removes archived uploads
// older than the configured number of days when the archive store supports
// pruning.
package core
