package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/halostats/uploadserver/internal/blf"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "decompression error maps correctly",
			err:         &blf.DecompressionError{Err: errors.New("zlib: invalid header")},
			wantCode:    "BLF001",
			wantMessage: "The stats container could not be decompressed",
		},
		{
			name:        "truncated buffer maps correctly",
			err:         &blf.TruncatedBufferError{Offset: 0x4e4, Width: 0x11e0, Len: 100},
			wantCode:    "BLF002",
			wantMessage: "The stats container is shorter than the player record region",
		},
		{
			name:        "unrecognized upload maps correctly",
			err:         ErrUnrecognizedUpload,
			wantCode:    "UPL006",
			wantMessage: "Unrecognized upload type",
		},
		{
			name:        "limiter saturation maps correctly",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "Too many uploads in progress",
		},
		{
			name:        "wrapped deadline is a request timeout",
			err:         fmt.Errorf("dispatch service records: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("read tcp: i/o timeout"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
		},
		{
			name:        "request body too large maps correctly",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "Upload exceeds the maximum size limit",
		},
		{
			name:        "empty upload maps correctly",
			err:         ErrEmptyUpload,
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("BLF: DECOMPRESSION FAILED"),
			wantCode:    "BLF001",
			wantMessage: "The stats container could not be decompressed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrUnrecognizedUpload)

	expected := "Unrecognized upload type (Code: UPL006). Send stats with an application/x-halo3-* content type"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrTooManyUploads,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := &blf.DecompressionError{Err: errors.New("unexpected EOF")}
		userErr := NewUserError(techErr)

		if userErr.Error() != "The stats container could not be decompressed" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, blf.ErrDecompression) {
			t.Error("Unwrap() should expose the decompression error")
		}
	})
}
