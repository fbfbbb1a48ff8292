package core

import (
	"errors"
	"testing"
)

func TestParseContentType(t *testing.T) {
	tests := []struct {
		ct      string
		want    string
		wantErr bool
	}{
		{"application/x-halo3-multi", "multi", false},
		{"application/x-halo3-campaign", "campaign", false},
		{"Application/X-Halo3-Multi", "multi", false},
		{"application/x-halo3-multi; charset=binary", "multi", false},
		{"application/x-halo3-game_variant-2", "game_variant-2", false},
		{"application/x-halo3-", "", true},
		{"application/octet-stream", "", true},
		{"application/x-halo2-multi", "", true},
		{"application/x-halo3-multi.blf", "", true},
		{"application/x-halo3-..%2f", "", true},
		{"", "", true},
		{"not a media type;;", "", true},
	}

	for _, tt := range tests {
		got, err := ParseContentType(tt.ct)
		if tt.wantErr {
			if !errors.Is(err, ErrUnrecognizedUpload) {
				t.Errorf("ParseContentType(%q) error = %v, want ErrUnrecognizedUpload", tt.ct, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseContentType(%q) unexpected error: %v", tt.ct, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseContentType(%q) = %q, want %q", tt.ct, got, tt.want)
		}
	}
}
