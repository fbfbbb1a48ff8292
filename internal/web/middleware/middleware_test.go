package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halostats/uploadserver/internal/logging"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "untrusted peer keeps its own address",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.9:51234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1"},
			want:       "203.0.113.9",
		},
		{
			name:       "trusted proxy X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1"},
			want:       "198.51.100.1",
		},
		{
			name:       "trusted proxy first X-Forwarded-For hop",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.9.9.9"},
			want:       "198.51.100.7",
		},
		{
			name:       "invalid header ignored",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.1.2.3",
		},
		{
			name:       "bare address as trusted proxy",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:8000",
			headers:    map[string]string{"X-Real-IP": "2001:db8::1"},
			want:       "2001:db8::1",
		},
		{
			name:       "no trusted proxies",
			remoteAddr: "[2001:db8::2]:9000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7"},
			want:       "2001:db8::2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxies_SkipsInvalid(t *testing.T) {
	got := ParseTrustedProxies([]string{"10.0.0.0/8", " ", "bogus", "192.168.1.1"})
	if len(got) != 2 {
		t.Fatalf("ParseTrustedProxies() returned %d prefixes, want 2: %v", len(got), got)
	}
	if got[1].Bits() != 32 {
		t.Errorf("bare IPv4 prefix bits = %d, want 32", got[1].Bits())
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		required bool
		keys     []string
		header   string
		bearer   string
		want     int
	}{
		{"disabled", false, nil, "", "", http.StatusNoContent},
		{"missing key", true, []string{"k1"}, "", "", http.StatusUnauthorized},
		{"wrong key", true, []string{"k1"}, "k2", "", http.StatusForbidden},
		{"valid key", true, []string{"k1", "k2"}, "k2", "", http.StatusNoContent},
		{"valid bearer", true, []string{"k1"}, "", "k1", http.StatusNoContent},
		{"wrong bearer", true, []string{"k1"}, "", "k9", http.StatusForbidden},
		{"required without keys", true, nil, "k1", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			APIKeyAuth(tt.required, tt.keys)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", "text", &buf)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("busy"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload_server/stats.ashx", nil)
	req = req.WithContext(logging.NewContext(context.Background(), logger))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := buf.String()
	for _, want := range []string{"level=ERROR", "status=503", "bytes=4", "path=/upload_server/stats.ashx"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	ww.WriteHeader(http.StatusBadRequest)
	ww.WriteHeader(http.StatusInternalServerError)

	if ww.status != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", ww.status, http.StatusBadRequest)
	}
}
