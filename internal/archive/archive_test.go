package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

func TestKeyPath(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"stats", Key{Kind: "multi", Filename: "stats.blf", Time: ts}, "multi/stats.blf_1700000000123"},
		{"other subtype", Key{Kind: "campaign", Filename: "c.bin", Time: ts}, "campaign/c.bin_1700000000123"},
		{"crash", Key{Kind: KindCrash, Filename: "dump.xex", Time: ts}, "crashes/dump.xex"},
		{"traversal", Key{Kind: "multi", Filename: "../../etc/passwd", Time: ts}, "multi/passwd_1700000000123"},
		{"windows path", Key{Kind: "multi", Filename: `C:\xbox\stats.blf`, Time: ts}, "multi/stats.blf_1700000000123"},
		{"empty name", Key{Kind: "multi", Time: ts}, "multi/upload_1700000000123"},
		{"dot dot", Key{Kind: "multi", Filename: "..", Time: ts}, "multi/upload_1700000000123"},
		{"control chars", Key{Kind: "multi", Filename: "a\nb", Time: ts}, "multi/ab_1700000000123"},
		{"empty kind", Key{Filename: "x", Time: ts}, "unknown/x_1700000000123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiskStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	key := Key{Kind: "multi", Filename: "stats.blf", Time: time.UnixMilli(42)}
	if err := store.Put(context.Background(), key, []byte("payload")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "uploads", "multi", "stats.blf_42"))
	if err != nil {
		t.Fatalf("read archived file: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("archived contents = %q, want %q", got, "payload")
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "uploads", "multi"))
	if len(entries) != 1 {
		t.Errorf("partition holds %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestDiskStore_PutCancelled(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, Key{Kind: "multi", Filename: "x"}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestDiskStore_Prune(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	old := Key{Kind: "multi", Filename: "old", Time: now}
	fresh := Key{Kind: KindCrash, Filename: "fresh", Time: now}
	for _, k := range []Key{old, fresh} {
		if err := store.Put(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Put(%s) error = %v", k.Path(), err)
		}
	}

	oldPath := filepath.Join(store.Root(), filepath.FromSlash(old.Path()))
	past := now.Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("old archive still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "crashes", "fresh")); err != nil {
		t.Errorf("fresh archive missing: %v", err)
	}
}

type fakeUploader struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.StringValue(in.Bucket)
	f.key = aws.StringValue(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3manager.UploadOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	tests := []struct {
		prefix  string
		wantKey string
	}{
		{"", "multi/stats.blf_7"},
		{"uploads", "uploads/multi/stats.blf_7"},
		{"/uploads/", "uploads/multi/stats.blf_7"},
	}

	for _, tt := range tests {
		up := &fakeUploader{}
		store := NewS3Store(up, "halo-uploads", tt.prefix)

		key := Key{Kind: "multi", Filename: "stats.blf", Time: time.UnixMilli(7)}
		if err := store.Put(context.Background(), key, []byte("blf")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if up.bucket != "halo-uploads" {
			t.Errorf("bucket = %q, want %q", up.bucket, "halo-uploads")
		}
		if up.key != tt.wantKey {
			t.Errorf("prefix %q: key = %q, want %q", tt.prefix, up.key, tt.wantKey)
		}
		if !bytes.Equal(up.body, []byte("blf")) {
			t.Errorf("body = %q, want %q", up.body, "blf")
		}
	}
}

func TestS3Store_PutError(t *testing.T) {
	store := NewS3Store(&fakeUploader{err: errors.New("boom")}, "b", "")
	if err := store.Put(context.Background(), Key{Kind: "multi"}, nil); err == nil {
		t.Error("Put() error = nil, want upload failure")
	}
}

var (
	_ Store  = (*DiskStore)(nil)
	_ Pruner = (*DiskStore)(nil)
	_ Store  = (*S3Store)(nil)
)
