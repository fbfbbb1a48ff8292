package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/halostats/uploadserver/internal/archive"
)

type pruningStore struct {
	memStore
	cutoffs chan time.Time
}

func (p *pruningStore) Prune(_ context.Context, before time.Time) (int, error) {
	p.cutoffs <- before
	return 0, nil
}

func TestStartRetentionScheduler_PrunesAtCutoff(t *testing.T) {
	store := &pruningStore{cutoffs: make(chan time.Time, 4)}
	svc := newTestService(t, store, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartRetentionScheduler(ctx, RetentionConfig{RetentionDays: 30, CheckInterval: time.Hour})
		close(done)
	}()

	select {
	case got := <-store.cutoffs:
		want := testNow.AddDate(0, 0, -30)
		if !got.Equal(want) {
			t.Errorf("prune cutoff = %v, want %v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("scheduler did not run on start")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestStartRetentionScheduler_Disabled(t *testing.T) {
	tests := []struct {
		name  string
		store archive.Store
		cfg   RetentionConfig
	}{
		{"store cannot prune", &memStore{}, RetentionConfig{RetentionDays: 30, CheckInterval: time.Hour}},
		{"unlimited retention", &pruningStore{cutoffs: make(chan time.Time, 1)}, RetentionConfig{CheckInterval: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.store, &recordingSink{})

			done := make(chan struct{})
			go func() {
				svc.StartRetentionScheduler(context.Background(), tt.cfg)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("disabled scheduler should return immediately")
			}
		})
	}
}

func TestRunRetentionJob_DiskStore(t *testing.T) {
	dir := t.TempDir()
	disk, err := archive.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	svc := newTestService(t, disk, &recordingSink{})

	ctx := context.Background()
	oldKey := archive.Key{Kind: "multi", Filename: "old.blf", Time: testNow}
	newKey := archive.Key{Kind: "multi", Filename: "new.blf", Time: testNow}
	for _, k := range []archive.Key{oldKey, newKey} {
		if err := disk.Put(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	oldPath := filepath.Join(dir, filepath.FromSlash(oldKey.Path()))
	newPath := filepath.Join(dir, filepath.FromSlash(newKey.Path()))
	if err := os.Chtimes(oldPath, testNow.AddDate(0, 0, -10), testNow.AddDate(0, 0, -10)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newPath, testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, -1)); err != nil {
		t.Fatal(err)
	}

	svc.runRetentionJob(ctx, disk, RetentionConfig{RetentionDays: 7})

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("old archive still present (err = %v)", err)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("recent archive removed: %v", err)
	}
}
