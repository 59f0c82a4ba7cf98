package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestVideo(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "intro.mp4"),
		filepath.Join(dir, "take2.WEBM"),
		filepath.Join(dir, "notes.txt"),
	}
	base := time.Now().Add(-time.Hour)
	for i, f := range files {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		modTime := base.Add(time.Duration(i) * time.Minute)
		os.Chtimes(f, modTime, modTime)
	}

	latest, err := FindLatestVideo(dir)
	if err != nil {
		t.Fatalf("FindLatestVideo failed: %v", err)
	}
	if latest != files[1] {
		t.Errorf("Expected %s, got %s", files[1], latest)
	}
}

func TestFindLatestFileNoMatch(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755)

	if _, err := FindLatestFile(dir, ".yaml"); err == nil {
		t.Error("Expected error when no file matches")
	}
}

func TestFindLatestFileMissingDir(t *testing.T) {
	if _, err := FindLatestFile(filepath.Join(t.TempDir(), "missing"), ".mp4"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestProcessUsage(t *testing.T) {
	u, err := ProcessUsage(context.Background())
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if u.RSSBytes == 0 {
		t.Error("Expected non-zero resident memory")
	}
	if u.Threads <= 0 {
		t.Errorf("Expected positive thread count, got %d", u.Threads)
	}
}
