package timeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateSessionPath(t *testing.T) {
	path := GenerateSessionPath("sessions")

	if !strings.Contains(path, "session_") {
		t.Errorf("Path should contain 'session_': %s", path)
	}

	if filepath.Dir(path) != "sessions" {
		t.Errorf("Path should be in sessions: %s", path)
	}

	if filepath.Ext(path) != ".yaml" {
		t.Errorf("Path should have .yaml extension: %s", path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestSession(t *testing.T) {
	testDir := t.TempDir()

	// Create test files with different timestamps
	files := []string{
		filepath.Join(testDir, "session_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "session_2026-02-13_01-00-00.yaml"),
		filepath.Join(testDir, "session_2026-02-11_15-30-00.yml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		// Set different modification times
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("ignored"), 0644)

	latest, err := FindLatestSession(testDir)
	if err != nil {
		t.Fatalf("FindLatestSession failed: %v", err)
	}

	t.Logf("Latest session: %s", latest)

	// Should be the last file (most recent mod time)
	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestSessionEmptyDir(t *testing.T) {
	if _, err := FindLatestSession(t.TempDir()); err == nil {
		t.Error("Expected error for directory without sessions")
	}
}
