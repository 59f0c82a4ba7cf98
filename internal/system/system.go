package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// VideoExtensions are the container formats a video element can load
var VideoExtensions = []string{".mp4", ".webm", ".mov", ".mkv", ".m4v"}

// FindLatestFile returns the newest regular file in dir whose extension is
// one of exts. Matching is case-insensitive.
func FindLatestFile(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

// FindLatestVideo returns the newest video file in dir
func FindLatestVideo(dir string) (string, error) {
	return FindLatestFile(dir, VideoExtensions...)
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
