package timeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/mockvideo/internal/system"
)

// SessionExtensions are the file suffixes recognised as session files
var SessionExtensions = []string{".yaml", ".yml"}

// GenerateSessionPath returns a timestamped session filename inside dir
func GenerateSessionPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("session_%s.yaml", timestamp))
}

// FindLatestSession returns the most recently modified session file in dir
func FindLatestSession(dir string) (string, error) {
	return system.FindLatestFile(dir, SessionExtensions...)
}
