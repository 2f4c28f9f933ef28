package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataSubdirs are the library directories created under the data root.
var DataSubdirs = []string{"info", "download", "src", "stems", "mash", "export"}

// EnsureDataDirs creates the data root and its subdirectories.
func EnsureDataDirs(dataDir string) error {
	for _, sub := range DataSubdirs {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", sub, err)
		}
	}
	return nil
}

// TrackFiles returns every file under the data tree belonging to a
// track ID: its analysis JSON, source wav, stems, and renders.
func TrackFiles(dataDir, id string) []string {
	candidates := []string{
		filepath.Join(dataDir, "info", id+".json"),
		filepath.Join(dataDir, "download", id+".m4a"),
		filepath.Join(dataDir, "src", id+".wav"),
		filepath.Join(dataDir, "stems", id+"_Vocals.wav"),
		filepath.Join(dataDir, "stems", id+"_Accompaniment.wav"),
	}

	var found []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}

	// Renders name both participating tracks, so glob for either side.
	for _, dir := range []string{"mash", "export"} {
		matches, err := filepath.Glob(filepath.Join(dataDir, dir, "*"+id+"*"))
		if err == nil {
			found = append(found, matches...)
		}
	}
	return found
}

// RemoveTrackFiles deletes every on-disk file for a track ID and
// returns the paths removed.
func RemoveTrackFiles(dataDir, id string) ([]string, error) {
	files := TrackFiles(dataDir, id)
	var removed []string
	for _, path := range files {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// FileSize returns the size of a file in bytes, or 0 when it does not
// exist.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// TruncateString shortens s to max runes, appending an ellipsis when
// something was cut.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
