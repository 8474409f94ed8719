package media

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweep deletes files in the store directory whose storage name is not in
// inUse. Files younger than minAge are left alone: an upload may land on disk
// before the row that references it is committed.
func (s *LocalStore) Sweep(inUse map[string]struct{}, minAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read uploads dir %s: %w", s.dir, err)
	}

	cutoff := time.Now().Add(-minAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if _, ok := inUse[name]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Error("could not stat upload during sweep", "file", name, "error", err)

			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			slog.Error("could not remove orphaned upload", "file", name, "error", err)

			continue
		}

		removed++
	}

	return removed, nil
}
