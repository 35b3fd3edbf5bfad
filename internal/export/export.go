// Package export reads and writes the record export file: an ordered JSON
// array of movie records, the hand-off between the scrape and load steps.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// Write serializes records in order to path, creating parent directories.
// Absent optional fields are omitted from the output, never zero-filled.
func Write(path string, records []movie.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	// Write to a temp file first so a crashed run never leaves a truncated
	// export behind for the loader to pick up.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize export: %w", err)
	}
	return nil
}

// Read loads the ordered record sequence from path.
func Read(path string) ([]movie.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var records []movie.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return records, nil
}

// WaitForFile polls until path exists and is non-empty, or the window
// closes. The scrape and load steps run as separate processes, so the loader
// may start before the export lands.
func WaitForFile(ctx context.Context, path string, poll, timeout time.Duration) error {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("export file %s not present after %s", path, timeout)
		}
		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
