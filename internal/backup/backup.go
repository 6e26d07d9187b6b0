// Package backup archives recorded simulation runs and restores them into
// any history.Store.
package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
)

// DirName is the archive directory under the data directory.
const DirName = "backups"

// filePrefix and fileExt name generated archives.
const (
	filePrefix = "attacksim-history-"
	fileExt    = ".bak"
)

// DefaultDir returns the archive directory inside dataDir.
func DefaultDir(dataDir string) string {
	return filepath.Join(dataDir, DirName)
}

// GeneratePath creates a timestamped archive filename in dir.
func GeneratePath(dir string, now time.Time) string {
	return filepath.Join(dir, filePrefix+now.UTC().Format("20060102-150405.000")+fileExt)
}

// Backup writes every record in s to outputPath.
func Backup(ctx context.Context, s history.Store, outputPath string, now time.Time) (*Header, error) {
	records, err := s.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if records == nil {
		records = []history.Record{}
	}

	return Write(outputPath, &Archive{CreatedAt: now.UTC(), Records: records})
}

// RestoreMode controls how Restore handles existing records.
type RestoreMode string

const (
	// RestoreMerge skips records whose ID is already stored (default).
	RestoreMerge RestoreMode = "merge"
	// RestoreReplace clears the store before restoring.
	RestoreReplace RestoreMode = "replace"
)

// RestoreResult contains statistics about a restore.
type RestoreResult struct {
	Restored int `json:"restored"`
	Skipped  int `json:"skipped"`
	Cleared  int `json:"cleared,omitempty"`
}

// Restore adds the records of the archive at inputPath to s.
// Records that fail validation abort the restore before anything is written.
func Restore(ctx context.Context, s history.Store, inputPath string, mode RestoreMode) (*RestoreResult, error) {
	a, err := Read(inputPath)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid archive: %w", err)
		}
	}

	result := &RestoreResult{}
	existing := make(map[string]bool)

	switch mode {
	case RestoreReplace:
		if result.Cleared, err = s.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear history: %w", err)
		}
	case RestoreMerge, "":
		current, err := s.List(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		for _, r := range current {
			existing[r.ID] = true
		}
	default:
		return nil, fmt.Errorf("unknown restore mode: %s", mode)
	}

	for _, r := range a.Records {
		if existing[r.ID] {
			result.Skipped++
			continue
		}
		if err := s.Add(ctx, r); err != nil {
			return result, fmt.Errorf("failed to restore run %s: %w", r.ID, err)
		}
		existing[r.ID] = true
		result.Restored++
	}
	return result, nil
}
