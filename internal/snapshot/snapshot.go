// Package snapshot loads goal-tracking snapshot files.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okrpulse/okrpulse/internal/contract"
	"github.com/okrpulse/okrpulse/schema"
)

// FileSource implements the SnapshotSource interface by reading a JSON
// snapshot file exported from the goal-tracking platform. Records the
// engine does not know about are ignored, so exports from newer platform
// versions still load.
type FileSource struct{}

var _ contract.SnapshotSource = &FileSource{} // Compile-time check

// NewFileSource creates a new instance of the file-backed snapshot source.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Load implements the SnapshotSource interface.
func (s *FileSource) Load(ctx context.Context, path string) (*schema.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %q: %w. Check that the path exists and is readable", path, err)
	}

	var snap schema.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %q: %w. Expected a JSON export with users, goals, key_results, checkpoints and targets", path, err)
	}

	// Older exports carry no fetch timestamp; stamp load time so downstream
	// consumers always have one.
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	return &snap, nil
}
