package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Snapshot maps a page id to its last known last-edited time. A nil marker
// means the page is known but its version is not.
type Snapshot map[string]*string

type fileFormat struct {
	Pages   map[string]*string `json:"pages,omitempty"`
	PageIDs []string           `json:"pageIds,omitempty"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load never fails: a missing, unreadable or malformed file yields an empty
// snapshot, and the legacy {"pageIds": [...]} format is upgraded in memory.
func (s *Store) Load() Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read snapshot, starting empty", "path", s.path, "error", err)
		}
		return Snapshot{}
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		slog.Warn("Malformed snapshot, starting empty", "path", s.path, "error", err)
		return Snapshot{}
	}

	if file.Pages != nil {
		return Snapshot(file.Pages)
	}

	snap := make(Snapshot, len(file.PageIDs))
	for _, id := range file.PageIDs {
		snap[id] = nil
	}
	if len(file.PageIDs) > 0 {
		slog.Debug("Upgraded legacy snapshot", "path", s.path, "pages", len(file.PageIDs))
	}
	return snap
}

// Save replaces the snapshot file as a whole.
func (s *Store) Save(snap Snapshot) error {
	if snap == nil {
		snap = Snapshot{}
	}

	data, err := json.MarshalIndent(struct {
		Pages Snapshot `json:"pages"`
	}{Pages: snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}
