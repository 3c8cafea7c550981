package changes

import (
	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/snapshot"
)

// Entry is a fetched page reduced to what change detection needs.
type Entry struct {
	ID        string
	UpdatedAt *string
}

type Result struct {
	HasNew     bool
	HasUpdated bool
	New        []string
	Updated    []string
}

func (r Result) Changed() bool {
	return r.HasNew || r.HasUpdated
}

func EntriesFromPages(pages []notion.Page) []Entry {
	entries := make([]Entry, 0, len(pages))
	for _, page := range pages {
		entry := Entry{ID: page.ID}
		if page.LastEditedTime != "" {
			marker := page.LastEditedTime
			entry.UpdatedAt = &marker
		}
		entries = append(entries, entry)
	}
	return entries
}

// Detect classifies the fetched entries against the previous snapshot. An
// entry counts as updated only when its previous marker is known and differs;
// a nil previous marker is never compared.
func Detect(prev snapshot.Snapshot, entries []Entry) Result {
	var result Result

	for _, entry := range entries {
		prevMarker, known := prev[entry.ID]
		if !known {
			result.HasNew = true
			result.New = append(result.New, entry.ID)
			continue
		}

		if prevMarker == nil {
			continue
		}

		if entry.UpdatedAt == nil || *entry.UpdatedAt != *prevMarker {
			result.HasUpdated = true
			result.Updated = append(result.Updated, entry.ID)
		}
	}

	return result
}

// Fold builds the snapshot that replaces the previous one after a run.
func Fold(entries []Entry) snapshot.Snapshot {
	snap := make(snapshot.Snapshot, len(entries))
	for _, entry := range entries {
		snap[entry.ID] = entry.UpdatedAt
	}
	return snap
}
