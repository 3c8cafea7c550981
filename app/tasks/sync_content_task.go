package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/blog-sync/app/changes"
	"github.com/lysyi3m/blog-sync/app/database"
	"github.com/lysyi3m/blog-sync/app/metrics"
	"github.com/lysyi3m/blog-sync/app/notion"
)

const (
	OutcomeNoop    = "noop"
	OutcomeChanged = "changed"
	OutcomeAborted = "aborted"
	OutcomeFailed  = "failed"
)

// SyncDeps are the collaborators shared by every sync run.
type SyncDeps struct {
	DatabaseID string
	Filter     *notion.Filter
	Notion     ContentSource
	Snapshots  SnapshotStore
	Hook       DeployTrigger
	Runs       database.RunRepository // optional
}

// SyncContentTask performs one sync run: fetch published entries, compare
// them with the snapshot, call the deploy hook on change and store the new
// snapshot.
type SyncContentTask struct {
	Task
	deps SyncDeps
	run  database.Run
}

func NewSyncContentTask(source string, deps SyncDeps) *SyncContentTask {
	return &SyncContentTask{
		Task: NewTask(TaskTypeSyncContent, source),
		deps: deps,
	}
}

// Run returns the record of the last Execute call.
func (t *SyncContentTask) Run() database.Run {
	return t.run
}

// Execute returns an error only for failed runs. A response of unexpected
// shape aborts the run cleanly.
func (t *SyncContentTask) Execute(ctx context.Context) error {
	t.run = database.Run{
		ID:        t.ID,
		Source:    t.Source,
		StartedAt: time.Now(),
	}

	err := t.sync(ctx)

	switch {
	case err == nil:
	case errors.Is(err, notion.ErrUnexpectedShape):
		slog.Warn("Sync aborted, Notion returned an unexpected response", "id", t.ID, "error", err)
		t.run.Outcome = OutcomeAborted
		t.run.Error = err.Error()
		err = nil
	default:
		t.run.Outcome = OutcomeFailed
		t.run.Error = err.Error()
	}

	t.run.FinishedAt = time.Now()
	metrics.SyncRunsTotal.WithLabelValues(t.run.Outcome).Inc()
	t.record()

	return err
}

func (t *SyncContentTask) sync(ctx context.Context) error {
	prev := t.deps.Snapshots.Load()

	pages, err := t.deps.Notion.QueryDatabase(ctx, t.deps.DatabaseID, t.deps.Filter)
	if err != nil {
		return fmt.Errorf("failed to query published posts: %w", err)
	}

	entries := changes.EntriesFromPages(pages)
	t.run.Fetched = len(entries)
	metrics.SyncEntriesFetched.Set(float64(len(entries)))

	result := changes.Detect(prev, entries)
	t.run.NewCount = len(result.New)
	t.run.Updated = len(result.Updated)

	if !result.Changed() {
		slog.Info("No new or updated posts", "fetched", len(entries))
		t.run.Outcome = OutcomeNoop
		return nil
	}

	slog.Info("Posts changed, triggering deploy", "new", len(result.New), "updated", len(result.Updated))

	if err := t.deps.Hook.Fire(ctx, t.Source); err != nil {
		slog.Error("Failed to trigger deploy", "error", err)
		t.run.Error = err.Error()
	} else {
		t.run.Deployed = true
	}

	if err := t.deps.Snapshots.Save(changes.Fold(entries)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	t.run.Outcome = OutcomeChanged
	return nil
}

func (t *SyncContentTask) record() {
	if t.deps.Runs == nil {
		return
	}
	if err := t.deps.Runs.InsertRun(t.run); err != nil {
		slog.Warn("Failed to record sync run", "id", t.ID, "error", err)
	}
}
