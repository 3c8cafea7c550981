package tasks

import (
	"context"

	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/snapshot"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Tasks run one at a time so two syncs never race on the snapshot file.
//
//	scheduler := NewScheduler(factory, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.TriggerSync(SourceAPI)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	TriggerSync(source string) (string, error)
}

type ContentSource interface {
	QueryDatabase(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error)
}

type DeployTrigger interface {
	Fire(ctx context.Context, source string) error
}

type SnapshotStore interface {
	Load() snapshot.Snapshot
	Save(snap snapshot.Snapshot) error
}
