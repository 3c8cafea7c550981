package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lysyi3m/blog-sync/app/database"
	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/snapshot"
)

type MockContentSource struct {
	pages      []notion.Page
	err        error
	databaseID string
	filter     *notion.Filter
}

func (m *MockContentSource) QueryDatabase(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	m.databaseID = databaseID
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

type MockDeployTrigger struct {
	mu      sync.Mutex
	calls   int
	sources []string
	err     error
}

func (m *MockDeployTrigger) Fire(ctx context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.sources = append(m.sources, source)
	return m.err
}

type MockRunRepository struct {
	runs []database.Run
}

func (m *MockRunRepository) InsertRun(run database.Run) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *MockRunRepository) ListRuns(limit int) ([]database.Run, error) {
	return m.runs, nil
}

func (m *MockRunRepository) CountRuns() (int, error) {
	return len(m.runs), nil
}

func page(id, edited string) notion.Page {
	return notion.Page{ID: id, LastEditedTime: edited, Properties: map[string]notion.Property{}}
}

type syncFixture struct {
	source *MockContentSource
	hook   *MockDeployTrigger
	runs   *MockRunRepository
	store  *snapshot.Store
	deps   SyncDeps
}

func newSyncFixture(t *testing.T, pages ...notion.Page) *syncFixture {
	t.Helper()
	f := &syncFixture{
		source: &MockContentSource{pages: pages},
		hook:   &MockDeployTrigger{},
		runs:   &MockRunRepository{},
		store:  snapshot.NewStore(filepath.Join(t.TempDir(), ".notionsync", "published.json")),
	}
	f.deps = SyncDeps{
		DatabaseID: "db-1",
		Filter:     &notion.Filter{Property: "status", Kind: "select", Equals: "Public"},
		Notion:     f.source,
		Snapshots:  f.store,
		Hook:       f.hook,
		Runs:       f.runs,
	}
	return f
}

func (f *syncFixture) execute(t *testing.T) (*SyncContentTask, error) {
	t.Helper()
	task := NewSyncContentTask(SourceCLI, f.deps)
	err := task.Execute(context.Background())
	return task, err
}

func TestSyncFirstRunTriggersDeploy(t *testing.T) {
	f := newSyncFixture(t, page("a", "2024-01-01T00:00:00.000Z"), page("b", "2024-01-02T00:00:00.000Z"))

	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if f.source.databaseID != "db-1" || f.source.filter == nil || f.source.filter.Equals != "Public" {
		t.Errorf("Expected query with database id and filter, got %q %+v", f.source.databaseID, f.source.filter)
	}
	if f.hook.calls != 1 {
		t.Errorf("Expected 1 deploy call, got %d", f.hook.calls)
	}
	if f.hook.sources[0] != SourceCLI {
		t.Errorf("Expected source %q, got %q", SourceCLI, f.hook.sources[0])
	}

	run := task.Run()
	if run.Outcome != OutcomeChanged || !run.Deployed || run.NewCount != 2 || run.Fetched != 2 {
		t.Errorf("Unexpected run record %+v", run)
	}

	snap := f.store.Load()
	if len(snap) != 2 || snap["a"] == nil || *snap["a"] != "2024-01-01T00:00:00.000Z" {
		t.Errorf("Expected snapshot with both pages, got %v", snap)
	}

	if len(f.runs.runs) != 1 || f.runs.runs[0].ID != task.GetID() {
		t.Errorf("Expected run to be recorded, got %+v", f.runs.runs)
	}
}

func TestSyncUnchangedIsNoop(t *testing.T) {
	f := newSyncFixture(t, page("a", "2024-01-01T00:00:00.000Z"))

	if _, err := f.execute(t); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if f.hook.calls != 1 {
		t.Errorf("Expected deploy only on first run, got %d calls", f.hook.calls)
	}
	if task.Run().Outcome != OutcomeNoop {
		t.Errorf("Expected outcome %q, got %q", OutcomeNoop, task.Run().Outcome)
	}
}

func TestSyncUpdatedMarkerTriggersDeploy(t *testing.T) {
	f := newSyncFixture(t, page("a", "2024-01-01T00:00:00.000Z"))
	if _, err := f.execute(t); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	f.source.pages = []notion.Page{page("a", "2024-02-01T00:00:00.000Z")}
	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if f.hook.calls != 2 {
		t.Errorf("Expected 2 deploy calls, got %d", f.hook.calls)
	}
	if task.Run().Updated != 1 || task.Run().NewCount != 0 {
		t.Errorf("Expected 1 updated entry, got %+v", task.Run())
	}
	if marker := f.store.Load()["a"]; marker == nil || *marker != "2024-02-01T00:00:00.000Z" {
		t.Errorf("Expected snapshot to carry new marker, got %v", marker)
	}
}

func TestSyncLegacySnapshotEntriesAreNotUpdated(t *testing.T) {
	f := newSyncFixture(t, page("a", "2024-01-01T00:00:00.000Z"))
	if err := os.MkdirAll(filepath.Dir(f.store.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.store.Path(), []byte(`{"pageIds":["a"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if task.Run().Outcome != OutcomeNoop || f.hook.calls != 0 {
		t.Errorf("Expected legacy entry to be a no-op, got outcome %q with %d calls", task.Run().Outcome, f.hook.calls)
	}
}

func TestSyncSavesSnapshotWhenHookFails(t *testing.T) {
	f := newSyncFixture(t, page("a", "2024-01-01T00:00:00.000Z"))
	f.hook.err = errors.New("hook down")

	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	run := task.Run()
	if run.Deployed || run.Error != "hook down" || run.Outcome != OutcomeChanged {
		t.Errorf("Unexpected run record %+v", run)
	}
	if _, ok := f.store.Load()["a"]; !ok {
		t.Error("Expected snapshot to be saved despite hook failure")
	}
}

func TestSyncAbortsOnUnexpectedShape(t *testing.T) {
	f := newSyncFixture(t)
	f.source.err = notion.ErrUnexpectedShape

	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected clean abort, got: %v", err)
	}

	if task.Run().Outcome != OutcomeAborted {
		t.Errorf("Expected outcome %q, got %q", OutcomeAborted, task.Run().Outcome)
	}
	if f.hook.calls != 0 {
		t.Errorf("Expected no deploy call, got %d", f.hook.calls)
	}
	if _, err := os.Stat(f.store.Path()); !os.IsNotExist(err) {
		t.Error("Expected snapshot file to stay absent")
	}
}

func TestSyncFailsOnTransportError(t *testing.T) {
	f := newSyncFixture(t)
	f.source.err = errors.New("connection refused")

	task, err := f.execute(t)
	if err == nil {
		t.Fatal("Expected error for failed query")
	}

	if task.Run().Outcome != OutcomeFailed {
		t.Errorf("Expected outcome %q, got %q", OutcomeFailed, task.Run().Outcome)
	}
	if len(f.runs.runs) != 1 || f.runs.runs[0].Error == "" {
		t.Errorf("Expected failed run to be recorded with error, got %+v", f.runs.runs)
	}
}

func TestSyncWithoutDatabaseIsNoop(t *testing.T) {
	f := newSyncFixture(t)
	f.deps.DatabaseID = ""
	f.deps.Runs = nil

	task, err := f.execute(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if task.Run().Outcome != OutcomeNoop || f.hook.calls != 0 {
		t.Errorf("Expected no-op without database, got %+v", task.Run())
	}
}
