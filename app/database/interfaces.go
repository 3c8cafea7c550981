package database

type RunRepository interface {
	InsertRun(run Run) error
	ListRuns(limit int) ([]Run, error)
	CountRuns() (int, error)
}
