package database

import (
	"time"
)

// Run is one recorded sync run.
type Run struct {
	ID         string
	Source     string // cli, schedule or api
	Outcome    string
	Fetched    int
	NewCount   int
	Updated    int
	Deployed   bool
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
