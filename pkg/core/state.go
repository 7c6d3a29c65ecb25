package core

import (
	"context"
	"time"
)

// Store defines the persistence operations used by the harvest service.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// History operations
	SaveHistory(ctx context.Context, browser string, entries []HistoryEntry) (int, error)
	Stats(ctx context.Context) (*AggregateStats, error)
	ListHistory(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)

	// Run operations
	CreateRun(ctx context.Context) (*Run, error)
	CompleteRun(ctx context.Context, id string, status RunStatus, inserted int, errMsg string) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

// RunStatus is the lifecycle state of a harvest run.
type RunStatus string

// Run status values.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one execution of the harvest action.
type Run struct {
	ID          string
	Status      RunStatus
	Inserted    int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}
